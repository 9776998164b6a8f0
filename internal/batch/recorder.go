// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"errors"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// MultiRecorder fans notifications out to every non-nil recorder. All
// recorders are called; their errors are joined.
func MultiRecorder(rs ...Recorder) Recorder {
	var kept multiRecorder
	for _, r := range rs {
		if r != nil {
			kept = append(kept, r)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return kept
}

type multiRecorder []Recorder

func (m multiRecorder) BatchStarted(st types.BatchState, outputDir string) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.BatchStarted(st, outputDir))
	}
	return errors.Join(errs...)
}

func (m multiRecorder) FileDone(batchID string, o types.FileOutcome) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.FileDone(batchID, o))
	}
	return errors.Join(errs...)
}

func (m multiRecorder) BatchFinished(st types.BatchState) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.BatchFinished(st))
	}
	return errors.Join(errs...)
}
