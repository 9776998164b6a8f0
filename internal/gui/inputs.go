// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gui

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/ppt2pdf/internal/discover"
)

// InputList is the user's selection of files and folders, in the order
// they were added. Expansion into presentations happens at start time.
type InputList struct {
	items []string
}

// Add appends paths, ignoring empty strings.
func (l *InputList) Add(paths ...string) {
	for _, p := range paths {
		if p != "" {
			l.items = append(l.items, p)
		}
	}
}

// RemoveAt removes the item at index i. Out-of-range indexes are ignored.
func (l *InputList) RemoveAt(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
}

// RemoveMissing drops items that no longer exist on disk and returns how
// many were removed.
func (l *InputList) RemoveMissing() int {
	before := len(l.items)
	l.items = discover.Existing(l.items)
	return before - len(l.items)
}

// Clear empties the list.
func (l *InputList) Clear() { l.items = nil }

// Len returns the number of items.
func (l *InputList) Len() int { return len(l.items) }

// At returns item i.
func (l *InputList) At(i int) string { return l.items[i] }

// Items returns a copy of the list.
func (l *InputList) Items() []string {
	return append([]string(nil), l.items...)
}

// PreflightError is a validation failure shown as a dialog before any
// batch starts.
type PreflightError struct {
	Title   string
	Message string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

var (
	errNoInput  = &PreflightError{Title: "No input", Message: "Add at least one file or folder."}
	errNoOutput = &PreflightError{Title: "No output folder", Message: "Choose an output folder."}
	errNoFiles  = &PreflightError{Title: "No PPT/PPTX files", Message: "No .ppt/.pptx found in the selection."}
)

// Preflight validates the selection, creates the output directory and
// expands the inputs into the task list.
func Preflight(inputs []string, outputDir string, recursive bool) ([]string, error) {
	if len(inputs) == 0 {
		return nil, errNoInput
	}
	if outputDir == "" {
		return nil, errNoOutput
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &PreflightError{Title: "Output folder", Message: err.Error()}
	}
	files, err := discover.Presentations(inputs, recursive)
	if err != nil {
		return nil, &PreflightError{Title: "Scan failed", Message: err.Error()}
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}
	return files, nil
}

// AsPreflight reports whether err is a PreflightError.
func AsPreflight(err error) (*PreflightError, bool) {
	var pe *PreflightError
	ok := errors.As(err, &pe)
	return pe, ok
}

// statusText is the label shown next to the progress bar.
func statusText(done, total int) string {
	if done >= total {
		return "Done."
	}
	return fmt.Sprintf("Converting %d / %d …", done, total)
}
