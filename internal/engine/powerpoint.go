// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ppSaveAsPDF is the PpSaveAsFileType value for PDF export.
const ppSaveAsPDF = 32

// automationHost is a running PowerPoint application.
type automationHost interface {
	// Open loads a presentation without showing a window.
	Open(path string) (automationDoc, error)
	// Quit shuts the application down and releases it.
	Quit() error
}

// automationDoc is an open presentation.
type automationDoc interface {
	SaveAs(path string, format int) error
	Close() error
}

// PowerPoint converts presentations through PowerPoint COM automation.
// Every Convert starts its own application instance and quits it before
// returning, whether or not the export succeeded.
type PowerPoint struct {
	connect func() (automationHost, error)
}

// NewPowerPoint returns the automation engine, or ErrUnavailable when this
// build has no COM support.
func NewPowerPoint() (*PowerPoint, error) {
	if !powerPointSupported {
		return nil, fmt.Errorf("PowerPoint COM: %w", ErrUnavailable)
	}
	return &PowerPoint{connect: connectPowerPoint}, nil
}

func (p *PowerPoint) Name() string { return "PowerPoint" }

// Convert opens inputFile invisibly, saves it as PDF into outputDir, then
// closes the presentation and quits PowerPoint.
func (p *PowerPoint) Convert(inputFile, outputDir string) (string, error) {
	in, out, err := absPaths(inputFile, outputDir)
	if err != nil {
		return "", convErr(p.Name(), inputFile, err)
	}
	pdf := filepath.Join(out, stem(in)+".pdf")

	if err := p.export(in, pdf); err != nil {
		return "", convErr(p.Name(), in, err)
	}
	if _, err := os.Stat(pdf); err != nil {
		return "", convErr(p.Name(), in, fmt.Errorf("%w: PowerPoint did not create %s", ErrMissingOutput, pdf))
	}
	return pdf, nil
}

// export holds the host and document for exactly the duration of the save.
// Close and Quit run on every path; their errors are reported only when
// the save itself succeeded.
func (p *PowerPoint) export(in, pdf string) (err error) {
	host, err := p.connect()
	if err != nil {
		return fmt.Errorf("starting PowerPoint: %w", err)
	}
	defer func() {
		if qerr := host.Quit(); qerr != nil && err == nil {
			err = fmt.Errorf("quitting PowerPoint: %w", qerr)
		}
	}()

	doc, err := host.Open(in)
	if err != nil {
		return fmt.Errorf("opening presentation: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing presentation: %w", cerr)
		}
	}()

	if err := doc.SaveAs(pdf, ppSaveAsPDF); err != nil {
		return fmt.Errorf("saving as PDF: %w", err)
	}
	return nil
}

var errNoCOM = errors.New("COM automation requires Windows")
