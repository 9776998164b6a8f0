// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// sofficeFlags request a headless conversion with no UI or first-start wizard.
var sofficeFlags = []string{
	"--headless",
	"--nologo",
	"--nodefault",
	"--invisible",
	"--nofirststartwizard",
}

// runner executes a command to completion and returns its combined output.
type runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Soffice converts presentations with the LibreOffice command line.
type Soffice struct {
	bin string
	run runner
}

// NewSoffice returns an engine that runs the soffice binary at bin.
func NewSoffice(bin string) *Soffice {
	return &Soffice{bin: bin, run: execRunner}
}

func (s *Soffice) Name() string { return "LibreOffice" }

// Path returns the soffice binary in use.
func (s *Soffice) Path() string { return s.bin }

// Convert runs soffice synchronously and returns the produced PDF path.
// A non-zero exit or a missing PDF is reported as a *ConversionError.
func (s *Soffice) Convert(inputFile, outputDir string) (string, error) {
	in, out, err := absPaths(inputFile, outputDir)
	if err != nil {
		return "", convErr(s.Name(), inputFile, err)
	}

	args := make([]string, 0, len(sofficeFlags)+5)
	args = append(args, sofficeFlags...)
	args = append(args, "--convert-to", "pdf", in, "--outdir", out)

	slog.Debug("running soffice", "bin", s.bin, "args", args)
	if output, err := s.run(s.bin, args...); err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", convErr(s.Name(), in, fmt.Errorf("soffice failed: %w", err))
	}

	pdf, err := resolveOutput(out, stem(in))
	if err != nil {
		return "", convErr(s.Name(), in, err)
	}
	return pdf, nil
}
