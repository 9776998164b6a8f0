// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine converts presentations to PDF through external tools.
// Each backend (LibreOffice's soffice CLI, PowerPoint COM automation, or
// soffice inside a container) implements Engine. The package also detects
// which backends are installed without launching any of them.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingOutput means the tool reported success but no PDF was found.
	ErrMissingOutput = errors.New("expected PDF not found")

	// ErrUnavailable means the backend cannot run on this host.
	ErrUnavailable = errors.New("engine not available on this platform")
)

// Engine converts one presentation to PDF.
type Engine interface {
	// Name identifies the backend in log lines (e.g. "LibreOffice").
	Name() string

	// Convert writes a PDF for inputFile into outputDir and returns the
	// PDF path. Any existing PDF with the same name is overwritten.
	Convert(inputFile, outputDir string) (string, error)
}

// ConversionError wraps the underlying tool failure for one input file.
type ConversionError struct {
	Engine string
	Input  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s could not convert %s: %v", e.Engine, filepath.Base(e.Input), e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func convErr(engine, input string, err error) error {
	return &ConversionError{Engine: engine, Input: input, Err: err}
}

// stem returns the file name without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// absPaths resolves the input file and output directory, creating the
// output directory if needed.
func absPaths(inputFile, outputDir string) (in, out string, err error) {
	in, err = filepath.Abs(inputFile)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", inputFile, err)
	}
	out, err = filepath.Abs(outputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory %s: %w", out, err)
	}
	return in, out, nil
}

// resolveOutput finds the PDF produced for name inside dir. soffice keeps
// the input's base name, so <dir>/<name>.pdf is tried first. Some builds
// vary the file name (case or a suffix), so the fallback is the most
// recently modified <name>*.pdf in dir. A stale PDF from an earlier run is
// returned as-is when soffice exits 0 without writing anything.
func resolveOutput(dir, name string) (string, error) {
	expected := filepath.Join(dir, name+".pdf")
	if info, err := os.Stat(expected); err == nil && !info.IsDir() {
		return expected, nil
	}

	matches, _ := filepath.Glob(filepath.Join(dir, name+"*.pdf"))
	var newest string
	var newestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod >= newestMod {
			newest, newestMod = m, mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingOutput, expected)
	}
	return newest, nil
}
