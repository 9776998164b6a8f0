//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for ppt2pdf developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "ppt2pdf"
	cmdPkg  = "./cmd/ppt2pdf"
)

// Default target when mage is run without arguments.
var Default = Build

// Build compiles the CLI binary into bin/, stamping the version from git
// when available.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if os.Getenv("GOOS") == "windows" {
		out += ".exe"
	}
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Windows cross-compiles the binary with PowerPoint automation compiled in.
func Windows() error {
	env := map[string]string{"GOOS": "windows", "GOARCH": "amd64"}
	out := filepath.Join(binDir, binName+".exe")
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunWithV(env, "go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build (windows): %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

func buildVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(v) == "" {
		return "dev"
	}
	return strings.TrimSpace(v)
}

// Test runs the unit tests. None of them launch soffice or PowerPoint.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check vets and tests the module.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Detect builds the CLI and reports which conversion engines this machine has.
func Detect() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "detect", "--container")
}

// sampleConfig is written by Init when no config exists yet.
const sampleConfig = `# ppt2pdf configuration. Environment variables override these
# (PPT2PDF_ENGINE, PPT2PDF_OUTPUT_DIR, PPT2PDF_HISTORY_DB, ...).
engine: auto
output_dir: ~/Desktop/PPT2PDF_Output
recursive: true
# soffice_path: /opt/libreoffice/program/soffice
container:
  image: libreoffice:latest
history:
  db: ~/.local/share/ppt2pdf/history.db
`

// Init writes ./ppt2pdf.yaml with defaults and creates the default output folder.
func Init() error {
	const cfgPath = "ppt2pdf.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("   %s exists, leaving it alone\n", cfgPath)
	} else {
		if err := os.WriteFile(cfgPath, []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		fmt.Println("  ", cfgPath)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	out := filepath.Join(home, "Desktop", "PPT2PDF_Output")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	fmt.Println("  ", out)
	fmt.Println("Project initialized.")
	return nil
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints project metrics: Go production and test lines.
func Stats() error {
	prodLines, testLines := 0, 0
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == binDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += n
		} else {
			prodLines += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}
