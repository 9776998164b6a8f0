// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// sofficeNames are the binary names searched on PATH, in order.
var sofficeNames = []string{"soffice", "libreoffice"}

// installPaths lists fixed LibreOffice locations per GOOS, checked after PATH.
var installPaths = map[string][]string{
	"windows": {
		`C:\Program Files\LibreOffice\program\soffice.exe`,
		`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	},
	"darwin": {
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	},
}

// finder abstracts PATH lookup and file existence for testing.
type finder interface {
	LookPath(file string) (string, error)
	Exists(path string) bool
}

type osFinder struct{}

func (osFinder) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osFinder) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DetectLibreOffice returns the path of the soffice binary, searching PATH
// first and then the usual install locations for this OS. It only looks at
// the filesystem; nothing is executed.
func DetectLibreOffice() (string, bool) {
	return detectLibreOffice(osFinder{}, runtime.GOOS)
}

func detectLibreOffice(f finder, goos string) (string, bool) {
	for _, name := range sofficeNames {
		if p, err := f.LookPath(name); err == nil && p != "" {
			return p, true
		}
	}
	for _, p := range installPaths[goos] {
		if f.Exists(p) {
			return p, true
		}
	}
	return "", false
}

// PowerPointAvailable reports whether this build can drive PowerPoint over
// COM. It is a best guess: PowerPoint itself may still be missing, which
// only shows when a conversion is attempted.
func PowerPointAvailable() bool {
	return powerPointSupported
}

// Report summarises engine availability for the detect command and dialog.
type Report struct {
	SofficePath string
	PowerPoint  bool

	// ContainerRuntime is "docker" or "podman" when probed and found.
	ContainerProbed  bool
	ContainerRuntime string
}

// Detect gathers LibreOffice and PowerPoint availability.
func Detect() Report {
	path, _ := DetectLibreOffice()
	return Report{SofficePath: path, PowerPoint: PowerPointAvailable()}
}

func (r Report) String() string {
	var b strings.Builder
	if r.SofficePath != "" {
		fmt.Fprintf(&b, "LibreOffice: FOUND\n  Path: %s\n", r.SofficePath)
	} else {
		b.WriteString("LibreOffice: NOT FOUND\n")
	}
	b.WriteString("\n")
	if r.PowerPoint {
		b.WriteString("PowerPoint COM (Windows): AVAILABLE\n")
	} else {
		b.WriteString("PowerPoint COM (Windows): NOT AVAILABLE\n")
	}
	if r.ContainerProbed {
		b.WriteString("\n")
		if r.ContainerRuntime != "" {
			fmt.Fprintf(&b, "Container runtime: %s\n", r.ContainerRuntime)
		} else {
			b.WriteString("Container runtime: NOT FOUND\n")
		}
	}
	return b.String()
}
