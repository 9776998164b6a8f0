// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeFinder answers lookups from maps and counts calls.
type fakeFinder struct {
	onPath map[string]string
	files  map[string]bool
	looks  int
}

func (f *fakeFinder) LookPath(file string) (string, error) {
	f.looks++
	if p, ok := f.onPath[file]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (f *fakeFinder) Exists(path string) bool { return f.files[path] }

func TestDetectLibreOffice(t *testing.T) {
	tests := []struct {
		name   string
		finder *fakeFinder
		goos   string
		want   string
		found  bool
	}{
		{
			name:   "soffice on PATH",
			finder: &fakeFinder{onPath: map[string]string{"soffice": "/usr/bin/soffice", "libreoffice": "/usr/bin/libreoffice"}},
			goos:   "linux",
			want:   "/usr/bin/soffice",
			found:  true,
		},
		{
			name:   "libreoffice alias on PATH",
			finder: &fakeFinder{onPath: map[string]string{"libreoffice": "/usr/local/bin/libreoffice"}},
			goos:   "linux",
			want:   "/usr/local/bin/libreoffice",
			found:  true,
		},
		{
			name:   "windows Program Files",
			finder: &fakeFinder{files: map[string]bool{`C:\Program Files\LibreOffice\program\soffice.exe`: true}},
			goos:   "windows",
			want:   `C:\Program Files\LibreOffice\program\soffice.exe`,
			found:  true,
		},
		{
			name:   "windows x86 Program Files",
			finder: &fakeFinder{files: map[string]bool{`C:\Program Files (x86)\LibreOffice\program\soffice.exe`: true}},
			goos:   "windows",
			want:   `C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
			found:  true,
		},
		{
			name:   "macOS application bundle",
			finder: &fakeFinder{files: map[string]bool{"/Applications/LibreOffice.app/Contents/MacOS/soffice": true}},
			goos:   "darwin",
			want:   "/Applications/LibreOffice.app/Contents/MacOS/soffice",
			found:  true,
		},
		{
			name:   "install paths are OS specific",
			finder: &fakeFinder{files: map[string]bool{"/Applications/LibreOffice.app/Contents/MacOS/soffice": true}},
			goos:   "linux",
		},
		{
			name:   "nothing installed",
			finder: &fakeFinder{},
			goos:   "windows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectLibreOffice(tt.finder, tt.goos)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectLibreOffice_Repeatable(t *testing.T) {
	f := &fakeFinder{onPath: map[string]string{"soffice": "/usr/bin/soffice"}}
	first, _ := detectLibreOffice(f, "linux")
	second, _ := detectLibreOffice(f, "linux")
	assert.Equal(t, first, second)
	assert.Equal(t, 2, f.looks, "each call should do one PATH lookup and nothing else")
}

func TestReportString(t *testing.T) {
	r := Report{SofficePath: "/usr/bin/soffice"}
	s := r.String()
	assert.Contains(t, s, "LibreOffice: FOUND")
	assert.Contains(t, s, "Path: /usr/bin/soffice")
	assert.Contains(t, s, "PowerPoint COM (Windows): NOT AVAILABLE")
	assert.NotContains(t, s, "Container runtime")

	r = Report{PowerPoint: true, ContainerProbed: true, ContainerRuntime: "podman"}
	s = r.String()
	assert.Contains(t, s, "LibreOffice: NOT FOUND")
	assert.Contains(t, s, "PowerPoint COM (Windows): AVAILABLE")
	assert.True(t, strings.HasSuffix(s, "Container runtime: podman\n"))
}
