// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ppt2pdf/internal/container"
)

// fakeRuntime writes the PDF into the host directory mounted at /out.
type fakeRuntime struct {
	images map[string]bool
	runErr error
	image  string
	mounts []container.Mount
	args   []string
}

func (r *fakeRuntime) Name() string    { return "docker" }
func (r *fakeRuntime) Available() bool { return true }

func (r *fakeRuntime) ImageExists(image string) error {
	if r.images[image] {
		return nil
	}
	return errors.New("no such image")
}

func (r *fakeRuntime) Run(image string, mounts []container.Mount, args ...string) error {
	r.image, r.mounts, r.args = image, mounts, args
	if r.runErr != nil {
		return r.runErr
	}
	for _, m := range mounts {
		if m.Container == mountOut {
			in := args[len(args)-3]
			return os.WriteFile(filepath.Join(m.Host, stem(in)+".pdf"), []byte("pdf"), 0o644)
		}
	}
	return errors.New("no output mount")
}

func TestNewContainer_ImageCheck(t *testing.T) {
	_, err := NewContainer(&fakeRuntime{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soffice image not available in docker")

	c, err := NewContainer(&fakeRuntime{images: map[string]bool{DefaultImage: true}}, "")
	require.NoError(t, err)
	assert.Equal(t, "LibreOffice (docker libreoffice:latest)", c.Name())
}

func TestContainerConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "slides", "deck.pptx")
	writeFile(t, in, "pptx")
	out := filepath.Join(dir, "out")

	rt := &fakeRuntime{images: map[string]bool{"office:7": true}}
	c, err := NewContainer(rt, "office:7")
	require.NoError(t, err)

	pdf, err := c.Convert(in, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "deck.pdf"), pdf)

	assert.Equal(t, "office:7", rt.image)
	assert.Equal(t, []container.Mount{
		{Host: filepath.Join(dir, "slides"), Container: "/in", ReadOnly: true},
		{Host: out, Container: "/out"},
	}, rt.mounts)
	assert.Equal(t, "soffice", rt.args[0])
	assert.Equal(t, []string{"--convert-to", "pdf", "/in/deck.pptx", "--outdir", "/out"}, rt.args[len(rt.args)-5:])
}

func TestContainerConvert_RunFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "deck.pptx")
	writeFile(t, in, "pptx")

	rt := &fakeRuntime{images: map[string]bool{DefaultImage: true}, runErr: errors.New("exit status 125")}
	c, err := NewContainer(rt, DefaultImage)
	require.NoError(t, err)

	_, err = c.Convert(in, dir)
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "exit status 125")
}
