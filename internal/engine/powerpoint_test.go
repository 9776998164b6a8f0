// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost records the automation calls made against it.
type fakeHost struct {
	openErr  error
	saveErr  error
	closeErr error
	quitErr  error
	noWrite  bool

	calls []string
}

func (h *fakeHost) Open(path string) (automationDoc, error) {
	h.calls = append(h.calls, "open "+filepath.Base(path))
	if h.openErr != nil {
		return nil, h.openErr
	}
	return &fakeDoc{host: h}, nil
}

func (h *fakeHost) Quit() error {
	h.calls = append(h.calls, "quit")
	return h.quitErr
}

type fakeDoc struct{ host *fakeHost }

func (d *fakeDoc) SaveAs(path string, format int) error {
	d.host.calls = append(d.host.calls, "saveas "+filepath.Base(path))
	if format != ppSaveAsPDF {
		return errors.New("unexpected format")
	}
	if d.host.saveErr != nil {
		return d.host.saveErr
	}
	if d.host.noWrite {
		return nil
	}
	return os.WriteFile(path, []byte("pdf"), 0o644)
}

func (d *fakeDoc) Close() error {
	d.host.calls = append(d.host.calls, "close")
	return d.host.closeErr
}

func newTestPowerPoint(h *fakeHost) *PowerPoint {
	return &PowerPoint{connect: func() (automationHost, error) { return h, nil }}
}

func TestPowerPointConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "deck.pptx")
	writeFile(t, in, "pptx")
	out := filepath.Join(dir, "out")

	h := &fakeHost{}
	pdf, err := newTestPowerPoint(h).Convert(in, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "deck.pdf"), pdf)
	assert.FileExists(t, pdf)
	assert.Equal(t, []string{"open deck.pptx", "saveas deck.pdf", "close", "quit"}, h.calls)
}

func TestPowerPointConvert_CleanupOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		host      *fakeHost
		wantCalls []string
		wantErr   string
		missing   bool
	}{
		{
			name:      "save fails",
			host:      &fakeHost{saveErr: errors.New("file is password protected")},
			wantCalls: []string{"open deck.pptx", "saveas deck.pdf", "close", "quit"},
			wantErr:   "password protected",
		},
		{
			name:      "open fails",
			host:      &fakeHost{openErr: errors.New("file is corrupt")},
			wantCalls: []string{"open deck.pptx", "quit"},
			wantErr:   "file is corrupt",
		},
		{
			name:      "close fails after successful save",
			host:      &fakeHost{closeErr: errors.New("RPC server unavailable")},
			wantCalls: []string{"open deck.pptx", "saveas deck.pdf", "close", "quit"},
			wantErr:   "closing presentation",
		},
		{
			name:      "save reports success but writes nothing",
			host:      &fakeHost{noWrite: true},
			wantCalls: []string{"open deck.pptx", "saveas deck.pdf", "close", "quit"},
			missing:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "deck.pptx")
			writeFile(t, in, "pptx")

			_, err := newTestPowerPoint(tt.host).Convert(in, dir)
			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, tt.host.calls)

			var ce *ConversionError
			require.True(t, errors.As(err, &ce))
			if tt.missing {
				assert.True(t, errors.Is(err, ErrMissingOutput))
			} else {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPowerPointConvert_SaveErrorWinsOverQuitError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "deck.pptx")
	writeFile(t, in, "pptx")

	h := &fakeHost{saveErr: errors.New("disk full"), quitErr: errors.New("already gone")}
	_, err := newTestPowerPoint(h).Convert(in, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotContains(t, err.Error(), "already gone")
}

func TestPowerPointConvert_ConnectFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "deck.pptx")
	writeFile(t, in, "pptx")

	p := &PowerPoint{connect: func() (automationHost, error) {
		return nil, errors.New("class not registered")
	}}
	_, err := p.Convert(in, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting PowerPoint")
}

func TestNewPowerPoint_MatchesPlatform(t *testing.T) {
	p, err := NewPowerPoint()
	if PowerPointAvailable() {
		require.NoError(t, err)
		assert.Equal(t, "PowerPoint", p.Name())
		return
	}
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
