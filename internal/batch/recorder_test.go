// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

func TestMultiRecorder(t *testing.T) {
	assert.Nil(t, MultiRecorder())
	assert.Nil(t, MultiRecorder(nil, nil))

	single := &memRecorder{}
	assert.Same(t, single, MultiRecorder(nil, single))

	a, b := &memRecorder{fail: true}, &memRecorder{}
	m := MultiRecorder(a, b)
	st := types.BatchState{ID: "x"}
	require.NoError(t, m.BatchStarted(st, "/out"))

	err := m.FileDone("x", types.FileOutcome{Input: "/in/a.pptx"})
	require.Error(t, err)
	assert.Len(t, b.files, 1, "a failing recorder does not stop the others")

	require.NoError(t, m.BatchFinished(st))
	assert.Len(t, a.finished, 1)
	assert.Len(t, b.finished, 1)
}
