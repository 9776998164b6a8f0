// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

// recordBatch journals a batch the way the worker would.
func recordBatch(t *testing.T, s *Store, id string, outcomes []types.FileOutcome, status types.BatchStatus) types.BatchState {
	t.Helper()
	st := types.BatchState{ID: id, Engine: "LibreOffice", Status: types.BatchRunning, Total: len(outcomes)}
	require.NoError(t, s.BatchStarted(st, "/out"))
	for _, o := range outcomes {
		require.NoError(t, s.FileDone(id, o))
		st.Done++
		if o.Failed() {
			st.Errors++
		}
	}
	st.Status = status
	require.NoError(t, s.BatchFinished(st))
	return st
}

func TestStore_RoundTrip(t *testing.T) {
	s := testStore(t)
	outcomes := []types.FileOutcome{
		{Input: "/in/a.pptx", Output: "/out/a.pdf", Duration: 1500 * time.Millisecond},
		{Input: "/in/b.ppt", Error: "LibreOffice could not convert b.ppt: exit status 1", Duration: time.Second},
	}
	want := recordBatch(t, s, "0b6c1f9e-6a51-4a44-9f39-5d3b7e1c2a10", outcomes, types.BatchCompleted)

	b, files, err := s.Get(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, b.BatchState)
	assert.Equal(t, "/out", b.OutputDir)
	assert.False(t, b.StartedAt.IsZero())
	assert.True(t, b.FinishedAt.After(b.StartedAt))
	assert.Equal(t, outcomes, files)
}

func TestStore_GetByPrefix(t *testing.T) {
	s := testStore(t)
	recordBatch(t, s, "aa11-first", nil, types.BatchCompleted)
	recordBatch(t, s, "aa22-second", nil, types.BatchCancelled)

	b, _, err := s.Get(context.Background(), "aa2")
	require.NoError(t, err)
	assert.Equal(t, "aa22-second", b.ID)
	assert.Equal(t, types.BatchCancelled, b.Status)

	_, _, err = s.Get(context.Background(), "aa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, _, err = s.Get(context.Background(), "zz")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = s.Get(context.Background(), "a_")
	assert.True(t, errors.Is(err, ErrNotFound), "LIKE wildcards in the prefix are literal")
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := testStore(t)
	recordBatch(t, s, "one", nil, types.BatchCompleted)
	recordBatch(t, s, "two", nil, types.BatchCompleted)
	recordBatch(t, s, "three", nil, types.BatchCompleted)

	all, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_ListOrdersWithinOneSecond(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	starts := []struct {
		id     string
		offset time.Duration
	}{
		{"third", 125 * time.Millisecond},
		{"first", 0},
		{"second", 120 * time.Millisecond},
		{"fourth", 500 * time.Millisecond},
	}
	for _, st := range starts {
		at := base.Add(st.offset)
		s.now = func() time.Time { return at }
		require.NoError(t, s.BatchStarted(types.BatchState{ID: st.id, Status: types.BatchRunning}, "/out"))
	}

	batches, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	ids := make([]string, len(batches))
	for i, b := range batches {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, ids)
	assert.Equal(t, base.Add(500*time.Millisecond), batches[0].StartedAt)
	assert.Equal(t, base, batches[3].StartedAt)
}

func TestStore_FatalBatchWithoutStart(t *testing.T) {
	s := testStore(t)
	st := types.BatchState{ID: "fatal-1", Status: types.BatchFatal, Total: 4}
	require.NoError(t, s.BatchFinished(st))

	b, files, err := s.Get(context.Background(), "fatal-1")
	require.NoError(t, err)
	assert.Equal(t, types.BatchFatal, b.Status)
	assert.Equal(t, 4, b.Total)
	assert.Empty(t, files)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.BatchFinished(types.BatchState{ID: "keep", Status: types.BatchCompleted}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].ID)
}

func TestReport_YAML(t *testing.T) {
	c := NewCollector()
	st := types.BatchState{ID: "r1", Engine: "PowerPoint", Status: types.BatchRunning, Total: 2}
	require.NoError(t, c.BatchStarted(st, "/out"))
	require.NoError(t, c.FileDone("r1", types.FileOutcome{Input: "/in/a.pptx", Output: "/out/a.pdf"}))
	require.NoError(t, c.FileDone("r1", types.FileOutcome{Input: "/in/b.pptx", Error: "boom"}))
	st.Status, st.Done, st.Errors = types.BatchCompleted, 2, 1
	require.NoError(t, c.BatchFinished(st))

	var buf bytes.Buffer
	require.NoError(t, c.Report().WriteYAML(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	batch := decoded["batch"].(map[string]any)
	assert.Equal(t, "r1", batch["id"])
	assert.Equal(t, "completed", batch["status"])
	assert.Equal(t, "/out", batch["output_dir"])
	files := decoded["files"].([]any)
	require.Len(t, files, 2)
	assert.Equal(t, "boom", files[1].(map[string]any)["error"])
}

func TestReport_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	r := Report{Batch: Batch{BatchState: types.BatchState{ID: "x", Status: types.BatchCancelled}}}
	require.NoError(t, r.WriteFile(path))
	assert.FileExists(t, path)
}
