// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs a list of presentations through one conversion engine
// on a background goroutine and streams log and progress events to a
// presenter through a Queue.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/ppt2pdf/internal/engine"
	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// ErrWorkerUsed is returned when Start is called on a worker that has
// already run. A new batch needs a new worker.
var ErrWorkerUsed = errors.New("worker already started")

// Picker selects the engine for a batch. It runs on the worker goroutine.
type Picker func() (engine.Engine, error)

// Recorder receives batch lifecycle notifications, e.g. to journal them.
// Errors are logged and never affect the batch.
type Recorder interface {
	BatchStarted(state types.BatchState, outputDir string) error
	FileDone(batchID string, outcome types.FileOutcome) error
	BatchFinished(state types.BatchState) error
}

// Config describes one batch.
type Config struct {
	// Tasks are absolute input paths, already deduplicated and sorted.
	Tasks     []string
	OutputDir string
	Pick      Picker
	Queue     *Queue

	// Progress, if set, is called on the worker goroutine after each task.
	// Implementations that touch UI state must hand off to the UI thread.
	Progress func(done, total int)

	// Recorder is optional.
	Recorder Recorder
}

// Worker converts a fixed task list once: idle, running, then one of
// completed, cancelled or fatal.
type Worker struct {
	cfg Config

	mu      sync.Mutex
	state   types.BatchState
	started bool
	done    chan struct{}
}

// NewWorker returns an idle worker for cfg.
func NewWorker(cfg Config) *Worker {
	if cfg.Queue == nil {
		cfg.Queue = NewQueue()
	}
	return &Worker{
		cfg: cfg,
		state: types.BatchState{
			ID:     uuid.NewString(),
			Status: types.BatchIdle,
			Total:  len(cfg.Tasks),
		},
		done: make(chan struct{}),
	}
}

// ID returns the batch identifier.
func (w *Worker) ID() string { return w.state.ID }

// Queue returns the event queue the worker writes to.
func (w *Worker) Queue() *Queue { return w.cfg.Queue }

// Start runs the batch on a new goroutine and returns immediately.
// Cancelling ctx stops the batch before the next file; a conversion in
// progress always finishes first.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrWorkerUsed
	}
	w.started = true
	w.state.Status = types.BatchRunning
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Run starts the batch and waits for it to finish.
func (w *Worker) Run(ctx context.Context) (types.BatchState, error) {
	if err := w.Start(ctx); err != nil {
		return w.State(), err
	}
	return w.Wait(), nil
}

// Wait blocks until the batch reaches a terminal state.
func (w *Worker) Wait() types.BatchState {
	<-w.done
	return w.State()
}

// Done is closed when the batch reaches a terminal state.
func (w *Worker) Done() <-chan struct{} { return w.done }

// State returns a snapshot of the batch counters.
func (w *Worker) State() types.BatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Running reports whether the batch has started and not yet finished.
func (w *Worker) Running() bool {
	return w.State().Status == types.BatchRunning
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("batch worker panicked", "batch", w.ID(), "panic", r)
			w.logf("Fatal error: %v", r)
			w.finish(types.BatchFatal)
		}
	}()

	eng, err := w.cfg.Pick()
	if err != nil {
		w.logf("Fatal error: %v", err)
		w.finish(types.BatchFatal)
		return
	}
	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		w.logf("Fatal error: creating output directory: %v", err)
		w.finish(types.BatchFatal)
		return
	}

	w.mu.Lock()
	w.state.Engine = eng.Name()
	w.mu.Unlock()
	w.logf("Using engine: %s", eng.Name())
	w.record(func(r Recorder) error { return r.BatchStarted(w.State(), w.cfg.OutputDir) })

	for _, src := range w.cfg.Tasks {
		if ctx.Err() != nil {
			w.log("Conversion cancelled by user.")
			w.finish(types.BatchCancelled)
			return
		}
		w.convert(eng, src)
	}

	st := w.State()
	if st.Errors == 0 {
		w.log("All files converted successfully.")
	} else {
		w.logf("Completed with %d error(s). Check logs above.", st.Errors)
	}
	w.finish(types.BatchCompleted)
}

// convert handles one task. Engine errors are counted and logged here and
// never end the batch.
func (w *Worker) convert(eng engine.Engine, src string) {
	w.logf("Converting: %s", src)

	start := time.Now()
	pdf, err := eng.Convert(src, w.cfg.OutputDir)
	outcome := types.FileOutcome{Input: src, Output: pdf, Duration: time.Since(start)}

	w.mu.Lock()
	if err != nil {
		w.state.Errors++
		outcome.Output = ""
		outcome.Error = err.Error()
	}
	w.state.Done++
	done, total := w.state.Done, w.state.Total
	w.mu.Unlock()

	if err != nil {
		w.logf("Failed: %s\n    %v", src, err)
	} else {
		w.logf("Done: %s", pdf)
	}
	w.record(func(r Recorder) error { return r.FileDone(w.ID(), outcome) })

	w.cfg.Queue.Push(Event{Kind: EventProgress, Done: done, Total: total})
	if w.cfg.Progress != nil {
		w.cfg.Progress(done, total)
	}
}

func (w *Worker) finish(status types.BatchStatus) {
	w.mu.Lock()
	w.state.Status = status
	st := w.state
	w.mu.Unlock()

	w.record(func(r Recorder) error { return r.BatchFinished(st) })
	w.cfg.Queue.Push(Event{Kind: EventFinished, State: st})
}

func (w *Worker) record(fn func(Recorder) error) {
	if w.cfg.Recorder == nil {
		return
	}
	if err := fn(w.cfg.Recorder); err != nil {
		slog.Warn("recording batch history failed", "batch", w.ID(), "error", err)
	}
}

func (w *Worker) log(msg string) {
	w.cfg.Queue.Push(Event{Kind: EventLog, Message: msg})
}

func (w *Worker) logf(format string, args ...any) {
	w.log(fmt.Sprintf(format, args...))
}
