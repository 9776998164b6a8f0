// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when a batch is started while another is running.
var ErrBusy = errors.New("conversion is already running")

// Runner owns at most one running batch at a time. Batches share the
// output directory, so a second one is refused until the first ends.
type Runner struct {
	mu      sync.Mutex
	current *Worker
	cancel  context.CancelFunc
}

// Start creates a worker for cfg and starts it, or returns ErrBusy.
func (r *Runner) Start(ctx context.Context, cfg Config) (*Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Running() {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	w := NewWorker(cfg)
	if err := w.Start(ctx); err != nil {
		cancel()
		return nil, err
	}
	r.current, r.cancel = w, cancel

	go func() {
		<-w.Done()
		cancel()
	}()
	return w, nil
}

// Busy reports whether a batch is running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil && r.current.Running()
}

// Cancel requests cooperative cancellation of the running batch. It
// reports whether there was one to cancel.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || !r.current.Running() {
		return false
	}
	r.cancel()
	return true
}
