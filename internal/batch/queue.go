// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"sync"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// EventKind distinguishes the events a worker emits.
type EventKind int

const (
	// EventLog carries one human-readable log line in Message.
	EventLog EventKind = iota
	// EventProgress carries Done and Total after each task.
	EventProgress
	// EventFinished carries the terminal State. It is always the last event.
	EventFinished
)

// Event is one message from the worker to a presenter.
type Event struct {
	Kind    EventKind
	Message string
	Done    int
	Total   int
	State   types.BatchState
}

// Queue is an unbounded FIFO of events with one producer (the worker) and
// one consumer (a presenter). Push never blocks, so a slow or paused
// presenter cannot stall a conversion.
type Queue struct {
	mu     sync.Mutex
	events []Event
	ready  chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends e and signals Ready.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns all queued events in order. It returns nil
// when the queue is empty.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Ready is signalled after Push. A consumer may wait on it instead of
// polling; one signal can stand for several events, so always Drain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of undrained events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
