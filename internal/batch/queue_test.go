// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Drain())

	q.Push(Event{Kind: EventLog, Message: "one"})
	q.Push(Event{Kind: EventProgress, Done: 1, Total: 2})
	q.Push(Event{Kind: EventLog, Message: "two"})
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, 1, got[1].Done)
	assert.Equal(t, "two", got[2].Message)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Drain())
}

func TestQueue_PushNeverBlocks(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			q.Push(Event{Kind: EventLog})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Push blocked without a consumer")
	}
	assert.Len(t, q.Drain(), 10000)
}

func TestQueue_ReadySignal(t *testing.T) {
	q := NewQueue()
	select {
	case <-q.Ready():
		t.Fatal("ready before any push")
	default:
	}

	q.Push(Event{Message: "a"})
	q.Push(Event{Message: "b"})

	select {
	case <-q.Ready():
	case <-time.After(time.Second):
		t.Fatal("no ready signal")
	}
	assert.Len(t, q.Drain(), 2, "one signal can cover several events")
}

func TestQueue_ConcurrentProducerConsumer(t *testing.T) {
	const n = 2000
	q := NewQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(Event{Kind: EventProgress, Done: i})
		}
	}()

	var got []Event
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case <-q.Ready():
			got = append(got, q.Drain()...)
		case <-deadline:
			t.Fatalf("received %d of %d events", len(got), n)
		}
	}
	wg.Wait()

	for i, e := range got {
		assert.Equal(t, i, e.Done)
	}
}
