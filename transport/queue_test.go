package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chriskillpack/mcu-audio-pipeline/block"
)

func TestQueueEnqueueDequeueOrder(t *testing.T) {
	q, err := NewQueue(4)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []block.BlockID{0, 1, 2} {
		if !q.Enqueue(id) {
			t.Fatalf("Enqueue(%v) reported full", id)
		}
	}

	for _, want := range []block.BlockID{0, 1, 2} {
		got, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() reported empty, want %v", want)
		}
		if got != want {
			t.Errorf("Dequeue() = %v, want %v", got, want)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue reported ok")
	}
}

func TestQueueFullReportsNotOk(t *testing.T) {
	q, err := NewQueue(2)
	if err != nil {
		t.Fatal(err)
	}

	filled := 0
	for i := 0; i < 10; i++ {
		if q.Enqueue(block.BlockID(i)) {
			filled++
		} else {
			break
		}
	}
	if filled != q.Cap() {
		t.Errorf("filled %d slots before reporting full, want Cap()=%d", filled, q.Cap())
	}
	if q.Enqueue(block.BlockID(99)) {
		t.Error("Enqueue on full queue reported ok")
	}
}

func TestNewQueueRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := NewQueue(0); err == nil {
		t.Error("expected an error for capacity 0")
	}
	if _, err := NewQueue(-1); err == nil {
		t.Error("expected an error for negative capacity")
	}
}

func TestNewSharedAudioStatePreloadsFreeQueue(t *testing.T) {
	s, err := NewSharedAudioState(3, 64)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[block.BlockID]bool)
	for i := 0; i < 3; i++ {
		id, ok := s.Free.Dequeue()
		if !ok {
			t.Fatalf("Free queue exhausted after %d dequeues, want 3", i)
		}
		seen[id] = true
	}
	if len(seen) != 3 {
		t.Errorf("free queue held %d distinct blocks, want 3", len(seen))
	}

	if _, ok := s.Processing.Dequeue(); ok {
		t.Error("Processing queue should start empty")
	}
	if _, ok := s.Ready.Dequeue(); ok {
		t.Error("Ready queue should start empty")
	}
}

// TestQueueLenTracksOccupancy covers the host-side occupancy counter used
// by cmd/monitor; lfq itself deliberately exposes no length.
func TestQueueLenTracksOccupancy(t *testing.T) {
	q, err := NewQueue(4)
	require.NoError(t, err)
	require.Equal(t, 0, q.Len())

	require.True(t, q.Enqueue(0))
	require.True(t, q.Enqueue(1))
	require.Equal(t, 2, q.Len())

	_, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, 1, q.Len())

	_, ok = q.Dequeue()
	require.True(t, ok)
	require.Equal(t, 0, q.Len())

	_, ok = q.Dequeue()
	require.False(t, ok)
	require.Equal(t, 0, q.Len(), "a failed dequeue must not decrement Len")
}
