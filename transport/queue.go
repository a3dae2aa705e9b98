// Package transport implements the three-queue block transport: Free,
// Processing and Ready queues of block handles moving between the
// ADC-complete ISR, the foreground processing loop, and the timer-overflow
// ISR. Each queue is a single-producer single-consumer lock-free ring
// buffer from code.hybscloud.com/lfq, addressed by block.BlockID rather
// than by copying sample data.
package transport

import (
	"fmt"
	"sync/atomic"

	"code.hybscloud.com/lfq"

	"github.com/chriskillpack/mcu-audio-pipeline/block"
	"github.com/chriskillpack/mcu-audio-pipeline/dsp"
)

// Queue is a single-producer single-consumer FIFO of block.BlockID values.
// It wraps lfq.QueueIndirect and translates its ErrWouldBlock-or-nil
// contract into the boolean-ok idiom the pipeline's hot paths use, so an
// ISR-simulating goroutine never has to inspect an error value on its
// steady-state path.
type Queue struct {
	q lfq.QueueIndirect

	// lfq deliberately has no Len(): accurate counts in a lock-free queue
	// need cross-core synchronization the algorithm itself avoids. Track
	// occupancy ourselves, for host-side monitoring only, per the
	// package's own "track counts in application logic" guidance.
	len atomic.Int32
}

// NewQueue creates a queue with room for at least capacity block handles.
// Actual capacity is rounded up to the next power of two by lfq.
func NewQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("transport: queue capacity %d must be positive: %w", capacity, dsp.ErrInvalidArgument)
	}
	return &Queue{q: lfq.NewSPSCIndirect(capacity)}, nil
}

// Enqueue offers id to the queue. It reports false if the queue is full,
// in which case the caller retains ownership of id.
func (q *Queue) Enqueue(id block.BlockID) bool {
	ok := q.q.Enqueue(uintptr(id)) == nil
	if ok {
		q.len.Add(1)
	}
	return ok
}

// Dequeue removes and returns a block handle. It reports false if the
// queue is empty.
func (q *Queue) Dequeue() (block.BlockID, bool) {
	v, err := q.q.Dequeue()
	if err != nil {
		return 0, false
	}
	q.len.Add(-1)
	return block.BlockID(v), true
}

// Len reports the queue's approximate current occupancy. It is
// eventually consistent with the true count (the increment/decrement
// happens outside the lock-free queue's own synchronization) and is
// intended for monitoring, not control flow.
func (q *Queue) Len() int {
	return int(q.len.Load())
}

// Cap reports the queue's actual (power-of-two-rounded) capacity.
func (q *Queue) Cap() int {
	return q.q.Cap()
}
