package transport

import (
	"fmt"

	"github.com/chriskillpack/mcu-audio-pipeline/block"
	"github.com/chriskillpack/mcu-audio-pipeline/dsp"
)

// SharedAudioState is the full set of shared state the ADC-complete ISR,
// the foreground Processor and the timer-overflow ISR coordinate through:
// a block.Pool and the three queues of block handles that move ownership
// of each block around the pipeline. Exactly one of Free/Processing/Ready
// (or an ISR-local "currently filling"/"currently playing" slot) holds a
// given BlockID at any instant.
type SharedAudioState struct {
	Pool       *block.Pool
	Free       *Queue
	Processing *Queue
	Ready      *Queue
}

// NewSharedAudioState builds the pool and all three queues sized to hold
// every block the pool owns, and preloads Free with every BlockID in index
// order, ready for the orchestrator to start the pipeline.
func NewSharedAudioState(numBuffers, bufferSize int) (*SharedAudioState, error) {
	pool, err := block.NewPool(numBuffers, bufferSize)
	if err != nil {
		return nil, err
	}

	free, err := NewQueue(numBuffers)
	if err != nil {
		return nil, err
	}
	processing, err := NewQueue(numBuffers)
	if err != nil {
		return nil, err
	}
	ready, err := NewQueue(numBuffers)
	if err != nil {
		return nil, err
	}

	for _, id := range pool.IDs() {
		if !free.Enqueue(id) {
			return nil, fmt.Errorf("transport: free queue rejected block %d during init: %w", id, dsp.ErrInvalidState)
		}
	}

	return &SharedAudioState{
		Pool:       pool,
		Free:       free,
		Processing: processing,
		Ready:      ready,
	}, nil
}
