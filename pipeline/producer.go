package pipeline

import (
	"sync/atomic"

	"github.com/chriskillpack/mcu-audio-pipeline/block"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/transport"
)

// Producer is the ADC-complete ISR body: it owns at most one block at a
// time, writing one converted sample into it per call, and hands the
// block to the processing queue once full.
type Producer struct {
	state      *transport.SharedAudioState
	resolution peripherals.Resolution

	current    *block.Block
	writeIndex int

	drops atomic.Uint64
}

// NewProducer creates a producer with no block currently held; its first
// call to OnADCComplete acquires one from the free queue.
func NewProducer(state *transport.SharedAudioState, resolution peripherals.Resolution) *Producer {
	return &Producer{state: state, resolution: resolution}
}

// OnADCComplete consumes one ADC conversion result. If the producer holds
// no block and the free queue is empty, the sample is dropped: no sample
// written, no index advance. No backpressure is possible at this layer.
func (p *Producer) OnADCComplete(code uint32) {
	if p.current == nil {
		id, ok := p.state.Free.Dequeue()
		if !ok {
			p.drops.Add(1)
			return
		}
		p.current = p.state.Pool.Block(id)
		p.writeIndex = 0
	}

	p.current.Samples[p.writeIndex] = peripherals.CodeToSample(code, p.resolution)
	p.writeIndex++

	if p.writeIndex == len(p.current.Samples) {
		p.state.Processing.Enqueue(p.current.ID)
		p.current = nil
	}
}

// Drops reports how many ADC conversions were discarded because no free
// block was available to receive them.
func (p *Producer) Drops() uint64 {
	return p.drops.Load()
}
