package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/chriskillpack/mcu-audio-pipeline/transport"
)

// Processor is the foreground loop, the only non-ISR actor in the
// pipeline: it drains filled blocks from the processing queue, runs the
// configured DSP core over each one in place, and hands the result to the
// ready queue.
type Processor struct {
	state *transport.SharedAudioState
	core  DSPCore

	stopOnce sync.Once
	stop     chan struct{}
}

// NewProcessor creates a processor bound to core, which must not be nil.
func NewProcessor(state *transport.SharedAudioState, core DSPCore) *Processor {
	return &Processor{state: state, core: core, stop: make(chan struct{})}
}

// Run spins, processing blocks as they arrive, until Stop is called. It
// yields to other goroutines with runtime.Gosched when the processing queue is
// empty rather than busy-waiting at full CPU, since unlike the ISRs this
// loop has no hardware-enforced timing of its own.
func (p *Processor) Run() error {
	for {
		select {
		case <-p.stop:
			return nil
		default:
		}

		processed, err := p.Step()
		if err != nil {
			return err
		}
		if !processed {
			runtime.Gosched()
		}
	}
}

// Step drains and processes at most one block. It reports whether a block
// was available to process, so tests can drive the pipeline
// deterministically without Run's internal scheduling loop.
func (p *Processor) Step() (bool, error) {
	id, ok := p.state.Processing.Dequeue()
	if !ok {
		return false, nil
	}

	b := p.state.Pool.Block(id)
	if err := p.core.Process(b.Samples); err != nil {
		return false, fmt.Errorf("pipeline: dsp core failed on block %d: %w", id, err)
	}

	p.state.Ready.Enqueue(id)
	return true, nil
}

// Stop ends the next iteration of Run's loop.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}
