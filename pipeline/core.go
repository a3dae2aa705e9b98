// Package pipeline wires the block pool, transport queues and peripheral
// ISRs together into the producer/processor/consumer pipeline: an
// ADC-complete interrupt that fills blocks, a foreground loop that runs
// the configured DSP over a full block, and a timer-overflow interrupt
// that drains filled blocks to the DAC while also driving the next ADC
// conversion.
package pipeline

// DSPCore is the configured per-variant signal processing stage: identity
// (buffered passthrough), FIR lowpass, or Schroeder reverberator. It
// runs once per full block, in place, inside the foreground Processor,
// never inside an ISR.
type DSPCore interface {
	Process(samples []float32) error
}

// IdentityCore is the DSPCore for the buffered-passthrough variant: blocks
// pass through unchanged, with no filtering at all.
type IdentityCore struct{}

func (IdentityCore) Process(samples []float32) error { return nil }
