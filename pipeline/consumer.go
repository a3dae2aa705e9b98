package pipeline

import (
	"sync/atomic"

	"github.com/chriskillpack/mcu-audio-pipeline/block"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/transport"
)

// Consumer is the timer-overflow ISR body. Every call both starts the
// next ADC conversion and emits one sample to the DAC, so the sampling
// clock drives both ends of the pipeline from a single periodic event.
type Consumer struct {
	state      *transport.SharedAudioState
	adc        peripherals.ADC
	dac        peripherals.DAC
	resolution peripherals.Resolution

	current   *block.Block
	readIndex int
	lastCode  uint32

	underruns atomic.Uint64
}

// NewConsumer creates a consumer with no block currently held.
func NewConsumer(state *transport.SharedAudioState, adc peripherals.ADC, dac peripherals.DAC, resolution peripherals.Resolution) *Consumer {
	return &Consumer{state: state, adc: adc, dac: dac, resolution: resolution}
}

// OnTimerOverflow is registered as the timer's overflow callback.
func (c *Consumer) OnTimerOverflow() {
	c.adc.StartSingle()

	if c.current == nil {
		id, ok := c.state.Ready.Dequeue()
		if !ok {
			// No block ready: hold the last DAC value.
			c.underruns.Add(1)
			c.dac.Write(c.lastCode)
			return
		}
		c.current = c.state.Pool.Block(id)
		c.readIndex = 0
	}

	code := peripherals.SampleToCode(c.current.Samples[c.readIndex], c.resolution)
	c.dac.Write(code)
	c.lastCode = code
	c.readIndex++

	if c.readIndex == len(c.current.Samples) {
		c.state.Free.Enqueue(c.current.ID)
		c.current = nil
	}
}

// Underruns reports how many timer overflows found no ready block and
// held the last DAC code instead.
func (c *Consumer) Underruns() uint64 {
	return c.underruns.Load()
}
