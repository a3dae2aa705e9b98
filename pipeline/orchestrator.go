package pipeline

import (
	"fmt"

	"github.com/chriskillpack/mcu-audio-pipeline/dsp"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/transport"
)

// Config is the build-time configuration for one pipeline variant: buffer
// layout, clock rates, DAC code width, the peripheral backend and the DSP
// core to run.
type Config struct {
	NumBuffers int
	BufferSize int
	FS         uint32
	FCPU       uint32
	Resolution peripherals.Resolution

	ADCReference peripherals.ADCReference
	ADCAcqTime   uint32
	ADCChannel   uint32
	DACChannel   uint32

	Timer peripherals.Timer
	ADC   peripherals.ADC
	DAC   peripherals.DAC
	Core  DSPCore
}

// Orchestrator stands the pipeline up: it performs peripheral init, block
// pool init, starts the sampling clock and runs the foreground processor
// loop. On any init failure it returns an error without ever enabling the
// clock.
type Orchestrator struct {
	cfg       Config
	state     *transport.SharedAudioState
	producer  *Producer
	consumer  *Consumer
	processor *Processor
}

// NewOrchestrator validates cfg and allocates the block pool and
// transport queues, with the free queue preloaded. DSP state init is the
// caller's responsibility: cfg.Core must already carry zeroed delay lines
// / designed coefficients by the time it is passed in.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Core == nil {
		return nil, fmt.Errorf("pipeline: orchestrator requires a DSP core: %w", dsp.ErrInvalidArgument)
	}
	if cfg.Timer == nil || cfg.ADC == nil || cfg.DAC == nil {
		return nil, fmt.Errorf("pipeline: orchestrator requires timer, adc and dac peripherals: %w", dsp.ErrInvalidArgument)
	}

	state, err := transport.NewSharedAudioState(cfg.NumBuffers, cfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("pipeline: block pool init failed: %w", err)
	}

	return &Orchestrator{
		cfg:       cfg,
		state:     state,
		producer:  NewProducer(state, cfg.Resolution),
		consumer:  NewConsumer(state, cfg.ADC, cfg.DAC, cfg.Resolution),
		processor: NewProcessor(state, cfg.Core),
	}, nil
}

// Run performs peripheral init, starts the sampling clock, then runs the
// processor loop until Stop is called (the host's only concession to a
// system that otherwise runs until power-off: tests need a way to end the
// loop that real hardware never does).
func (o *Orchestrator) Run() error {
	o.cfg.ADC.Configure(o.cfg.ADCReference, o.cfg.ADCAcqTime, o.cfg.ADCChannel)
	o.cfg.DAC.Configure(o.cfg.DACChannel)

	o.cfg.ADC.OnComplete(func() {
		o.producer.OnADCComplete(o.cfg.ADC.ReadResult())
	})
	o.cfg.Timer.OnOverflow(func() {
		o.consumer.OnTimerOverflow()
		o.cfg.Timer.ClearInterrupt()
	})

	topValue := SamplingClock{FCPU: o.cfg.FCPU, FS: o.cfg.FS}.TopValue()
	o.cfg.Timer.Configure(topValue)

	o.cfg.Timer.Enable()

	return o.processor.Run()
}

// Stop ends the foreground processor loop. The sampling clock itself is
// not stopped: real hardware has no shutdown path, and backends that need
// to tear down a stream do so via their own Close method.
func (o *Orchestrator) Stop() {
	o.processor.Stop()
}

// State exposes the shared pool/queue state, mainly for host-side
// monitoring (queue occupancy, drop counts) and tests.
func (o *Orchestrator) State() *transport.SharedAudioState {
	return o.state
}

// Drops reports samples discarded by the producer for lack of a free
// block, and Underruns reports timer overflows the consumer served by
// holding the last DAC code for lack of a ready block. Both are
// host-side monitoring counters; they have no effect on pipeline
// behavior.
func (o *Orchestrator) Drops() uint64 {
	return o.producer.Drops()
}

func (o *Orchestrator) Underruns() uint64 {
	return o.consumer.Underruns()
}
