package peripherals

import (
	"math"
	"sync"
	"time"
)

// SimulatedTimer drives its overflow callback from a time.Ticker at a rate
// derived from Configure's top value and the supplied CPU frequency,
// standing in for the hardware timer/NVIC pair on the host.
type SimulatedTimer struct {
	fCPU     uint32
	mu       sync.Mutex
	topValue uint32
	cb       func()
	ticker   *time.Ticker
	stop     chan struct{}
}

// NewSimulatedTimer creates a timer whose overflow rate is f_cpu/top_value,
// the same relationship the hardware timer's reload register gives.
func NewSimulatedTimer(fCPU uint32) *SimulatedTimer {
	return &SimulatedTimer{fCPU: fCPU}
}

func (t *SimulatedTimer) Configure(topValue uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.topValue = topValue
}

func (t *SimulatedTimer) Enable() {
	t.mu.Lock()
	top := t.topValue
	cb := t.cb
	t.mu.Unlock()
	if top == 0 || cb == nil {
		return
	}

	period := time.Duration(float64(top) / float64(t.fCPU) * float64(time.Second))
	if period <= 0 {
		period = time.Nanosecond
	}

	t.ticker = time.NewTicker(period)
	t.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-t.ticker.C:
				cb()
			case <-t.stop:
				return
			}
		}
	}()
}

func (t *SimulatedTimer) OnOverflow(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = fn
}

func (t *SimulatedTimer) ClearInterrupt() {}

// Stop halts the simulated overflow goroutine. Not part of the Timer
// interface; real hardware has no equivalent because it runs until
// power-off.
func (t *SimulatedTimer) Stop() {
	if t.stop != nil {
		close(t.stop)
	}
	if t.ticker != nil {
		t.ticker.Stop()
	}
}

// SimulatedADC reads conversion values from a Source function, simulating
// an analog input by sampling whatever signal the caller wires in.
type SimulatedADC struct {
	Source func() uint32

	mu     sync.Mutex
	cb     func()
	result uint32
}

// NewSimulatedADC creates an ADC whose StartSingle synchronously samples
// source and invokes the completion callback, standing in for the
// hardware conversion latency.
func NewSimulatedADC(source func() uint32) *SimulatedADC {
	return &SimulatedADC{Source: source}
}

func (a *SimulatedADC) Configure(reference ADCReference, acqTime uint32, channel uint32) {}

func (a *SimulatedADC) StartSingle() {
	a.mu.Lock()
	if a.Source != nil {
		a.result = a.Source()
	}
	cb := a.cb
	a.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (a *SimulatedADC) ReadResult() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

func (a *SimulatedADC) OnComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cb = fn
}

// SimulatedDAC records every written code via a Sink function and keeps
// the last code written, for the consumer ISR's hold-on-underrun policy
// and for host-side assertions.
type SimulatedDAC struct {
	Sink func(code uint32)

	mu       sync.Mutex
	lastCode uint32
}

// NewSimulatedDAC creates a DAC that forwards every write to sink, if
// non-nil, in addition to tracking the last code written.
func NewSimulatedDAC(sink func(code uint32)) *SimulatedDAC {
	return &SimulatedDAC{Sink: sink}
}

func (d *SimulatedDAC) Configure(channel uint32) {}

func (d *SimulatedDAC) Write(code uint32) {
	d.mu.Lock()
	d.lastCode = code
	sink := d.Sink
	d.mu.Unlock()
	if sink != nil {
		sink(code)
	}
}

// LastCode returns the most recently written code, observability the real
// DAC register doesn't offer but host tests need.
func (d *SimulatedDAC) LastCode() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCode
}

// SimulatedVectorMath implements VectorMath with the standard library,
// without importing dsp, to keep peripherals free of a dependency on the
// DSP package.
type SimulatedVectorMath struct{}

func (SimulatedVectorMath) Fill(value float32, dst []float32) {
	for i := range dst {
		dst[i] = value
	}
}

func (SimulatedVectorMath) Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}
