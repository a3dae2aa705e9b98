// Package peripherals defines the external-collaborator interfaces the
// pipeline runs against: Timer, ADC, DAC and VectorMath. On the MCU
// these are hardware registers and vendor math routines; on this host they
// are satisfied by Simulated, PortAudio-backed or WAV-file-backed
// implementations so the pipeline core runs unmodified under test and in
// demos.
package peripherals

// Timer models a periodic hardware timer that fires an overflow interrupt
// at a configured rate.
type Timer interface {
	// Configure sets the timer's top (reload) value; overflow period is
	// proportional to topValue.
	Configure(topValue uint32)
	// Enable starts the timer counting. Before Enable, OnOverflow never
	// fires.
	Enable()
	// OnOverflow registers the callback invoked on every overflow. Only
	// one callback is supported, matching a single NVIC vector.
	OnOverflow(fn func())
	// ClearInterrupt acknowledges the pending overflow flag.
	ClearInterrupt()
}

// ADCReference selects the ADC's voltage reference source.
type ADCReference int

// ADC models a single-channel analog-to-digital converter run in
// single-conversion mode.
type ADC interface {
	// Configure selects the reference, acquisition time (in ADC clock
	// cycles) and input channel.
	Configure(reference ADCReference, acqTime uint32, channel uint32)
	// StartSingle begins one conversion. OnComplete fires when it
	// finishes.
	StartSingle()
	// ReadResult returns the most recently completed conversion's code.
	ReadResult() uint32
	// OnComplete registers the callback invoked when a conversion
	// finishes.
	OnComplete(fn func())
}

// DAC models a single-channel digital-to-analog converter.
type DAC interface {
	// Configure selects the output channel.
	Configure(channel uint32)
	// Write emits code, a value in [0, 2^resolution).
	Write(code uint32)
}

// VectorMath models the vendor math library's fill and sin primitives
// (CMSIS-DSP-style on real hardware).
type VectorMath interface {
	// Fill writes value into every element of dst.
	Fill(value float32, dst []float32)
	// Sin returns sin(x).
	Sin(x float32) float32
}

// Resolution is the DAC's code width in bits, fixed for a given backend.
type Resolution uint32

// MaxCode returns the largest representable code for a resolution-bit DAC.
func (r Resolution) MaxCode() uint32 {
	return (uint32(1) << uint32(r)) - 1
}

// SampleToCode converts a float sample in roughly [0, 1) to a saturating
// DAC code in [0, 2^resolution). The code is rounded to nearest so a
// CodeToSample round trip reproduces the original code; values outside
// range are clamped rather than wrapped.
func SampleToCode(sample float32, resolution Resolution) uint32 {
	maxCode := resolution.MaxCode()
	code := sample*float32(maxCode) + 0.5
	if code <= 0 {
		return 0
	}
	if code >= float32(maxCode) {
		return maxCode
	}
	return uint32(code)
}

// CodeToSample is SampleToCode's inverse: it maps an ADC code in
// [0, 2^resolution) back to a float sample in [0, 1], used by the
// producer ISR to turn an incoming conversion result into a pipeline
// sample.
func CodeToSample(code uint32, resolution Resolution) float32 {
	maxCode := resolution.MaxCode()
	if maxCode == 0 {
		return 0
	}
	return float32(code) / float32(maxCode)
}
