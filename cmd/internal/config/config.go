// Package config holds each variant's build-time configuration: buffer
// layout, clock rates and DSP parameters fixed at compile time, with no
// runtime reconfiguration.
package config

import (
	"github.com/chriskillpack/mcu-audio-pipeline/dsp"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/pipeline"
)

const fCPU = 40_000_000

// Variant is the set of build-time constants one binary runs with.
type Variant struct {
	NumBuffers int
	BufferSize int
	FS         uint32
	FCPU       uint32
	Resolution peripherals.Resolution
}

// Passthrough returns the raw-passthrough variant's constants. This
// variant has no block pool or queue transport at all, so only
// FS/FCPU/Resolution are meaningful; NumBuffers/BufferSize are left at
// their pipelined-variant defaults for documentation purposes only.
func Passthrough() Variant {
	return Variant{NumBuffers: 4, BufferSize: 256, FS: 40_000, FCPU: fCPU, Resolution: 12}
}

// PassthroughBuffered returns the buffered-passthrough variant's
// constants: NUM_BUFFERS=4, BUFFER_SIZE=256.
func PassthroughBuffered() Variant {
	return Variant{NumBuffers: 4, BufferSize: 256, FS: 40_000, FCPU: fCPU, Resolution: 12}
}

// FIRLowpassVariant is the FIR-lowpass variant's constants: the pipeline
// layout plus the filter design parameters.
type FIRLowpassVariant struct {
	Variant
	Fc    float32
	N     int
	NTaps int
}

// FIRLowpass returns the FIR-lowpass variant's constants: BUFFER_SIZE=512,
// fc=1000Hz, N=1024, nine filter taps.
func FIRLowpass() FIRLowpassVariant {
	return FIRLowpassVariant{
		Variant: Variant{NumBuffers: 4, BufferSize: 512, FS: 40_000, FCPU: fCPU, Resolution: 12},
		Fc:      1000,
		N:       1024,
		NTaps:   9,
	}
}

// BuildFIRCore designs the lowpass coefficients for v and returns the
// ready-to-use FIR filter, with its tap history zeroed.
func (v FIRLowpassVariant) BuildFIRCore(vm dsp.VectorMath) (*dsp.FIRFilter, error) {
	h := make([]float32, v.NTaps)
	if err := dsp.CalculateLPFCoefficients(vm, v.Fc, float32(v.FS), v.N, v.NTaps, h); err != nil {
		return nil, err
	}
	return dsp.NewFIRFilter(h)
}

// Schroeder returns the Schroeder-reverberator variant's constants:
// BUFFER_SIZE=2048, fs=30kHz.
func Schroeder() Variant {
	return Variant{NumBuffers: 4, BufferSize: 2048, FS: 30_000, FCPU: fCPU, Resolution: 12}
}

// BuildSchroederCore builds the canonical Schroeder reverberator with all
// delay lines zeroed.
func BuildSchroederCore() (*dsp.SchroederReverb, error) {
	return dsp.NewSchroederReverb(dsp.CanonicalSchroederConfig())
}

// firCoreAdapter and schroederCoreAdapter satisfy pipeline.DSPCore by
// wrapping the block-oriented Filter/Process methods. firCoreAdapter runs
// FIRFilter.Filter in place over the block; callers obtain either adapter
// through NewFIRCore / NewSchroederCore.
type firCoreAdapter struct{ f *dsp.FIRFilter }

func (a firCoreAdapter) Process(samples []float32) error {
	return a.f.Filter(samples, samples)
}

// NewFIRCore wraps f as a pipeline.DSPCore.
func NewFIRCore(f *dsp.FIRFilter) pipeline.DSPCore { return firCoreAdapter{f} }

type schroederCoreAdapter struct{ r *dsp.SchroederReverb }

func (a schroederCoreAdapter) Process(samples []float32) error {
	return a.r.Process(samples)
}

// NewSchroederCore wraps r as a pipeline.DSPCore.
func NewSchroederCore(r *dsp.SchroederReverb) pipeline.DSPCore { return schroederCoreAdapter{r} }
