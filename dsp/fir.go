package dsp

import (
	"fmt"
	"math"
)

// VectorMath is the pluggable vector-math external collaborator (a
// CMSIS-DSP-style arm_sin_f32/arm_fill_f32 pair on real hardware). A
// software implementation is provided by DefaultVectorMath; a peripherals
// package implementation can substitute a hardware-accelerated one without
// dsp needing to know the difference.
type VectorMath interface {
	Sin(x float32) float32
	Fill(value float32, dst []float32)
}

// DefaultVectorMath implements VectorMath with the standard library.
type DefaultVectorMath struct{}

func (DefaultVectorMath) Sin(x float32) float32 { return float32(math.Sin(float64(x))) }

func (DefaultVectorMath) Fill(value float32, dst []float32) {
	for i := range dst {
		dst[i] = value
	}
}

// CalculateLPFCoefficients produces a windowed-sinc lowpass filter of nTaps
// coefficients for cutoff fc at sample rate fs, using window parameter N.
// The coefficient vector is symmetric around the center tap.
//
// nTaps must be odd; fs and N must be non-zero. h must have length nTaps.
func CalculateLPFCoefficients(vm VectorMath, fc, fs float32, n int, nTaps int, h []float32) error {
	if vm == nil {
		vm = DefaultVectorMath{}
	}
	if h == nil {
		return fmt.Errorf("calculate LPF coefficients: missing output buffer: %w", ErrInvalidArgument)
	}
	if fs == 0 {
		return fmt.Errorf("calculate LPF coefficients: fs == 0: %w", ErrInvalidArgument)
	}
	if n == 0 {
		return fmt.Errorf("calculate LPF coefficients: N == 0: %w", ErrInvalidArgument)
	}
	if nTaps%2 == 0 {
		return fmt.Errorf("calculate LPF coefficients: nTaps %d is even: %w", nTaps, ErrInvalidArgument)
	}
	if len(h) != nTaps {
		return fmt.Errorf("calculate LPF coefficients: output buffer length %d != nTaps %d: %w", len(h), nTaps, ErrInvalidArgument)
	}

	nf := float32(n)
	passBandWidth := 2*(nf*fc/fs) + 1

	m := (nTaps - 1) / 2
	h[m] = passBandWidth / nf

	for i := 1; i <= m; i++ {
		numerator := vm.Sin(float32(math.Pi) * float32(i) * passBandWidth / nf)
		denominator := vm.Sin(float32(math.Pi) * float32(i) / nf)
		h[m+i] = (1 / nf) * (numerator / denominator)
		h[m-i] = h[m+i]
	}

	return nil
}

// FIRFilter is a fixed-tap-count FIR filter that owns its tap-history
// state, so the pipeline can hold one independent instance per effect.
type FIRFilter struct {
	h []float32
	v []float32 // tap history, v[0] is the newest sample
}

// NewFIRFilter builds an FIR filter from a coefficient vector h. The
// coefficient slice is copied; the filter owns its own history buffer.
func NewFIRFilter(h []float32) (*FIRFilter, error) {
	hc := make([]float32, len(h))
	copy(hc, h)
	return &FIRFilter{h: hc, v: make([]float32, len(h))}, nil
}

// Coefficients returns the filter's tap coefficients.
func (f *FIRFilter) Coefficients() []float32 {
	return f.h
}

// Filter runs the filter over a block of input samples, writing B output
// samples into y (which may alias x). Filter state (the tap history v)
// persists across calls.
func (f *FIRFilter) Filter(x []float32, y []float32) error {
	if len(y) < len(x) {
		return fmt.Errorf("fir filter: output shorter than input: %w", ErrInvalidArgument)
	}
	k := len(f.h)
	if k == 0 {
		for i := range x {
			y[i] = 0
		}
		return nil
	}

	for i, xi := range x {
		for j := k - 1; j > 0; j-- {
			f.v[j] = f.v[j-1]
		}
		f.v[0] = xi

		var out float32
		for j := 0; j < k; j++ {
			out += f.h[j] * f.v[j]
		}
		y[i] = out
	}

	return nil
}
