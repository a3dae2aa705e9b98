// Package dsp implements the block-based digital signal processing
// primitives that plug into the audio pipeline: delay lines, the three
// comb filter variants, the FIR lowpass filter and its coefficient
// designer, and the Schroeder reverberator built out of them.
package dsp

import "errors"

// Sentinel error kinds. Call sites wrap these with fmt.Errorf("...: %w", ...)
// to add context, in the sentinel-plus-wrap style.
var (
	// ErrInvalidArgument is returned when a constructor or the coefficient
	// designer is given parameters that can never produce a valid result
	// (even tap count, zero sample rate, zero window size, missing output).
	ErrInvalidArgument = errors.New("dsp: invalid argument")

	// ErrAllocationFailure is the error kind for a DSP object that cannot
	// be constructed for lack of memory. No function in this module
	// returns it: Go allocations do not report failure to the caller.
	ErrAllocationFailure = errors.New("dsp: allocation failure")

	// ErrInvalidState signals a programming error that must not occur
	// under correct construction, such as a delay line cursor found
	// outside [0, M). Treat it as a fatal assertion, not a recoverable
	// condition.
	ErrInvalidState = errors.New("dsp: invalid state")
)
