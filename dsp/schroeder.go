package dsp

import "fmt"

// SchroederReverb is the classical Schroeder reverberator topology: an
// ordered chain of allpass filters feeding a parallel bank of feedback comb
// filters whose outputs are summed.
type SchroederReverb struct {
	allpass []*APCF
	combs   []*FBCF
}

// SchroederConfig describes one instance of the reverberator: parallel
// slices of allpass delay lengths/gain and feedback-comb delay
// lengths/gains. The two slices may have different lengths.
type SchroederConfig struct {
	APLengths []int
	APGain    float32
	FBLengths []int
	FBGains   []float32
}

// CanonicalSchroederConfig returns the canonical instance: APCF delay
// lengths {347, 113, 37} at gain magnitude 0.7, FBCF delay lengths
// {1687, 1601, 2053, 2251} at gains {0.773, 0.802, 0.753, 0.733}.
func CanonicalSchroederConfig() SchroederConfig {
	return SchroederConfig{
		APLengths: []int{347, 113, 37},
		APGain:    0.7,
		FBLengths: []int{1687, 1601, 2053, 2251},
		FBGains:   []float32{0.773, 0.802, 0.753, 0.733},
	}
}

// NewSchroederReverb builds a reverberator from cfg. If FBGains has fewer
// entries than FBLengths it is an error; extra gains are ignored.
func NewSchroederReverb(cfg SchroederConfig) (*SchroederReverb, error) {
	if len(cfg.FBGains) < len(cfg.FBLengths) {
		return nil, fmt.Errorf("schroeder reverb: %d FBCF lengths but only %d gains: %w",
			len(cfg.FBLengths), len(cfg.FBGains), ErrInvalidArgument)
	}

	r := &SchroederReverb{
		allpass: make([]*APCF, len(cfg.APLengths)),
		combs:   make([]*FBCF, len(cfg.FBLengths)),
	}

	for i, m := range cfg.APLengths {
		ap, err := NewAPCF(m, cfg.APGain)
		if err != nil {
			return nil, fmt.Errorf("schroeder reverb: allpass %d: %w", i, err)
		}
		r.allpass[i] = ap
	}

	for i, m := range cfg.FBLengths {
		fb, err := NewFBCFFixed(m, cfg.FBGains[i])
		if err != nil {
			return nil, fmt.Errorf("schroeder reverb: fbcf %d: %w", i, err)
		}
		r.combs[i] = fb
	}

	return r, nil
}

// Shift passes x through the allpass chain in declared order, then feeds
// the chain's output to every feedback comb in parallel, returning the
// unweighted sum of their outputs. No wet/dry mix or scaling is applied
// here; callers scale as needed.
func (r *SchroederReverb) Shift(x float32) (float32, error) {
	chained := x
	for i, ap := range r.allpass {
		y, err := ap.Shift(chained)
		if err != nil {
			return 0, fmt.Errorf("schroeder reverb: allpass %d: %w", i, err)
		}
		chained = y
	}

	var sum float32
	for i, fb := range r.combs {
		y, err := fb.Shift(chained)
		if err != nil {
			return 0, fmt.Errorf("schroeder reverb: fbcf %d: %w", i, err)
		}
		sum += y
	}

	return sum, nil
}

// Process runs the reverberator over a block of samples in place, matching
// the DSPCore contract used by the Foreground Processor.
func (r *SchroederReverb) Process(samples []float32) error {
	for i, x := range samples {
		y, err := r.Shift(x)
		if err != nil {
			return err
		}
		samples[i] = y
	}
	return nil
}
