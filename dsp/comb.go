package dsp

import "fmt"

// FFCF is a feed-forward comb filter: y = b0*x + bm*delay(x).
type FFCF struct {
	delay  *DelayLine
	b0, bm float32
}

// NewFFCF builds a feed-forward comb filter with delay length m.
func NewFFCF(m int, b0, bm float32) (*FFCF, error) {
	d, err := NewDelayLine(m)
	if err != nil {
		return nil, fmt.Errorf("ffcf: %w", err)
	}
	return &FFCF{delay: d, b0: b0, bm: bm}, nil
}

// Shift advances the filter by one sample and returns its output.
func (f *FFCF) Shift(x float32) (float32, error) {
	d, err := f.delay.Shift(x)
	if err != nil {
		return 0, fmt.Errorf("ffcf: %w", err)
	}
	return f.b0*x + f.bm*d, nil
}

// FBCF is a feedback comb filter: v = am*delay.Peek() + x; delay.Shift(v);
// y = b0*v. The peek-then-shift order is load-bearing: the feedback tap
// must be read before it is overwritten.
type FBCF struct {
	delay  *DelayLine
	b0, am float32
}

// NewFBCF builds a feedback comb filter with delay length m.
func NewFBCF(m int, b0, am float32) (*FBCF, error) {
	d, err := NewDelayLine(m)
	if err != nil {
		return nil, fmt.Errorf("fbcf: %w", err)
	}
	return &FBCF{delay: d, b0: b0, am: am}, nil
}

// Shift advances the filter by one sample and returns its output.
func (f *FBCF) Shift(x float32) (float32, error) {
	d, err := f.delay.Peek()
	if err != nil {
		return 0, fmt.Errorf("fbcf: %w", err)
	}
	v := f.am*d + x
	if _, err := f.delay.Shift(v); err != nil {
		return 0, fmt.Errorf("fbcf: %w", err)
	}
	return f.b0 * v, nil
}

// APCF is a direct-form-I allpass comb filter: an FFCF chained into an FBCF
// sharing the same delay length M.
type APCF struct {
	ff *FFCF
	fb *FBCF
}

// NewAPCF builds an allpass comb filter of delay length m and gain
// magnitude g: input gain -g on the feed-forward stage, feedback gain +g
// on the feedback stage.
func NewAPCF(m int, g float32) (*APCF, error) {
	ff, err := NewFFCF(m, 1, -g)
	if err != nil {
		return nil, fmt.Errorf("apcf: %w", err)
	}
	fb, err := NewFBCF(m, 1, g)
	if err != nil {
		return nil, fmt.Errorf("apcf: %w", err)
	}
	return &APCF{ff: ff, fb: fb}, nil
}

// Shift advances the filter by one sample and returns its output: the
// serial composition FBCF(FFCF(x)).
func (a *APCF) Shift(x float32) (float32, error) {
	d, err := a.ff.Shift(x)
	if err != nil {
		return 0, fmt.Errorf("apcf: %w", err)
	}
	y, err := a.fb.Shift(d)
	if err != nil {
		return 0, fmt.Errorf("apcf: %w", err)
	}
	return y, nil
}

// NewFBCFFixed builds a feedback comb filter the way the Schroeder
// reverberator's bank does: b0 = 1, am = -|g|.
func NewFBCFFixed(m int, g float32) (*FBCF, error) {
	if g < 0 {
		g = -g
	}
	return NewFBCF(m, 1, -g)
}
