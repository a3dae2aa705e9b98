package peripherals

import "testing"

func TestSampleToCodeClampsAndScales(t *testing.T) {
	const res = Resolution(12)
	maxCode := res.MaxCode()

	cases := []struct {
		sample float32
		want   uint32
		tol    uint32
	}{
		{-1.0, 0, 0},
		{0, 0, 0},
		{1.0, maxCode, 0},
		{2.0, maxCode, 0},
		{0.5, maxCode / 2, 1},
	}
	for _, c := range cases {
		got := SampleToCode(c.sample, res)
		diff := got - c.want
		if got < c.want {
			diff = c.want - got
		}
		if diff > c.tol {
			t.Errorf("SampleToCode(%v) = %v, want %v (+/- %v)", c.sample, got, c.want, c.tol)
		}
	}
}

func TestResolutionMaxCode(t *testing.T) {
	if Resolution(8).MaxCode() != 255 {
		t.Errorf("8-bit MaxCode() = %v, want 255", Resolution(8).MaxCode())
	}
	if Resolution(12).MaxCode() != 4095 {
		t.Errorf("12-bit MaxCode() = %v, want 4095", Resolution(12).MaxCode())
	}
}

func TestSimulatedTimerFiresOverflow(t *testing.T) {
	timer := NewSimulatedTimer(40_000_000)
	timer.Configure(1000) // fires at 40kHz, fast enough for a quick test

	fired := make(chan struct{}, 1)
	timer.OnOverflow(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	timer.Enable()
	defer timer.Stop()

	<-fired
}

func TestSimulatedADCReadsFromSource(t *testing.T) {
	val := uint32(42)
	adc := NewSimulatedADC(func() uint32 { return val })

	completed := false
	adc.OnComplete(func() { completed = true })
	adc.StartSingle()

	if !completed {
		t.Error("OnComplete callback did not fire")
	}
	if got := adc.ReadResult(); got != 42 {
		t.Errorf("ReadResult() = %v, want 42", got)
	}

	val = 99
	adc.StartSingle()
	if got := adc.ReadResult(); got != 99 {
		t.Errorf("ReadResult() after source change = %v, want 99", got)
	}
}

func TestSimulatedDACTracksLastCode(t *testing.T) {
	var sunk []uint32
	dac := NewSimulatedDAC(func(code uint32) { sunk = append(sunk, code) })

	dac.Write(10)
	dac.Write(20)

	if dac.LastCode() != 20 {
		t.Errorf("LastCode() = %v, want 20", dac.LastCode())
	}
	if len(sunk) != 2 || sunk[0] != 10 || sunk[1] != 20 {
		t.Errorf("sink recorded %v, want [10 20]", sunk)
	}
}

func TestSimulatedVectorMathFill(t *testing.T) {
	var vm SimulatedVectorMath
	dst := make([]float32, 5)
	vm.Fill(3.5, dst)
	for i, v := range dst {
		if v != 3.5 {
			t.Errorf("dst[%d] = %v, want 3.5", i, v)
		}
	}
}
