package peripherals

import (
	"github.com/gordonklaus/portaudio"
)

// portAudioCore is the state shared by PortAudioTimer, PortAudioADC and
// PortAudioDAC when they all run over the same duplex portaudio.Stream.
// Real hardware delivers the timer overflow and ADC-complete interrupts as
// separate, independently-prioritized events; this host backend collapses
// them into one callback invocation per sample, calling the overflow
// callback (which starts the next ADC conversion and runs the consumer
// ISR body) synchronously before handing the result back to PortAudio. The
// pipeline core only depends on per-sample ordering, never on the
// interrupts actually nesting, so the collapse is observationally
// equivalent for everything the core can see.
type portAudioCore struct {
	sampleRate float64
	resolution Resolution
	stream     *portaudio.Stream

	overflowCB func()
	completeCB func()

	inSample    float32
	lastADCCode uint32
	lastDACCode uint32
}

func (c *portAudioCore) audioCB(in, out []float32) {
	c.inSample = in[0]
	if c.overflowCB != nil {
		c.overflowCB()
	}
	out[0] = dacCodeToFloat(c.lastDACCode, c.resolution)
}

// NewPortAudioBackend initializes PortAudio and returns the Timer, ADC and
// DAC views over one duplex stream running at sampleRate with the given
// DAC code resolution. Call Close when done.
func NewPortAudioBackend(sampleRate float64, resolution Resolution) (*PortAudioTimer, *PortAudioADC, *PortAudioDAC, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, nil, nil, err
	}
	core := &portAudioCore{sampleRate: sampleRate, resolution: resolution}
	return &PortAudioTimer{core: core}, &PortAudioADC{core: core}, &PortAudioDAC{core: core}, nil
}

// PortAudioTimer is the Timer view over a portAudioCore.
type PortAudioTimer struct {
	core *portAudioCore
}

// Configure is a no-op: the stream's sample rate already fixes the
// callback rate PortAudio drives it at.
func (t *PortAudioTimer) Configure(topValue uint32) {}

func (t *PortAudioTimer) Enable() {
	stream, err := portaudio.OpenDefaultStream(1, 1, t.core.sampleRate, 1, t.core.audioCB)
	if err != nil {
		panic(err)
	}
	t.core.stream = stream
	if err := stream.Start(); err != nil {
		panic(err)
	}
}

func (t *PortAudioTimer) OnOverflow(fn func()) { t.core.overflowCB = fn }

func (t *PortAudioTimer) ClearInterrupt() {}

// Close stops the stream (if running) and terminates PortAudio. Only one
// of Timer/ADC/DAC needs to be closed; they share the same stream.
func (t *PortAudioTimer) Close() error {
	if t.core.stream != nil {
		t.core.stream.Stop()
		t.core.stream.Close()
	}
	return portaudio.Terminate()
}

// PortAudioADC is the ADC view over a portAudioCore.
type PortAudioADC struct {
	core *portAudioCore
}

func (a *PortAudioADC) Configure(reference ADCReference, acqTime uint32, channel uint32) {}

func (a *PortAudioADC) StartSingle() {
	a.core.lastADCCode = floatToADCCode(a.core.inSample, a.core.resolution)
	if a.core.completeCB != nil {
		a.core.completeCB()
	}
}

func (a *PortAudioADC) ReadResult() uint32 { return a.core.lastADCCode }

func (a *PortAudioADC) OnComplete(fn func()) { a.core.completeCB = fn }

// PortAudioDAC is the DAC view over a portAudioCore.
type PortAudioDAC struct {
	core *portAudioCore
}

func (d *PortAudioDAC) Configure(channel uint32) {}

func (d *PortAudioDAC) Write(code uint32) { d.core.lastDACCode = code }

func floatToADCCode(sample float32, resolution Resolution) uint32 {
	// PortAudio input samples are in [-1, 1]; the ADC's code space is
	// unsigned, so recenter to [0, 1) before the usual saturating scale.
	return SampleToCode((sample+1)/2, resolution)
}

func dacCodeToFloat(code uint32, resolution Resolution) float32 {
	maxCode := resolution.MaxCode()
	if maxCode == 0 {
		return 0
	}
	return float32(code)/float32(maxCode)*2 - 1
}
