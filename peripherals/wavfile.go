package peripherals

import (
	"io"

	"github.com/youpy/go-wav"
)

// WAVSource is an ADC backed by samples read from a WAV file, for batch
// processing a recording through a variant instead of live audio. It
// drives itself at file rate rather than wall-clock rate: StartSingle
// reads exactly one frame per call.
type WAVSource struct {
	reader     *wav.Reader
	resolution Resolution

	cb       func()
	lastCode uint32
	pending  []wav.Sample
	done     bool
}

// NewWAVSource wraps r as a mono 16-bit-style ADC source. Only the first
// channel of a multi-channel file is used, since the pipeline is
// single-channel.
func NewWAVSource(r io.Reader, resolution Resolution) *WAVSource {
	return &WAVSource{reader: wav.NewReader(r), resolution: resolution}
}

func (s *WAVSource) Configure(reference ADCReference, acqTime uint32, channel uint32) {}

func (s *WAVSource) StartSingle() {
	if len(s.pending) == 0 {
		samples, err := s.reader.ReadSamples()
		if err != nil || len(samples) == 0 {
			s.done = true
			if s.cb != nil {
				s.cb()
			}
			return
		}
		s.pending = samples
	}

	sample := s.pending[0]
	s.pending = s.pending[1:]
	s.lastCode = pcmToADCCode(sample.Values[0], s.resolution)

	if s.cb != nil {
		s.cb()
	}
}

func (s *WAVSource) ReadResult() uint32 { return s.lastCode }

func (s *WAVSource) OnComplete(fn func()) { s.cb = fn }

// Done reports whether the file has been fully consumed.
func (s *WAVSource) Done() bool { return s.done }

// WAVSink is a DAC that writes every code to a WAV file, for capturing a
// variant's output for offline inspection.
type WAVSink struct {
	writer     *wav.Writer
	resolution Resolution
}

// NewWAVSink creates a mono WAV sink at sampleRate, expecting numSamples
// total frames to be written (the format matching youpy/go-wav's writer,
// which records the data length up front).
func NewWAVSink(w io.Writer, numSamples uint32, sampleRate uint32, resolution Resolution) *WAVSink {
	return &WAVSink{
		writer:     wav.NewWriter(w, numSamples, 1, sampleRate, 16),
		resolution: resolution,
	}
}

func (s *WAVSink) Configure(channel uint32) {}

func (s *WAVSink) Write(code uint32) {
	pcm := adcCodeToPCM(code, s.resolution)
	s.writer.WriteSamples([]wav.Sample{{Values: [2]int{pcm, pcm}}})
}

func pcmToADCCode(pcm int, resolution Resolution) uint32 {
	// 16-bit PCM samples are signed [-32768, 32767]; recenter to the
	// ADC's unsigned code space before the usual saturating scale.
	normalized := (float32(pcm) + 32768) / 65535
	return SampleToCode(normalized, resolution)
}

func adcCodeToPCM(code uint32, resolution Resolution) int {
	maxCode := resolution.MaxCode()
	if maxCode == 0 {
		return 0
	}
	return int(float32(code)/float32(maxCode)*65535) - 32768
}
