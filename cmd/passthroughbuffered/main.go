// Command passthroughbuffered is the buffered-passthrough variant: the
// full block-pool/triple-queue pipeline with an identity DSP core, useful
// for measuring the transport's latency and drop behavior in isolation
// from any filter math.
package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/chriskillpack/mcu-audio-pipeline/cmd/internal/config"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/pipeline"
)

func main() {
	backend := pflag.StringP("backend", "b", "simulated", "peripheral backend: simulated or portaudio")
	toneHz := pflag.Float64P("tone", "t", 440, "simulated backend: test tone frequency in Hz")
	pflag.Parse()

	variant := config.PassthroughBuffered()

	var (
		timer     peripherals.Timer
		adc       peripherals.ADC
		dac       peripherals.DAC
		closeFunc func() error
	)

	switch *backend {
	case "portaudio":
		t, a, d, err := peripherals.NewPortAudioBackend(float64(variant.FS), variant.Resolution)
		if err != nil {
			log.Fatal("failed to initialize portaudio backend", "err", err)
		}
		timer, adc, dac, closeFunc = t, a, d, t.Close
	case "simulated":
		var n uint64
		adc = peripherals.NewSimulatedADC(func() uint32 {
			phase := 2 * math.Pi * (*toneHz) * float64(n) / float64(variant.FS)
			n++
			return peripherals.SampleToCode(float32((math.Sin(phase)+1)/2), variant.Resolution)
		})
		timer = peripherals.NewSimulatedTimer(variant.FCPU)
		dac = peripherals.NewSimulatedDAC(nil)
		closeFunc = func() error { return nil }
	default:
		log.Fatal("unrecognized backend", "backend", *backend)
	}

	cfg := pipeline.Config{
		NumBuffers:   variant.NumBuffers,
		BufferSize:   variant.BufferSize,
		FS:           variant.FS,
		FCPU:         variant.FCPU,
		Resolution:   variant.Resolution,
		ADCReference: peripherals.ADCReference(0),
		ADCAcqTime:   8,
		Timer:        timer,
		ADC:          adc,
		DAC:          dac,
		Core:         pipeline.IdentityCore{},
	}

	orc, err := pipeline.NewOrchestrator(cfg)
	if err != nil {
		log.Fatal("pipeline init failed", "err", err)
	}

	log.Info("passthrough-buffered running", "fs", variant.FS, "buffer_size", variant.BufferSize, "num_buffers", variant.NumBuffers, "backend", *backend)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT)
		<-sigCh
		orc.Stop()
	}()

	if err := orc.Run(); err != nil {
		log.Fatal("processor loop exited with error", "err", err)
	}

	if err := closeFunc(); err != nil {
		log.Error("error closing backend", "err", err)
	}
}
