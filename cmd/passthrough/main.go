// Command passthrough is the raw-passthrough variant: no block pool, no
// transport queues, just a single shared sample value passed from the
// ADC-complete ISR to the timer-overflow ISR.
package main

import (
	"math"
	"os"
	"os/signal"
	"sync/atomic"
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

	variant := config.Passthrough()

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

	// A single shared sample value, this variant's only state (no buffer,
	// no queue): the ADC-complete ISR writes it, the timer-overflow ISR
	// reads it and writes it straight to the DAC.
	var sampleValue atomic.Uint32

	adc.Configure(peripherals.ADCReference(0), 8, 0)
	dac.Configure(0)

	adc.OnComplete(func() {
		sampleValue.Store(adc.ReadResult())
	})
	timer.OnOverflow(func() {
		adc.StartSingle()
		dac.Write(sampleValue.Load())
		timer.ClearInterrupt()
	})

	top := pipeline.SamplingClock{FCPU: variant.FCPU, FS: variant.FS}.TopValue()
	timer.Configure(top)
	timer.Enable()

	log.Info("passthrough running", "fs", variant.FS, "backend", *backend)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	<-sigCh

	if err := closeFunc(); err != nil {
		log.Error("error closing backend", "err", err)
	}
}
