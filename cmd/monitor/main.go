// Command monitor runs a pipelined variant (passthroughbuffered, firlowpass
// or schroeder) with a live terminal UI showing queue occupancy, drops and
// underruns, adapted from cmd/modplay's AudioPlayer render loop for a
// pipeline instead of a tracker song.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/chriskillpack/mcu-audio-pipeline/cmd/internal/config"
	"github.com/chriskillpack/mcu-audio-pipeline/peripherals"
	"github.com/chriskillpack/mcu-audio-pipeline/pipeline"
)

var (
	white  = color.New(color.FgWhite).SprintfFunc()
	cyan   = color.New(color.FgCyan).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"

	barWidth    = 24
	uiLineCount = 6
)

// Monitor renders the live state of a running pipeline.Orchestrator.
type Monitor struct {
	orc     *pipeline.Orchestrator
	variant string

	ctx      context.Context
	cancelFn context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	keyboardDoneCh chan struct{}
}

// NewMonitor wraps an already-constructed orchestrator for display.
func NewMonitor(orc *pipeline.Orchestrator, variant string) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		orc:            orc,
		variant:        variant,
		ctx:            ctx,
		cancelFn:       cancel,
		keyboardDoneCh: make(chan struct{}),
	}
}

// Run starts the pipeline in the background and renders the UI until
// Stop is called (Ctrl-C, 'q' or Escape).
func (m *Monitor) Run() error {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.orc.Run(); err != nil {
			log.Error("processor loop exited with error", "err", err)
		}
	}()

	m.setupSignalHandlers()
	m.setupKeyboardHandlers()

	fmt.Print(hideCursor)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			goto exit
		case <-ticker.C:
			m.render()
		}
	}

exit:
	fmt.Print(showCursor)

	select {
	case <-m.keyboardDoneCh:
	case <-time.After(500 * time.Millisecond):
	}

	m.wg.Wait()
	return nil
}

func (m *Monitor) setupSignalHandlers() {
	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh, syscall.SIGINT)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		select {
		case <-m.ctx.Done():
		case <-sigCh:
			m.Stop()
		}
	}()
}

func (m *Monitor) setupKeyboardHandlers() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				m.Stop()
				return true, nil
			}
			if key.Code == keys.RuneKey && len(key.Runes) > 0 && key.Runes[0] == 'q' {
				m.Stop()
				return true, nil
			}
			return false, nil
		})
		close(m.keyboardDoneCh)
	}()
}

// Stop ends the render loop and the underlying pipeline.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.orc.Stop()
		m.cancelFn()
		fmt.Print(showCursor)
	})
}

func (m *Monitor) render() {
	st := m.orc.State()
	fmt.Printf("%s  %s\n", white("variant"), cyan(m.variant))
	bar("free", st.Free.Len(), st.Free.Cap())
	bar("processing", st.Processing.Len(), st.Processing.Cap())
	bar("ready", st.Ready.Len(), st.Ready.Cap())
	fmt.Printf("%s %s   %s %s\n",
		yellow("drops"), red("%d", m.orc.Drops()),
		yellow("underruns"), red("%d", m.orc.Underruns()))
	fmt.Printf("%s\n", white("q / esc / ctrl-c to quit"))

	fmt.Fprintf(os.Stdout, escape+"%dF", uiLineCount)
}

func bar(label string, n, capacity int) {
	filled := 0
	if capacity > 0 {
		filled = n * barWidth / capacity
	}
	if filled > barWidth {
		filled = barWidth
	}
	b := ""
	for i := 0; i < barWidth; i++ {
		if i < filled {
			b += "#"
		} else {
			b += "."
		}
	}
	fmt.Printf("%-10s %s %s\n", label, green(b), white("%d/%d", n, capacity))
}

func main() {
	variantFlag := pflag.StringP("variant", "v", "passthroughbuffered", "pipeline variant: passthroughbuffered, firlowpass or schroeder")
	backend := pflag.StringP("backend", "b", "simulated", "peripheral backend: simulated or portaudio")
	toneHz := pflag.Float64P("tone", "t", 440, "simulated backend: test tone frequency in Hz")
	pflag.Parse()

	var (
		numBuffers, bufferSize int
		fs, fcpu               uint32
		resolution             peripherals.Resolution
		core                   pipeline.DSPCore
	)

	switch *variantFlag {
	case "passthroughbuffered":
		v := config.PassthroughBuffered()
		numBuffers, bufferSize, fs, fcpu, resolution = v.NumBuffers, v.BufferSize, v.FS, v.FCPU, v.Resolution
		core = pipeline.IdentityCore{}
	case "firlowpass":
		v := config.FIRLowpass()
		numBuffers, bufferSize, fs, fcpu, resolution = v.NumBuffers, v.BufferSize, v.FS, v.FCPU, v.Resolution
		fir, err := v.BuildFIRCore(nil)
		if err != nil {
			log.Fatal("fir coefficient design failed", "err", err)
		}
		core = config.NewFIRCore(fir)
	case "schroeder":
		v := config.Schroeder()
		numBuffers, bufferSize, fs, fcpu, resolution = v.NumBuffers, v.BufferSize, v.FS, v.FCPU, v.Resolution
		reverb, err := config.BuildSchroederCore()
		if err != nil {
			log.Fatal("schroeder reverb init failed", "err", err)
		}
		core = config.NewSchroederCore(reverb)
	default:
		log.Fatal("unrecognized variant", "variant", *variantFlag)
	}

	var (
		timer     peripherals.Timer
		adc       peripherals.ADC
		dac       peripherals.DAC
		closeFunc func() error
	)

	switch *backend {
	case "portaudio":
		t, a, d, err := peripherals.NewPortAudioBackend(float64(fs), resolution)
		if err != nil {
			log.Fatal("failed to initialize portaudio backend", "err", err)
		}
		timer, adc, dac, closeFunc = t, a, d, t.Close
	case "simulated":
		var n uint64
		adc = peripherals.NewSimulatedADC(func() uint32 {
			phase := 2 * math.Pi * (*toneHz) * float64(n) / float64(fs)
			n++
			return peripherals.SampleToCode(float32((math.Sin(phase)+1)/2), resolution)
		})
		timer = peripherals.NewSimulatedTimer(fcpu)
		dac = peripherals.NewSimulatedDAC(nil)
		closeFunc = func() error { return nil }
	default:
		log.Fatal("unrecognized backend", "backend", *backend)
	}

	cfg := pipeline.Config{
		NumBuffers:   numBuffers,
		BufferSize:   bufferSize,
		FS:           fs,
		FCPU:         fcpu,
		Resolution:   resolution,
		ADCReference: peripherals.ADCReference(0),
		ADCAcqTime:   8,
		Timer:        timer,
		ADC:          adc,
		DAC:          dac,
		Core:         core,
	}

	orc, err := pipeline.NewOrchestrator(cfg)
	if err != nil {
		log.Fatal("pipeline init failed", "err", err)
	}

	m := NewMonitor(orc, *variantFlag)
	if err := m.Run(); err != nil {
		log.Error("monitor exited with error", "err", err)
	}

	if err := closeFunc(); err != nil {
		log.Error("error closing backend", "err", err)
	}
}
