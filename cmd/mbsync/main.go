// Command mbsync runs the multiband compressor against a generated test
// signal with a terminal interface that shows live band levels and drives
// band bypass through host automation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/config"
	"github.com/justyntemme/mbsync/pkg/editor"
	"github.com/justyntemme/mbsync/pkg/engine"
	"github.com/justyntemme/mbsync/pkg/framework/debug"
)

func main() {
	configPath := flag.String("config", "mbsync.yaml", "path to the YAML config file")
	logLevel := flag.String("log-level", "", "override the configured log level")
	headless := flag.Duration("headless", 0, "run without the terminal interface for this long")
	writeDefault := flag.Bool("write-config", false, "write the default config to -config and exit")
	var set overrides
	flag.Var(&set, "set", `set a parameter at startup, e.g. -set "Bypassed Low Band=Bypassed" (repeatable)`)
	flag.Parse()

	if *writeDefault {
		if err := config.Default().Save(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := newLogger(cfg, *headless > 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log, set, *headless); err != nil {
		log.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to the configured file, or to stderr when no terminal
// interface owns the screen.
func newLogger(cfg *config.Config, headless bool) (*debug.Logger, error) {
	var log *debug.Logger
	switch {
	case cfg.Log.File != "":
		l, err := debug.NewFileLogger(cfg.Log.File, "mbsync", debug.DefaultFlags)
		if err != nil {
			return nil, err
		}
		log = l
	case headless:
		log = debug.New(os.Stderr, "mbsync", debug.DefaultFlags)
	default:
		log = debug.New(io.Discard, "mbsync", debug.DefaultFlags)
	}
	log.SetLevel(cfg.LogLevel())
	return log, nil
}

func run(cfg *config.Config, log *debug.Logger, set overrides, headless time.Duration) error {
	eng, err := engine.New(cfg.Engine())
	if err != nil {
		return err
	}
	if err := set.apply(eng.Parameters()); err != nil {
		return err
	}
	info := eng.Info()
	log.Info("%s (%s) at %.0f Hz, crossovers %.0f/%.0f Hz", info.Title(), info.UIDString(),
		cfg.Audio.SampleRate, cfg.Crossover.LowMidHz, cfg.Crossover.MidHighHz)

	recorder := newAutomationRecorder(eng.Parameters(), log)
	eng.Parameters().SetComponentHandler(recorder)

	display := newDisplayState()
	profiler := debug.NewProfiler(600)

	ed, err := editor.New(editor.Config{
		Registry:     eng.Parameters(),
		BypassNames:  cfg.BypassNames(),
		Frames:       eng.Snapshot(),
		Overlay:      display,
		Display:      display,
		BandControls: display,
		Analyzer:     display,
		Logger:       log,
		Profiler:     profiler,
	})
	if err != nil {
		log.Fatal("configuration defect: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var audio sync.WaitGroup
	audio.Add(1)
	go func() {
		defer audio.Done()
		runAudio(ctx, eng, newSignalSource(cfg.Audio.SampleRate, cfg.Signal), cfg.Audio.BlockSize)
	}()

	// The editor stops before the audio it observes
	defer func() {
		ed.Close()
		cancel()
		audio.Wait()
		eng.Parameters().SetComponentHandler(nil)
		log.Info("stopped after %d frames\n%s", eng.Snapshot().Version(), profiler.Report())
	}()

	ed.Open()

	if headless > 0 {
		return runHeadless(ed, display, recorder, log, headless)
	}

	m := model{
		editor:   ed,
		engine:   eng,
		display:  display,
		recorder: recorder,
		profiler: profiler,
		title:    info.Title(),
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// runHeadless exercises the bypass controls on a timer and logs the meters
func runHeadless(ed *editor.Editor, display *displayState, recorder *automationRecorder, log *debug.Logger, d time.Duration) error {
	deadline := time.After(d)
	report := time.NewTicker(time.Second)
	defer report.Stop()

	step := 0
	for {
		select {
		case <-deadline:
			edits, last, misused := recorder.summary()
			log.Info("automation events: %d (last %q), protocol errors: %d", edits, last, misused)
			if misused > 0 {
				return fmt.Errorf("%d host automation protocol errors", misused)
			}
			return nil
		case <-report.C:
			v := display.view()
			for _, b := range band.All() {
				lvl := v.level(b)
				log.Info("%-4v in %6.1f dB  out %6.1f dB  bypassed=%t", b, lvl.InputDB, lvl.OutputDB, ed.BandBypass(b))
			}

			// Alternate a single band and the global toggle
			if step%2 == 0 {
				ed.ToggleBandBypass(band.All()[(step/2)%band.Count])
			} else {
				ed.ClickGlobalBypass()
			}
			step++
		}
	}
}
