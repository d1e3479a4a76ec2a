package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"render-lessons/config"
	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/internal/headless"
	"render-lessons/internal/window"
	"render-lessons/internal/opengl"
	"render-lessons/lessons"
	"render-lessons/renderer"
)

var (
	lessonName = flag.String("lesson", "motion-and-color", "lesson to run: "+strings.Join(lessons.Names(), ", "))
	configPath = flag.String("config", "lessons.yaml", "YAML config file (optional)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

	windowWidth  = flag.Int("width", 0, "window width (overrides config)")
	windowHeight = flag.Int("height", 0, "window height (overrides config)")

	headlessMode = flag.Bool("headless", false, "render on the recording device without a window")
	maxFrames    = flag.Int("frames", 0, "stop after this many frames (headless default 120)")
	verbose      = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("lesson failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	lesson, err := lessons.New(*lessonName)
	if err != nil {
		return err
	}

	// slog already writes every report to stderr; a window adds its title
	// bar as the display below.
	reporter := core.NewReporter(nil, logger)

	var (
		dev     gpu.Device
		surface renderer.Surface
		clock   renderer.Clock = renderer.HRClock{}
		frames  = *maxFrames
	)
	if *headlessMode {
		dev = headless.NewDevice(logger)
		surface = core.NewHeadlessSurface(cfg.Window.Width, cfg.Window.Height)
		clock = &renderer.StepClock{Step: time.Second / 60}
		if frames == 0 {
			frames = 120
		}
	} else {
		wc := window.DefaultConfig()
		wc.Width, wc.Height = cfg.Window.Width, cfg.Window.Height
		wc.Title = cfg.Window.Title + " - " + lesson.Name()
		wc.VSync = cfg.Window.VSync
		wc.Samples = cfg.Window.Samples

		win, err := window.New(wc)
		if err != nil {
			reporter.Report(err)
			return fmt.Errorf("failed to create window: %w", err)
		}
		defer win.Destroy()
		reporter.Attach(win)

		glDevice, err := opengl.NewDevice(logger)
		if err != nil {
			reporter.Report(err)
			return fmt.Errorf("failed to create OpenGL device: %w", err)
		}
		dev = glDevice
		surface = win
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rc := renderer.NewContext(dev, reporter, cfg, logger)
	defer rc.Builder.Release()

	loop := renderer.NewLoop(surface)
	loop.Clock = clock
	loop.MaxFrames = frames

	logger.Info("starting lesson", "lesson", lesson.Name(), "surface", fmt.Sprint(surface))
	if err := loop.Run(ctx, rc, lesson); err != nil {
		return err
	}

	stats := loop.Stats()
	logger.Info("lesson finished",
		"frames", stats.Frames,
		"draws", stats.Draws,
		"errors", reporter.Count())
	return nil
}

// loadConfig layers the optional YAML file and the size flags over the
// defaults.
func loadConfig(logger *slog.Logger) (config.Config, error) {
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no config file, using defaults", "path", *configPath)
		cfg = config.Default()
	case err != nil:
		return cfg, err
	default:
		logger.Debug("config loaded", "path", *configPath)
	}

	if *windowWidth > 0 {
		cfg.Window.Width = *windowWidth
	}
	if *windowHeight > 0 {
		cfg.Window.Height = *windowHeight
	}
	return cfg, cfg.Validate()
}
