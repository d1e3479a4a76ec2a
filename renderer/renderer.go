// Package renderer drives a lesson through its two phases: a fail-fast
// Setup followed by a fault-tolerant Running loop that updates, renders and
// presents one frame per iteration.
package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/loov/hrtime"

	"render-lessons/config"
	"render-lessons/core"
	"render-lessons/gpu"
)

// Surface is where frames end up. Present is the loop's only yield point.
type Surface interface {
	ShouldClose() bool
	Present()
	FramebufferSize() core.Viewport
}

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// HRClock reads the high resolution timer.
type HRClock struct{}

func (HRClock) Now() time.Duration { return hrtime.Now() }

// StepClock advances by Step on every reading, for headless runs.
type StepClock struct {
	Step time.Duration
	t    time.Duration
}

func (c *StepClock) Now() time.Duration {
	c.t += c.Step
	return c.t
}

// Context carries everything a lesson needs during Setup. It replaces
// process-wide state: one is created per run and dropped at exit.
type Context struct {
	Device   gpu.Device
	Builder  *gpu.Builder
	Reporter *core.Reporter
	Config   config.Config
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// NewContext wires a builder to dev and reporter. A zero cfg.Seed seeds
// the rng from the clock.
func NewContext(dev gpu.Device, reporter *core.Reporter, cfg config.Config, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Context{
		Device:   dev,
		Builder:  gpu.NewBuilder(dev, reporter, logger),
		Reporter: reporter,
		Config:   cfg,
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   logger,
	}
}

// Frame is handed to Lesson.Render once per iteration.
type Frame struct {
	Index    int
	Time     float32 // seconds since Running began
	Delta    float32
	Viewport core.Viewport

	dev   gpu.Device
	draws int
}

// NewFrame starts a frame drawing on dev. The loop creates one per
// iteration; tools that render a single frame can call it directly.
func NewFrame(dev gpu.Device, index int, viewport core.Viewport) *Frame {
	return &Frame{Index: index, Viewport: viewport, dev: dev}
}

// Draw issues call on the device and counts it.
func (f *Frame) Draw(call gpu.DrawCall) {
	f.dev.Draw(call)
	f.draws++
}

func (f *Frame) Draws() int { return f.draws }

// Lesson is one demo. Setup acquires every resource; any error aborts the
// run before the first frame. Update and Render are called once per frame,
// in that order.
type Lesson interface {
	Name() string
	Setup(ctx *Context) error
	ClearColor() core.Color
	Update(dt float32)
	Render(f *Frame) error
}

type State int

const (
	StateSetup State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats summarises a run.
type Stats struct {
	Frames     int
	Draws      int
	DrawErrors int
	Simulate   time.Duration
	Render     time.Duration
}

// Loop runs a lesson against a surface.
type Loop struct {
	Surface Surface
	Clock   Clock
	// MaxFrames stops the loop after that many frames. Zero runs until
	// the surface closes or the context is cancelled.
	MaxFrames int

	state State
	stats Stats
}

func NewLoop(surface Surface) *Loop {
	return &Loop{Surface: surface, Clock: HRClock{}}
}

func (l *Loop) State() State { return l.state }

func (l *Loop) Stats() Stats { return l.stats }

// Run sets the lesson up and, if that succeeds, renders frames until the
// surface closes, ctx is cancelled or MaxFrames is reached. The returned
// error is the Setup failure, already reported through rc.Reporter.
// Resources stay allocated; call rc.Builder.Release after Run.
func (l *Loop) Run(ctx context.Context, rc *Context, lesson Lesson) error {
	log := rc.Logger.With("lesson", lesson.Name())
	l.state = StateSetup
	l.stats = Stats{}

	if err := lesson.Setup(rc); err != nil {
		rc.Reporter.Report(err)
		l.state = StateStopped
		return fmt.Errorf("setup %s: %w", lesson.Name(), err)
	}
	log.Info("setup complete")

	l.state = StateRunning
	start := l.Clock.Now()
	last := start
	for l.running(ctx) {
		now := l.Clock.Now()
		dt := float32((now - last).Seconds())
		last = now

		simStart := hrtime.Now()
		lesson.Update(dt)
		simStop := hrtime.Now()

		renderStart := hrtime.Now()
		frame := NewFrame(rc.Device, l.stats.Frames, l.Surface.FramebufferSize())
		frame.Time = float32((now - start).Seconds())
		frame.Delta = dt
		rc.Device.Viewport(frame.Viewport)
		rc.Device.Clear(lesson.ClearColor())
		if err := lesson.Render(frame); err != nil {
			l.drawError(rc.Reporter, err)
		}
		if err := rc.Device.Err(); err != nil {
			l.drawError(rc.Reporter, err)
		}
		renderStop := hrtime.Now()

		l.stats.Frames++
		l.stats.Draws += frame.Draws()
		l.stats.Simulate += simStop - simStart
		l.stats.Render += renderStop - renderStart

		l.Surface.Present()
	}
	l.state = StateStopped

	log.Debug("loop stopped",
		"frames", l.stats.Frames,
		"draws", l.stats.Draws,
		"draw_errors", l.stats.DrawErrors,
		"simulate", l.stats.Simulate,
		"render", l.stats.Render)
	return nil
}

func (l *Loop) running(ctx context.Context) bool {
	if ctx.Err() != nil || l.Surface.ShouldClose() {
		return false
	}
	return l.MaxFrames <= 0 || l.stats.Frames < l.MaxFrames
}

// drawError reports a Running-phase failure. Unclassified errors are
// classified as draw errors so they are logged as non-fatal.
func (l *Loop) drawError(reporter *core.Reporter, err error) {
	l.stats.DrawErrors++
	if core.KindOf(err) == 0 {
		err = &core.Error{Kind: core.DrawError, Op: "render frame", Err: err}
	}
	reporter.Report(err)
}
