package renderer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-lessons/config"
	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/internal/headless"
)

const vertexSource = `#version 410 core
in vec2 vertexPosition;
void main() {
    gl_Position = vec4(vertexPosition, 0.0, 1.0);
}
`

const fragmentSource = `#version 410 core
out vec4 outputColor;
void main() {
    outputColor = vec4(1.0);
}
`

type fakeLesson struct {
	setupErr  error
	renderErr func(frame int) error
	badDraw   bool

	program *gpu.ShaderProgram
	binding *gpu.Binding
	updates []float32
	frames  []int
}

func (l *fakeLesson) Name() string           { return "fake" }
func (l *fakeLesson) ClearColor() core.Color { return core.RGB(0.1, 0.2, 0.3) }
func (l *fakeLesson) Update(dt float32)      { l.updates = append(l.updates, dt) }

func (l *fakeLesson) Setup(ctx *Context) error {
	if l.setupErr != nil {
		return l.setupErr
	}
	var err error
	l.program, err = ctx.Builder.CreateProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	buf, err := ctx.Builder.CreateBuffer(gpu.Bytes([]float32{0, 1, -1, -1, 1, -1}))
	if err != nil {
		return err
	}
	l.binding, err = ctx.Builder.Bind(buf, 0, []gpu.AttribSlot{gpu.Float32Slot("vertexPosition", 0, 2, 2, 0)}, 3)
	return err
}

func (l *fakeLesson) Render(f *Frame) error {
	l.frames = append(l.frames, f.Index)
	if l.renderErr != nil {
		if err := l.renderErr(f.Index); err != nil {
			return err
		}
	}
	call := l.binding.Call()
	if l.badDraw {
		call.Layout = 9999
	}
	f.dev.UseProgram(l.program.Handle)
	f.Draw(call)
	return nil
}

// closingSurface asks to close after a fixed number of presents.
type closingSurface struct {
	core.HeadlessSurface
	after int
}

func (s *closingSurface) ShouldClose() bool { return s.Presents >= s.after }

type testRun struct {
	dev      *headless.Device
	reporter *core.Reporter
	display  *bytes.Buffer
	ctx      *Context
	surface  *core.HeadlessSurface
	loop     *Loop
}

func newTestRun(maxFrames int) *testRun {
	var display bytes.Buffer
	dev := headless.NewDevice(nil)
	reporter := core.NewReporter(&display, nil)
	cfg := config.Default()
	cfg.Seed = 1
	surface := core.NewHeadlessSurface(320, 240)
	loop := NewLoop(surface)
	loop.Clock = &StepClock{Step: 10 * time.Millisecond}
	loop.MaxFrames = maxFrames
	return &testRun{
		dev:      dev,
		reporter: reporter,
		display:  &display,
		ctx:      NewContext(dev, reporter, cfg, nil),
		surface:  surface,
		loop:     loop,
	}
}

func TestLoopRunsFrames(t *testing.T) {
	r := newTestRun(5)
	lesson := &fakeLesson{}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	assert.Equal(t, StateStopped, r.loop.State())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, lesson.frames)
	assert.Equal(t, 5, r.surface.Presents)
	assert.Equal(t, 5, r.dev.Clears())
	assert.Equal(t, core.RGB(0.1, 0.2, 0.3), r.dev.ClearColor())
	assert.Equal(t, core.Viewport{Width: 320, Height: 240}, r.dev.CurrentViewport())
	assert.Len(t, r.dev.Draws(), 5)

	stats := r.loop.Stats()
	assert.Equal(t, 5, stats.Frames)
	assert.Equal(t, 5, stats.Draws)
	assert.Zero(t, stats.DrawErrors)
	assert.Zero(t, r.reporter.Count())
}

func TestLoopStepClockDelta(t *testing.T) {
	r := newTestRun(3)
	lesson := &fakeLesson{}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	require.Len(t, lesson.updates, 3)
	for _, dt := range lesson.updates {
		assert.InDelta(t, 0.01, dt, 1e-6)
	}
}

func TestLoopSetupFailureSkipsRendering(t *testing.T) {
	r := newTestRun(5)
	setupErr := core.Errorf(core.MissingCapabilityError, "create context", "OpenGL 4.1 not available")
	lesson := &fakeLesson{setupErr: setupErr}

	err := r.loop.Run(context.Background(), r.ctx, lesson)

	require.ErrorIs(t, err, core.ErrMissingCapability)
	assert.ErrorContains(t, err, "setup fake")
	assert.Equal(t, StateStopped, r.loop.State())
	assert.Empty(t, lesson.frames, "Render is never called after a failed Setup")
	assert.Empty(t, lesson.updates)
	assert.Zero(t, r.surface.Presents)
	assert.Equal(t, 1, r.reporter.Count())
	assert.Contains(t, r.display.String(), "OpenGL 4.1 not available")
}

func TestLoopSetupResourceFailureReportedOnce(t *testing.T) {
	r := newTestRun(5)
	r.dev.FailAllocations = true
	lesson := &fakeLesson{}

	err := r.loop.Run(context.Background(), r.ctx, lesson)

	require.ErrorIs(t, err, core.ErrResourceAllocation)
	assert.Equal(t, 1, r.reporter.Count(), "the builder already reported it")
	assert.Empty(t, lesson.frames)
}

func TestLoopContinuesAfterDrawErrors(t *testing.T) {
	r := newTestRun(4)
	lesson := &fakeLesson{
		renderErr: func(frame int) error {
			if frame == 1 {
				return errors.New("uniform upload failed")
			}
			return nil
		},
	}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	assert.Equal(t, []int{0, 1, 2, 3}, lesson.frames)
	assert.Equal(t, 1, r.loop.Stats().DrawErrors)
	assert.Equal(t, 3, r.loop.Stats().Draws)
	require.Equal(t, 1, r.reporter.Count())
	assert.Equal(t, "render frame: uniform upload failed", r.reporter.Messages()[0])
}

func TestLoopReportsDeviceErrors(t *testing.T) {
	r := newTestRun(3)
	lesson := &fakeLesson{badDraw: true}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	assert.Equal(t, 3, r.loop.Stats().Frames)
	assert.Equal(t, 3, r.loop.Stats().DrawErrors)
	assert.Equal(t, 3, r.reporter.Count())
	assert.Contains(t, r.reporter.Messages()[0], "unknown layout")
	assert.Empty(t, r.dev.Draws())
}

func TestLoopPersistentDrawErrorRetentionIsBounded(t *testing.T) {
	r := newTestRun(10000)
	lesson := &fakeLesson{badDraw: true}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	assert.Equal(t, 10000, r.loop.Stats().DrawErrors)
	assert.Equal(t, 10000, r.reporter.Count())
	assert.Len(t, r.reporter.Messages(), 1)
	assert.Equal(t, 1, bytes.Count(r.display.Bytes(), []byte("\n")), "a repeated error is displayed once")
}

func TestLoopStopsOnCancel(t *testing.T) {
	r := newTestRun(0)
	ctx, cancel := context.WithCancel(context.Background())
	lesson := &fakeLesson{
		renderErr: func(frame int) error {
			if frame == 6 {
				cancel()
			}
			return nil
		},
	}

	require.NoError(t, r.loop.Run(ctx, r.ctx, lesson))

	assert.Equal(t, 7, r.loop.Stats().Frames)
	assert.Equal(t, StateStopped, r.loop.State())
}

func TestLoopStopsWhenSurfaceCloses(t *testing.T) {
	r := newTestRun(0)
	surface := &closingSurface{HeadlessSurface: *core.NewHeadlessSurface(64, 64), after: 2}
	r.loop.Surface = surface
	lesson := &fakeLesson{}

	require.NoError(t, r.loop.Run(context.Background(), r.ctx, lesson))

	assert.Equal(t, 2, r.loop.Stats().Frames)
	assert.Equal(t, core.Viewport{Width: 64, Height: 64}, r.dev.CurrentViewport())
}

func TestBuilderReleaseAfterRun(t *testing.T) {
	r := newTestRun(1)
	require.NoError(t, r.loop.Run(context.Background(), r.ctx, &fakeLesson{}))

	buffers, layouts, programs := r.dev.Live()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{buffers, layouts, programs}, "Run leaves resources to the caller")

	r.ctx.Builder.Release()
	buffers, layouts, programs = r.dev.Live()
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{buffers, layouts, programs})
}

func TestStepClock(t *testing.T) {
	c := &StepClock{Step: time.Second / 60}
	first := c.Now()
	assert.Equal(t, time.Second/60, c.Now()-first)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "setup", StateSetup.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestNewContextSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 5
	a := NewContext(headless.NewDevice(nil), core.NewReporter(nil, nil), cfg, nil)
	b := NewContext(headless.NewDevice(nil), core.NewReporter(nil, nil), cfg, nil)

	assert.Equal(t, a.Rand.Int63(), b.Rand.Int63(), "a fixed seed is reproducible")
	assert.NotNil(t, a.Builder)
	assert.NotNil(t, a.Logger)
}
