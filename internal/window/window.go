// Package window opens the GLFW window and OpenGL context used by windowed
// runs. It is the only package that needs cgo and a window system.
package window

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"render-lessons/core"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

const (
	glMajor = 4
	glMinor = 1
)

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type Config struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	Samples   int
}

func DefaultConfig() Config {
	return Config{
		Width:     800,
		Height:    600,
		Title:     "Render Lessons",
		Resizable: true,
		VSync:     true,
		Samples:   2,
	}
}

// New opens a window with a current OpenGL 4.1 core context. When the
// context cannot be created the returned error is a MissingCapabilityError
// telling apart "no OpenGL at all" from "only an older version".
func New(config Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &core.Error{Kind: core.MissingCapabilityError, Op: "initialize GLFW", Err: err}
	}

	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Samples, config.Samples)
	glfw.WindowHint(glfw.ContextVersionMajor, glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, glMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		capErr := probeContext()
		capErr.Err = err
		glfw.Terminate()
		return nil, capErr
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})

	return window, nil
}

// probeContext retries with default hints and an invisible window to find
// out whether any OpenGL context is available.
func probeContext() *core.Error {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)

	probe, err := glfw.CreateWindow(1, 1, "probe", nil, nil)
	if err != nil {
		return core.Errorf(core.MissingCapabilityError, "create OpenGL context",
			"OpenGL is not supported on this device - try using a different device or driver")
	}
	probe.Destroy()
	return core.Errorf(core.MissingCapabilityError, "create OpenGL context",
		"OpenGL is supported, but not %d.%d core - try updating the graphics driver", glMajor, glMinor)
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

// Present swaps the back buffer and processes pending window events. It is
// the only point where the frame loop gives control back to the host.
func (w *Window) Present() {
	w.Handle.SwapBuffers()
	glfw.PollEvents()
	if w.Handle.GetKey(glfw.KeyEscape) == glfw.Press {
		w.Handle.SetShouldClose(true)
	}
}

func (w *Window) FramebufferSize() core.Viewport {
	width, height := w.Handle.GetFramebufferSize()
	return core.Viewport{Width: width, Height: height}
}

// Write shows a reported message in the title bar, the window's stand-in
// for an on-screen error box.
func (w *Window) Write(p []byte) (int, error) {
	w.Handle.SetTitle(w.Title + " [" + strings.TrimSpace(string(p)) + "]")
	return len(p), nil
}

func (w *Window) String() string {
	return fmt.Sprintf("window %dx%d", w.Width, w.Height)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
