package opengl

import (
	"fmt"
	"log/slog"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
)

// Device is the OpenGL 4.1 core implementation of gpu.Device.
// Must be created after the GLFW window context is made current.
type Device struct {
	log *slog.Logger
}

// NewDevice loads the OpenGL entry points for the current context.
func NewDevice(logger *slog.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, &core.Error{Kind: core.MissingCapabilityError, Op: "initialize OpenGL", Err: err}
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Device{log: logger}, nil
}

// ── Buffers and layouts ──────────────────────────────────────────────────────

func (d *Device) Allocate(target gpu.BufferTarget, data []byte) gpu.Buffer {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0
	}

	glTarget := uint32(gl.ARRAY_BUFFER)
	if target == gpu.IndexTarget {
		glTarget = gl.ELEMENT_ARRAY_BUFFER
	}
	gl.BindBuffer(glTarget, buf)
	gl.BufferData(glTarget, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(glTarget, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		d.log.Warn("buffer upload failed", "gl_error", code)
		gl.DeleteBuffers(1, &buf)
		return 0
	}
	return gpu.Buffer(buf)
}

func (d *Device) Bind(desc gpu.LayoutDesc) gpu.Layout {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0
	}
	gl.BindVertexArray(vao)

	for _, a := range desc.Attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(a.Buffer))
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Components, componentType(a.Type), a.Normalized,
			a.Stride, gl.PtrOffset(a.Offset))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	// The element buffer binding is part of the vertex array state.
	if desc.Index != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(desc.Index))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return gpu.Layout(vao)
}

func (d *Device) ReleaseBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) ReleaseLayout(l gpu.Layout) {
	id := uint32(l)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) ReleaseShader(s gpu.Shader)   { gl.DeleteShader(uint32(s)) }
func (d *Device) ReleaseProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }

// ── Shaders ──────────────────────────────────────────────────────────────────

func (d *Device) CompileShader(stage gpu.Stage, src string) (gpu.Shader, string) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Sprintf("failed to allocate %s shader object", stage)
	}
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, log
	}
	return gpu.Shader(shader), ""
}

func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, string) {
	prog := gl.CreateProgram()
	if prog == 0 {
		return 0, "failed to allocate program object"
	}
	gl.AttachShader(prog, uint32(vs))
	gl.AttachShader(prog, uint32(fs))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, log
	}

	gl.DetachShader(prog, uint32(vs))
	gl.DetachShader(prog, uint32(fs))
	return gpu.Program(prog), ""
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

// ── Per-frame state ──────────────────────────────────────────────────────────

func (d *Device) Viewport(v core.Viewport) {
	gl.Viewport(0, 0, int32(v.Width), int32(v.Height))
}

func (d *Device) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetState(s gpu.RenderState) {
	if s.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if s.CullBack {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func (d *Device) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) Uniform1f(loc int32, v float32)    { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v[0], v[1]) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }

func (d *Device) UniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) Draw(call gpu.DrawCall) {
	mode := primitiveMode(call.Primitive)
	gl.BindVertexArray(uint32(call.Layout))
	if call.Indexed {
		gl.DrawElements(mode, call.Count, gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(mode, 0, call.Count)
	}
	gl.BindVertexArray(0)
}

func (d *Device) Err() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	// Drain the remaining flags so the next frame starts clean.
	for gl.GetError() != gl.NO_ERROR {
	}
	return core.Errorf(core.DrawError, "draw", "%s", errorName(code))
}

// ── Internal helpers ─────────────────────────────────────────────────────────

func componentType(t gpu.ComponentType) uint32 {
	switch t {
	case gpu.Uint8:
		return gl.UNSIGNED_BYTE
	case gpu.Uint16:
		return gl.UNSIGNED_SHORT
	default:
		return gl.FLOAT
	}
}

func primitiveMode(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Lines:
		return gl.LINES
	case gpu.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("GL error 0x%04x", code)
	}
}
