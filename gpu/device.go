// Package gpu describes the graphics device the lessons draw with and
// builds the resources they need on top of it.
//
// Handles are opaque: a zero handle means "not created". Backends live in
// internal/opengl (a real OpenGL 4.1 core context) and internal/headless
// (a recording device used by tests and headless runs).
package gpu

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
)

type (
	Buffer  uint32
	Shader  uint32
	Program uint32
	Layout  uint32
)

type BufferTarget int

const (
	VertexTarget BufferTarget = iota
	IndexTarget
)

type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == FragmentStage {
		return "fragment"
	}
	return "vertex"
}

type ComponentType int

const (
	Float32 ComponentType = iota
	Uint8
	Uint16
)

// Size returns the component size in bytes.
func (t ComponentType) Size() int {
	switch t {
	case Uint8:
		return 1
	case Uint16:
		return 2
	default:
		return 4
	}
}

type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

// AttribBinding is one resolved shader input fed from a buffer.
type AttribBinding struct {
	Buffer     Buffer
	Location   uint32
	Components int32
	Type       ComponentType
	Normalized bool
	Stride     int32
	Offset     int
}

// LayoutDesc is everything a device needs to build a vertex array.
type LayoutDesc struct {
	Attribs []AttribBinding
	Index   Buffer
}

// DrawCall issues one draw with a bound layout. Count is an index count
// when Indexed, a vertex count otherwise.
type DrawCall struct {
	Layout    Layout
	Primitive Primitive
	Count     int32
	Indexed   bool
}

// Device is the capability interface over a graphics API. All methods run
// on the thread that owns the context.
type Device interface {
	// Allocate copies data into a static buffer. It returns 0 on failure.
	Allocate(target BufferTarget, data []byte) Buffer
	// Bind builds a vertex layout. It returns 0 on failure.
	Bind(desc LayoutDesc) Layout

	ReleaseBuffer(Buffer)
	ReleaseShader(Shader)
	ReleaseProgram(Program)
	ReleaseLayout(Layout)

	// CompileShader returns the compiled stage, or 0 and the info log.
	CompileShader(stage Stage, source string) (Shader, string)
	// LinkProgram returns the linked program, or 0 and the info log.
	LinkProgram(vertex, fragment Shader) (Program, string)
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32

	Viewport(v core.Viewport)
	Clear(c core.Color)
	SetState(s RenderState)
	UseProgram(p Program)

	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)
	UniformMat4(loc int32, m mgl32.Mat4)

	Draw(call DrawCall)
	// Err returns and clears the first error raised since the last call.
	Err() error
}

// RenderState toggles fixed-function state per lesson.
type RenderState struct {
	DepthTest bool
	CullBack  bool
}

// Scalar lists the element types lessons upload.
type Scalar interface {
	~float32 | ~uint8 | ~uint16 | ~uint32
}

// Bytes reinterprets a slice of scalars as its raw bytes without copying.
func Bytes[T Scalar](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(zero)))
}
