// Package headless provides a gpu.Device that needs no window or driver.
// It checks GLSL sources structurally, reflects their interface
// declarations to answer location queries, and records every draw call so
// frames can be inspected after the fact.
package headless

import (
	"log/slog"
	"maps"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
)

type bufferObject struct {
	target gpu.BufferTarget
	data   []byte
}

type shaderObject struct {
	stage gpu.Stage
	iface shaderInterface
}

type programObject struct {
	attribs  map[string]int32
	uniforms map[string]int32
	values   map[int32]any
}

// DrawRecord is one recorded draw call with the uniform values that were
// current when it was issued.
type DrawRecord struct {
	Program  gpu.Program
	Call     gpu.DrawCall
	Uniforms map[int32]any
}

// Device records GPU work in memory. The Fail* fields inject allocation
// failures for tests.
type Device struct {
	FailAllocations bool
	FailLayouts     bool

	log *slog.Logger

	next     uint32
	buffers  map[gpu.Buffer]bufferObject
	layouts  map[gpu.Layout]gpu.LayoutDesc
	shaders  map[gpu.Shader]shaderObject
	programs map[gpu.Program]*programObject

	current  gpu.Program
	viewport core.Viewport
	clear    core.Color
	state    gpu.RenderState
	clears   int
	draws    []DrawRecord
	pending  error
}

func NewDevice(logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{
		log:      logger,
		buffers:  make(map[gpu.Buffer]bufferObject),
		layouts:  make(map[gpu.Layout]gpu.LayoutDesc),
		shaders:  make(map[gpu.Shader]shaderObject),
		programs: make(map[gpu.Program]*programObject),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// raise keeps the first error until Err is called, like a GL error flag.
func (d *Device) raise(format string, args ...any) {
	if d.pending == nil {
		d.pending = core.Errorf(core.DrawError, "draw", format, args...)
	}
}

// ── Buffers and layouts ──────────────────────────────────────────────────────

func (d *Device) Allocate(target gpu.BufferTarget, data []byte) gpu.Buffer {
	if d.FailAllocations {
		return 0
	}
	buf := gpu.Buffer(d.id())
	d.buffers[buf] = bufferObject{target: target, data: append([]byte(nil), data...)}
	return buf
}

func (d *Device) Bind(desc gpu.LayoutDesc) gpu.Layout {
	if d.FailLayouts {
		return 0
	}
	for _, a := range desc.Attribs {
		if b, ok := d.buffers[a.Buffer]; !ok || b.target != gpu.VertexTarget {
			d.log.Debug("layout references unknown vertex buffer", "buffer", a.Buffer)
			return 0
		}
	}
	if desc.Index != 0 {
		if b, ok := d.buffers[desc.Index]; !ok || b.target != gpu.IndexTarget {
			return 0
		}
	}
	layout := gpu.Layout(d.id())
	desc.Attribs = append([]gpu.AttribBinding(nil), desc.Attribs...)
	d.layouts[layout] = desc
	return layout
}

func (d *Device) ReleaseBuffer(b gpu.Buffer)   { delete(d.buffers, b) }
func (d *Device) ReleaseLayout(l gpu.Layout)   { delete(d.layouts, l) }
func (d *Device) ReleaseShader(s gpu.Shader)   { delete(d.shaders, s) }
func (d *Device) ReleaseProgram(p gpu.Program) { delete(d.programs, p) }

// BufferData returns a copy of the bytes stored in b.
func (d *Device) BufferData(b gpu.Buffer) ([]byte, bool) {
	obj, ok := d.buffers[b]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// LayoutDesc returns the description a layout was built from.
func (d *Device) LayoutDesc(l gpu.Layout) (gpu.LayoutDesc, bool) {
	desc, ok := d.layouts[l]
	return desc, ok
}

// Live returns the number of buffers, layouts and programs still allocated.
func (d *Device) Live() (buffers, layouts, programs int) {
	return len(d.buffers), len(d.layouts), len(d.programs)
}

// ── Shaders ──────────────────────────────────────────────────────────────────

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.Shader, string) {
	iface, err := parseShader(stage, source)
	if err != nil {
		return 0, err.Error()
	}
	shader := gpu.Shader(d.id())
	d.shaders[shader] = shaderObject{stage: stage, iface: iface}
	return shader, ""
}

func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, string) {
	v, vok := d.shaders[vs]
	f, fok := d.shaders[fs]
	if !vok || !fok || v.stage != gpu.VertexStage || f.stage != gpu.FragmentStage {
		return 0, "link error: program needs one vertex and one fragment shader"
	}
	if err := link(v.iface, f.iface); err != nil {
		return 0, err.Error()
	}

	prog := &programObject{
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
		values:   make(map[int32]any),
	}
	assignAttribLocations(v.iface.inputs, prog.attribs)
	for _, decls := range [][]declaration{v.iface.uniforms, f.iface.uniforms} {
		for _, decl := range decls {
			if _, ok := prog.uniforms[decl.name]; !ok {
				prog.uniforms[decl.name] = int32(len(prog.uniforms))
			}
		}
	}

	handle := gpu.Program(d.id())
	d.programs[handle] = prog
	return handle, ""
}

// assignAttribLocations honours explicit layout locations first and fills
// the rest in declaration order.
func assignAttribLocations(inputs []declaration, out map[string]int32) {
	used := make(map[int32]bool)
	for _, decl := range inputs {
		if decl.location >= 0 {
			out[decl.name] = decl.location
			used[decl.location] = true
		}
	}
	next := int32(0)
	for _, decl := range inputs {
		if decl.location >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		out[decl.name] = next
		used[next] = true
	}
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	prog, ok := d.programs[p]
	if !ok {
		return -1
	}
	if loc, ok := prog.attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	prog, ok := d.programs[p]
	if !ok {
		return -1
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	return -1
}

// ── Per-frame state ──────────────────────────────────────────────────────────

func (d *Device) Viewport(v core.Viewport) { d.viewport = v }

func (d *Device) Clear(c core.Color) {
	d.clear = c
	d.clears++
}

func (d *Device) SetState(s gpu.RenderState) { d.state = s }

func (d *Device) UseProgram(p gpu.Program) {
	if _, ok := d.programs[p]; !ok && p != 0 {
		d.raise("use of unknown program %d", p)
		return
	}
	d.current = p
}

func (d *Device) setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	prog, ok := d.programs[d.current]
	if !ok {
		d.raise("uniform %d set without a program in use", loc)
		return
	}
	prog.values[loc] = v
}

func (d *Device) Uniform1f(loc int32, v float32)      { d.setUniform(loc, v) }
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2)   { d.setUniform(loc, v) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3)   { d.setUniform(loc, v) }
func (d *Device) UniformMat4(loc int32, m mgl32.Mat4) { d.setUniform(loc, m) }

func (d *Device) Draw(call gpu.DrawCall) {
	prog, ok := d.programs[d.current]
	if !ok {
		d.raise("draw without a program in use")
		return
	}
	desc, ok := d.layouts[call.Layout]
	if !ok {
		d.raise("draw with unknown layout %d", call.Layout)
		return
	}
	if call.Indexed && desc.Index == 0 {
		d.raise("indexed draw with layout %d that has no index buffer", call.Layout)
		return
	}
	if call.Count <= 0 {
		d.raise("draw with count %d", call.Count)
		return
	}
	d.draws = append(d.draws, DrawRecord{
		Program:  d.current,
		Call:     call,
		Uniforms: maps.Clone(prog.values),
	})
}

func (d *Device) Err() error {
	err := d.pending
	d.pending = nil
	return err
}

// InjectError makes the next Err call return a draw error.
func (d *Device) InjectError(msg string) { d.raise("%s", msg) }

// ── Inspection ───────────────────────────────────────────────────────────────

// Draws returns the recorded draws since the last ResetDraws.
func (d *Device) Draws() []DrawRecord { return d.draws }

func (d *Device) ResetDraws() { d.draws = d.draws[:0] }

func (d *Device) Clears() int                    { return d.clears }
func (d *Device) ClearColor() core.Color         { return d.clear }
func (d *Device) CurrentViewport() core.Viewport { return d.viewport }
func (d *Device) State() gpu.RenderState         { return d.state }
