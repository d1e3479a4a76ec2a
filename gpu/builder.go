package gpu

import (
	"fmt"
	"log/slog"
	"strings"

	"render-lessons/core"
)

// Builder creates device resources and turns every failure into a reported,
// classified error. Callers treat any returned error as fatal to Setup.
type Builder struct {
	dev      Device
	reporter *core.Reporter
	log      *slog.Logger

	releases []func()
}

func NewBuilder(dev Device, reporter *core.Reporter, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{dev: dev, reporter: reporter, log: logger}
}

// fail reports err once and returns it.
func (b *Builder) fail(err *core.Error) error {
	b.reporter.Report(err)
	return err
}

// CreateBuffer uploads vertex data into a static vertex buffer.
func (b *Builder) CreateBuffer(data []byte) (Buffer, error) {
	return b.allocate(VertexTarget, data)
}

// CreateIndexBuffer uploads uint16 indices into a static index buffer.
func (b *Builder) CreateIndexBuffer(indices []uint16) (Buffer, error) {
	return b.allocate(IndexTarget, Bytes(indices))
}

func (b *Builder) allocate(target BufferTarget, data []byte) (Buffer, error) {
	op := "create vertex buffer"
	if target == IndexTarget {
		op = "create index buffer"
	}
	if len(data) == 0 {
		return 0, b.fail(core.Errorf(core.ResourceAllocationError, op, "no data"))
	}

	buf := b.dev.Allocate(target, data)
	if buf == 0 {
		return 0, b.fail(core.Errorf(core.ResourceAllocationError, op, "failed to allocate %d bytes", len(data)))
	}
	b.releases = append(b.releases, func() { b.dev.ReleaseBuffer(buf) })
	b.log.Debug("buffer created", "op", op, "bytes", len(data))
	return buf, nil
}

// CreateProgram compiles both stages and links them. On any failure every
// object created along the way is released and no program is returned.
func (b *Builder) CreateProgram(vertexSource, fragmentSource string) (*ShaderProgram, error) {
	vs, err := b.compile(VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := b.compile(FragmentStage, fragmentSource)
	if err != nil {
		b.dev.ReleaseShader(vs)
		return nil, err
	}

	prog, infoLog := b.dev.LinkProgram(vs, fs)
	b.dev.ReleaseShader(vs)
	b.dev.ReleaseShader(fs)
	if prog == 0 {
		return nil, b.fail(core.Errorf(core.LinkError, "link program", "%s", strings.TrimRight(infoLog, "\x00\n ")))
	}
	b.releases = append(b.releases, func() { b.dev.ReleaseProgram(prog) })

	return &ShaderProgram{
		Handle:   prog,
		dev:      b.dev,
		builder:  b,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}, nil
}

func (b *Builder) compile(stage Stage, source string) (Shader, error) {
	shader, infoLog := b.dev.CompileShader(stage, source)
	if shader == 0 {
		op := fmt.Sprintf("compile %s shader", stage)
		return 0, b.fail(core.Errorf(core.CompileError, op, "%s", strings.TrimRight(infoLog, "\x00\n ")))
	}
	return shader, nil
}

// Release frees everything the builder created, newest first.
func (b *Builder) Release() {
	for i := len(b.releases) - 1; i >= 0; i-- {
		b.releases[i]()
	}
	b.releases = nil
}

// ShaderProgram is a linked program with its input and parameter slots
// resolved once and cached by name.
type ShaderProgram struct {
	Handle Program

	dev      Device
	builder  *Builder
	attribs  map[string]int32
	uniforms map[string]int32
}

// Resolve looks up every named attribute and uniform. All missing names are
// collected into a single AttributeResolutionError.
func (p *ShaderProgram) Resolve(attribs, uniforms []string) error {
	var missing []string
	for _, name := range attribs {
		loc := p.dev.AttribLocation(p.Handle, name)
		if loc < 0 {
			missing = append(missing, "attribute "+name)
			continue
		}
		p.attribs[name] = loc
	}
	for _, name := range uniforms {
		loc := p.dev.UniformLocation(p.Handle, name)
		if loc < 0 {
			missing = append(missing, "uniform "+name)
			continue
		}
		p.uniforms[name] = loc
	}
	if len(missing) > 0 {
		return p.builder.fail(core.Errorf(core.AttributeResolutionError, "resolve program inputs",
			"not found: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// Attribute returns the cached location of a resolved attribute, or -1.
func (p *ShaderProgram) Attribute(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

// Uniform returns the cached location of a resolved uniform, or -1.
func (p *ShaderProgram) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}
