package lessons

import (
	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/renderer"
)

// HelloTriangle draws one purple triangle in clip space.
type HelloTriangle struct {
	dev      gpu.Device
	program  *gpu.ShaderProgram
	triangle *gpu.Binding
}

func (l *HelloTriangle) Name() string { return "hello-triangle" }

func (l *HelloTriangle) ClearColor() core.Color { return core.RGB(0.08, 0.08, 0.08) }

func (l *HelloTriangle) Setup(ctx *renderer.Context) error {
	l.dev = ctx.Device

	vertices, err := ctx.Builder.CreateBuffer(gpu.Bytes([]float32{
		0.0, 0.5,   // top middle
		-0.5, -0.5, // bottom left
		0.5, -0.5,  // bottom right
	}))
	if err != nil {
		return err
	}

	l.program, err = buildProgram(ctx, helloTriangleVertexShader, helloTriangleFragmentShader,
		[]string{"vertexPosition"}, nil)
	if err != nil {
		return err
	}

	l.triangle, err = ctx.Builder.Bind(vertices, 0, []gpu.AttribSlot{
		gpu.Float32Slot("vertexPosition", l.program.Attribute("vertexPosition"), 2, 0, 0),
	}, 3)
	return err
}

func (l *HelloTriangle) Update(dt float32) {}

func (l *HelloTriangle) Render(f *renderer.Frame) error {
	l.dev.SetState(gpu.RenderState{})
	l.dev.UseProgram(l.program.Handle)
	f.Draw(l.triangle.Call())
	return nil
}
