package lessons

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/renderer"
	"render-lessons/scene"
)

// MotionAndColor sprays short-lived coloured shapes from a wandering
// anchor. Triangles and squares take their colours from separate byte
// buffers, the circle from an interleaved float buffer.
type MotionAndColor struct {
	dev     gpu.Device
	program *gpu.ShaderProgram
	spawner *scene.Spawner

	canvasSize    int32
	shapeLocation int32
	shapeSize     int32
}

func (l *MotionAndColor) Name() string { return "motion-and-color" }

func (l *MotionAndColor) ClearColor() core.Color { return core.RGB(0.08, 0.08, 0.08) }

func (l *MotionAndColor) Setup(ctx *renderer.Context) error {
	l.dev = ctx.Device
	b := ctx.Builder
	cfg := ctx.Config.Motion

	var err error
	l.program, err = buildProgram(ctx, motionVertexShader, vertexColorFragmentShader,
		[]string{"vertexPosition", "vertexColor"},
		[]string{"canvasSize", "shapeLocation", "shapeSize"})
	if err != nil {
		return err
	}
	posLoc := l.program.Attribute("vertexPosition")
	colorLoc := l.program.Attribute("vertexColor")
	l.canvasSize = l.program.Uniform("canvasSize")
	l.shapeLocation = l.program.Uniform("shapeLocation")
	l.shapeSize = l.program.Uniform("shapeSize")

	trianglePositions, err := b.CreateBuffer(gpu.Bytes(scene.TrianglePositions))
	if err != nil {
		return err
	}
	squarePositions, err := b.CreateBuffer(gpu.Bytes(scene.SquarePositions))
	if err != nil {
		return err
	}

	// twoBuffer binds float XY positions with normalised RGB bytes.
	twoBuffer := func(positions gpu.Buffer, colors []uint8, vertices int) (*gpu.Binding, error) {
		colorBuf, err := b.CreateBuffer(colors)
		if err != nil {
			return nil, err
		}
		return b.Bind(positions, 0, []gpu.AttribSlot{
			gpu.Float32Slot("vertexPosition", posLoc, 2, 0, 0),
			{
				Name:       "vertexColor",
				Buffer:     colorBuf,
				Location:   colorLoc,
				Components: 3,
				Type:       gpu.Uint8,
				Normalized: true,
			},
		}, vertices)
	}

	var geometries []*gpu.Binding
	for _, g := range []struct {
		positions gpu.Buffer
		colors    []uint8
		vertices  int
	}{
		{trianglePositions, scene.RGBTriangleColors, 3},
		{trianglePositions, scene.FireyTriangleColors, 3},
		{squarePositions, scene.IndigoGradientSquareColors, 6},
		{squarePositions, scene.GraySquareColors, 6},
	} {
		binding, err := twoBuffer(g.positions, g.colors, g.vertices)
		if err != nil {
			return err
		}
		geometries = append(geometries, binding)
	}

	circle, err := scene.CreateCircle(cfg.CircleSegments).Upload(b,
		gpu.Float32Slot("vertexPosition", posLoc, 2, 5, 0),
		gpu.Float32Slot("vertexColor", colorLoc, 3, 5, 2))
	if err != nil {
		return err
	}
	geometries = append(geometries, circle)

	l.spawner, err = scene.NewSpawner(cfg, geometries, ctx.Rand)
	if err != nil {
		return err
	}
	l.spawner.Bounds = mgl32.Vec2{float32(ctx.Config.Window.Width), float32(ctx.Config.Window.Height)}

	ctx.Logger.Debug("motion geometry ready", "geometries", len(geometries))
	return nil
}

func (l *MotionAndColor) Update(dt float32) {
	l.spawner.Update(dt)
}

func (l *MotionAndColor) Render(f *renderer.Frame) error {
	size := mgl32.Vec2{float32(f.Viewport.Width), float32(f.Viewport.Height)}
	l.spawner.Bounds = size

	l.dev.SetState(gpu.RenderState{})
	l.dev.UseProgram(l.program.Handle)
	l.dev.Uniform2f(l.canvasSize, size)

	for _, shape := range scene.DrawList(l.spawner.Shapes()) {
		l.dev.Uniform1f(l.shapeSize, shape.Size)
		l.dev.Uniform2f(l.shapeLocation, shape.Position)
		f.Draw(shape.Geometry().Call())
	}
	return nil
}

// Spawner exposes the simulation for inspection.
func (l *MotionAndColor) Spawner() *scene.Spawner { return l.spawner }
