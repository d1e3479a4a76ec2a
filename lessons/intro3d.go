package lessons

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/renderer"
	"render-lessons/scene"
)

// Intro3D shows vertex-coloured cubes on a table under an orbiting camera.
type Intro3D struct {
	dev     gpu.Device
	program *gpu.ShaderProgram
	camera  *scene.OrbitCamera
	solids  *scene.Population[*scene.Solid]

	matWorld    int32
	matViewProj int32
}

func (l *Intro3D) Name() string { return "intro-to-3d" }

func (l *Intro3D) ClearColor() core.Color { return core.RGB(0.02, 0.02, 0.02) }

func (l *Intro3D) Setup(ctx *renderer.Context) error {
	l.dev = ctx.Device

	var err error
	l.program, err = buildProgram(ctx, intro3DVertexShader, vertexColorFragmentShader,
		[]string{"vertexPosition", "vertexColor"},
		[]string{"matWorld", "matViewProj"})
	if err != nil {
		return err
	}
	l.matWorld = l.program.Uniform("matWorld")
	l.matViewProj = l.program.Uniform("matViewProj")

	slots := []gpu.AttribSlot{
		gpu.Float32Slot("vertexPosition", l.program.Attribute("vertexPosition"), 3, 6, 0),
		gpu.Float32Slot("vertexColor", l.program.Attribute("vertexColor"), 3, 6, 3),
	}
	cubeMesh := scene.CreateCube()
	cube, err := cubeMesh.Upload(ctx.Builder, slots...)
	if err != nil {
		return err
	}
	table, err := scene.CreateTable().Upload(ctx.Builder, slots...)
	if err != nil {
		return err
	}

	cubeBounds := cubeMesh.Bounds()
	l.solids = scene.NewPopulation[*scene.Solid](0)
	l.solids.Add(scene.NewSolid(mgl32.Vec3{}, 1, 0, table))
	for _, p := range cubePlacements {
		s := scene.NewSolid(p.position, p.scale, mgl32.DegToRad(p.angleDeg), cube)
		s.Bounds = &cubeBounds
		l.solids.Add(s)
	}

	l.camera = scene.NewOrbitCamera(ctx.Config.Camera)
	return nil
}

func (l *Intro3D) Update(dt float32) {
	l.camera.Update(dt)
	l.solids.Advance(dt)
}

func (l *Intro3D) Render(f *renderer.Frame) error {
	l.camera.UpdateAspectRatio(f.Viewport)

	l.dev.SetState(gpu.RenderState{DepthTest: true, CullBack: true})
	l.dev.UseProgram(l.program.Handle)
	viewProj := l.camera.GetViewProjectionMatrix()
	l.dev.UniformMat4(l.matViewProj, viewProj)

	frustum := scene.FrustumFromVP(viewProj)
	for _, s := range scene.Cull(scene.DrawList(l.solids.Items()), &frustum) {
		l.dev.UniformMat4(l.matWorld, s.WorldTransform())
		f.Draw(s.Geometry().Call())
	}
	return nil
}

func (l *Intro3D) Camera() *scene.OrbitCamera { return l.camera }
