package lessons

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
	"render-lessons/renderer"
	"render-lessons/scene"
)

// BlinnPhong lights solid-coloured objects with ambient, diffuse and
// Blinn-Phong specular terms from a single point light. An optional glTF
// or OBJ model from the config joins the scene.
type BlinnPhong struct {
	dev     gpu.Device
	program *gpu.ShaderProgram
	camera  *scene.OrbitCamera
	solids  *scene.Population[*scene.Solid]

	light         mgl32.Vec3
	ambient       float32
	specularPower float32

	uniforms struct {
		objectColor        int32
		matWorld           int32
		matViewProj        int32
		lightPosition      int32
		cameraPosition     int32
		ambientCoefficient int32
		specularPower      int32
	}
}

var cubeColors = []core.Color{
	core.RGB(0.85, 0.25, 0.2),
	core.RGB(0.95, 0.75, 0.2),
	core.RGB(0.3, 0.75, 0.35),
	core.RGB(0.25, 0.45, 0.9),
	core.RGB(0.65, 0.35, 0.85),
}

func (l *BlinnPhong) Name() string { return "blinn-phong" }

func (l *BlinnPhong) ClearColor() core.Color { return core.RGB(0.02, 0.02, 0.02) }

func (l *BlinnPhong) Setup(ctx *renderer.Context) error {
	l.dev = ctx.Device
	cfg := ctx.Config

	var err error
	l.program, err = buildProgram(ctx, blinnPhongVertexShader, blinnPhongFragmentShader,
		[]string{"vertexPosition", "vertexNormal"},
		[]string{"objectColor", "matWorld", "matViewProj", "lightPosition",
			"cameraPosition", "ambientCoefficient", "specularPower"})
	if err != nil {
		return err
	}
	u := &l.uniforms
	u.objectColor = l.program.Uniform("objectColor")
	u.matWorld = l.program.Uniform("matWorld")
	u.matViewProj = l.program.Uniform("matViewProj")
	u.lightPosition = l.program.Uniform("lightPosition")
	u.cameraPosition = l.program.Uniform("cameraPosition")
	u.ambientCoefficient = l.program.Uniform("ambientCoefficient")
	u.specularPower = l.program.Uniform("specularPower")

	slots := []gpu.AttribSlot{
		gpu.Float32Slot("vertexPosition", l.program.Attribute("vertexPosition"), 3, 6, 0),
		gpu.Float32Slot("vertexNormal", l.program.Attribute("vertexNormal"), 3, 6, 3),
	}
	cubeMesh := scene.CreateLitCube()
	cube, err := cubeMesh.Upload(ctx.Builder, slots...)
	if err != nil {
		return err
	}
	table, err := scene.CreateLitTable().Upload(ctx.Builder, slots...)
	if err != nil {
		return err
	}
	sphereMesh := scene.CreateSphere(32, 16)
	sphere, err := sphereMesh.Upload(ctx.Builder, slots...)
	if err != nil {
		return err
	}

	l.solids = scene.NewPopulation[*scene.Solid](0)

	ground := scene.NewSolid(mgl32.Vec3{}, 1, 0, table)
	ground.Color = core.RGB(0.2, 0.2, 0.2)
	l.solids.Add(ground)

	cubeBounds, sphereBounds := cubeMesh.Bounds(), sphereMesh.Bounds()
	for i, p := range cubePlacements {
		s := scene.NewSolid(p.position, p.scale, mgl32.DegToRad(p.angleDeg), cube)
		s.Color = cubeColors[i%len(cubeColors)]
		s.Bounds = &cubeBounds
		if i > 0 {
			s.Spin = mgl32.DegToRad(30)
		}
		l.solids.Add(s)
	}

	ball := scene.NewSolid(mgl32.Vec3{0, 1.1, 0}, 0.25, 0, sphere)
	ball.Color = core.RGB(0.9, 0.9, 0.9)
	ball.Bounds = &sphereBounds
	l.solids.Add(ball)

	if cfg.Model.Path != "" {
		mesh, err := scene.LoadModel(cfg.Model.Path)
		if err != nil {
			err = &core.Error{Kind: core.ResourceAllocationError, Op: "load model", Err: err}
			ctx.Reporter.Report(err)
			return err
		}
		binding, err := mesh.Upload(ctx.Builder, slots...)
		if err != nil {
			return fmt.Errorf("model %q: %w", cfg.Model.Path, err)
		}
		m := cfg.Model
		model := scene.NewSolid(mgl32.Vec3(m.Position), m.Scale, 0, binding)
		model.Color = core.RGB(m.Color[0], m.Color[1], m.Color[2])
		modelBounds := mesh.Bounds()
		model.Bounds = &modelBounds
		l.solids.Add(model)
		ctx.Logger.Info("model loaded", "path", m.Path, "vertices", mesh.VertexCount())
	}

	l.light = mgl32.Vec3(cfg.Lighting.Position)
	l.ambient = cfg.Lighting.Ambient
	l.specularPower = cfg.Lighting.SpecularPower
	l.camera = scene.NewOrbitCamera(cfg.Camera)
	return nil
}

func (l *BlinnPhong) Update(dt float32) {
	l.camera.Update(dt)
	l.solids.Advance(dt)
}

func (l *BlinnPhong) Render(f *renderer.Frame) error {
	u := &l.uniforms
	l.camera.UpdateAspectRatio(f.Viewport)

	l.dev.SetState(gpu.RenderState{DepthTest: true, CullBack: true})
	l.dev.UseProgram(l.program.Handle)
	viewProj := l.camera.GetViewProjectionMatrix()
	l.dev.UniformMat4(u.matViewProj, viewProj)
	l.dev.Uniform3f(u.lightPosition, l.light)
	l.dev.Uniform3f(u.cameraPosition, l.camera.Position())
	l.dev.Uniform1f(u.ambientCoefficient, l.ambient)
	l.dev.Uniform1f(u.specularPower, l.specularPower)

	frustum := scene.FrustumFromVP(viewProj)
	for _, s := range scene.Cull(scene.DrawList(l.solids.Items()), &frustum) {
		l.dev.Uniform3f(u.objectColor, s.Color.Vec3())
		l.dev.UniformMat4(u.matWorld, s.WorldTransform())
		f.Draw(s.Geometry().Call())
	}
	return nil
}

// Solids returns every object in draw order.
func (l *BlinnPhong) Solids() []*scene.Solid { return l.solids.Items() }
