package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/config"
	"render-lessons/core"
)

// OrbitCamera circles the origin at a fixed horizontal radius and height,
// always looking at the origin.
type OrbitCamera struct {
	Radius float32
	Height float32
	Angle  float32 // radians, kept in [0, 2π)
	Rate   float32 // radians per second

	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32
}

func NewOrbitCamera(cfg config.Camera) *OrbitCamera {
	return &OrbitCamera{
		Radius: cfg.Radius,
		Height: cfg.Height,
		Angle:  wrapAngle(mgl32.DegToRad(cfg.StartDeg)),
		Rate:   mgl32.DegToRad(cfg.RateDeg),
		FOV:    mgl32.DegToRad(cfg.FOVDeg),
		Aspect: 1,
		Near:   cfg.Near,
		Far:    cfg.Far,
	}
}

func (c *OrbitCamera) Update(dt float32) {
	c.Angle = wrapAngle(c.Angle + c.Rate*dt)
}

func (c *OrbitCamera) UpdateAspectRatio(v core.Viewport) {
	c.Aspect = v.Aspect()
}

func (c *OrbitCamera) Position() mgl32.Vec3 {
	sin, cos := math.Sincos(float64(c.Angle))
	return mgl32.Vec3{c.Radius * float32(sin), c.Height, c.Radius * float32(cos)}
}

func (c *OrbitCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// GetViewProjectionMatrix returns projection * view.
func (c *OrbitCamera) GetViewProjectionMatrix() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}
