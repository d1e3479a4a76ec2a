package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/core"
	"render-lessons/gpu"
)

// Solid is a permanent 3D object. A non-zero Spin rotates it about its
// transform axis at that many radians per second. Bounds, when set, is the
// local box of its geometry and lets Cull skip it.
type Solid struct {
	Transform core.Transform
	Color     core.Color
	Spin      float32
	Bounds    *AABB

	geometry *gpu.Binding
}

func NewSolid(position mgl32.Vec3, scale, angle float32, geometry *gpu.Binding) *Solid {
	t := core.NewTransform()
	t.Position = position
	t.Angle = angle
	t.UniformScale(scale)
	return &Solid{Transform: t, Color: core.ColorWhite, geometry: geometry}
}

func (s *Solid) IsAlive() bool { return true }

func (s *Solid) Update(dt float32) {
	if s.Spin == 0 {
		return
	}
	s.Transform.Angle = wrapAngle(s.Transform.Angle + s.Spin*dt)
}

func (s *Solid) WorldTransform() mgl32.Mat4 { return s.Transform.GetMatrix() }

func (s *Solid) Geometry() *gpu.Binding { return s.geometry }

// wrapAngle maps a to [0, 2π).
func wrapAngle(a float32) float32 {
	w := math.Mod(float64(a), 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	if float32(w) >= 2*math.Pi {
		return 0
	}
	return float32(w)
}
