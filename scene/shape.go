package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/gpu"
)

// MovingShape is a flat shape in surface pixels that drifts under a
// constant force until its time runs out.
type MovingShape struct {
	Position      mgl32.Vec2
	Velocity      mgl32.Vec2
	Force         mgl32.Vec2
	Size          float32
	TimeRemaining float32

	geometry *gpu.Binding
}

func NewMovingShape(position, velocity, force mgl32.Vec2, size, lifetime float32, geometry *gpu.Binding) *MovingShape {
	return &MovingShape{
		Position:      position,
		Velocity:      velocity,
		Force:         force,
		Size:          size,
		TimeRemaining: lifetime,
		geometry:      geometry,
	}
}

func (s *MovingShape) IsAlive() bool { return s.TimeRemaining > 0 }

// Update integrates with forward Euler: force into velocity, then velocity
// into position.
func (s *MovingShape) Update(dt float32) {
	s.Velocity = s.Velocity.Add(s.Force.Mul(dt))
	s.Position = s.Position.Add(s.Velocity.Mul(dt))
	s.TimeRemaining -= dt
}

func (s *MovingShape) WorldTransform() mgl32.Mat4 {
	t := mgl32.Translate3D(s.Position.X(), s.Position.Y(), 0)
	return t.Mul4(mgl32.Scale3D(s.Size, s.Size, 1))
}

func (s *MovingShape) Geometry() *gpu.Binding { return s.geometry }
