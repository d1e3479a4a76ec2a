package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Color struct {
	R, G, B, A float32
}

var ColorWhite = Color{1, 1, 1, 1}

// RGB returns an opaque colour.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Vec3 returns the colour's RGB channels, as uploaded to vec3 uniforms.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Transform places an object in the world: scale first, then a rotation of
// Angle radians about Axis, then translation to Position.
type Transform struct {
	Position mgl32.Vec3
	Axis     mgl32.Vec3
	Angle    float32
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Axis:  mgl32.Vec3{0, 1, 0},
		Scale: mgl32.Vec3{1, 1, 1},
	}
}

// UniformScale sets the same scale factor on every axis.
func (t *Transform) UniformScale(s float32) {
	t.Scale = mgl32.Vec3{s, s, s}
}

// GetMatrix composes T * R * S for column vectors. It is recomputed on
// every call.
func (t Transform) GetMatrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	rotation := mgl32.Ident4()
	if t.Angle != 0 && t.Axis.Len() > 0 {
		rotation = mgl32.QuatRotate(t.Angle, t.Axis.Normalize()).Mat4()
	}
	return translation.Mul4(rotation).Mul4(scale)
}

type Viewport struct {
	Width, Height int
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
