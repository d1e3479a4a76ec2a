package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection
// matrix (Gribb/Hartmann). The planes are normalized so DistanceTo returns
// a true distance in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0)) // left
	f.Planes[1] = normalizePlane(r3.Sub(r0)) // right
	f.Planes[2] = normalizePlane(r3.Add(r1)) // bottom
	f.Planes[3] = normalizePlane(r3.Sub(r1)) // top
	f.Planes[4] = normalizePlane(r3.Add(r2)) // near
	f.Planes[5] = normalizePlane(r3.Sub(r2)) // far
	return f
}

func normalizePlane(p mgl32.Vec4) Plane {
	n := p.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: p.W() / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Extend grows the box to contain p.
func (box AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		box.Min[i] = min(box.Min[i], p[i])
		box.Max[i] = max(box.Max[i], p[i])
	}
	return box
}

// Transform returns the world-space box enclosing the 8 transformed
// corners of box.
func (box AABB) Transform(m mgl32.Mat4) AABB {
	mn, mx := box.Min, box.Max
	corners := [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	first := mgl32.TransformCoordinate(corners[0], m)
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// Uses the "n-vertex" test: for each plane, check if the "positive vertex"
// (the corner most aligned with the plane normal) is on the outside.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		var pv mgl32.Vec3
		for i := 0; i < 3; i++ {
			pv[i] = box.Max[i]
			if p.Normal[i] < 0 {
				pv[i] = box.Min[i]
			}
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// Cull returns the solids whose world bounds touch the frustum. Solids
// without bounds are always kept.
func Cull(solids []*Solid, f *Frustum) []*Solid {
	out := make([]*Solid, 0, len(solids))
	for _, s := range solids {
		if s.Bounds == nil || s.Bounds.Transform(s.WorldTransform()).IntersectsFrustum(f) {
			out = append(out, s)
		}
	}
	return out
}
