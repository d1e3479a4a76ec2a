package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-lessons/config"
)

func testFrustum() Frustum {
	c := NewOrbitCamera(config.Default().Camera)
	return FrustumFromVP(c.GetViewProjectionMatrix())
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
		// The origin is what the camera looks at.
		assert.Greater(t, p.DistanceTo(mgl32.Vec3{}), float32(0), "plane %d", i)
	}
}

func TestAABBIntersectsFrustum(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"origin", AABB{mgl32.Vec3{-0.1, -0.1, -0.1}, mgl32.Vec3{0.1, 0.1, 0.1}}, true},
		{"behind camera", AABB{mgl32.Vec3{-0.1, 0.9, 4}, mgl32.Vec3{0.1, 1.1, 5}}, false},
		{"beyond far plane", AABB{mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}}, false},
		{"far to the side", AABB{mgl32.Vec3{40, 0, 0}, mgl32.Vec3{41, 1, 1}}, false},
		{"straddling the left plane", AABB{mgl32.Vec3{-50, -0.1, -0.1}, mgl32.Vec3{0, 0.1, 0.1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.IntersectsFrustum(&f))
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}}
	m := mgl32.Translate3D(5, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45))).Mul4(mgl32.Scale3D(2, 2, 2))

	got := box.Transform(m)

	r := float32(2 * 1.41421356)
	assert.True(t, got.Min.ApproxEqualThreshold(mgl32.Vec3{5 - r, -2, -r}, 1e-4), "min %v", got.Min)
	assert.True(t, got.Max.ApproxEqualThreshold(mgl32.Vec3{5 + r, 2, r}, 1e-4), "max %v", got.Max)
}

func TestMeshBounds(t *testing.T) {
	assert.Equal(t, AABB{mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}}, CreateCube().Bounds())
	assert.Equal(t, AABB{mgl32.Vec3{-10, 0, -10}, mgl32.Vec3{10, 0, 10}}, CreateTable().Bounds())
	assert.Equal(t, AABB{}, (&Mesh{}).Bounds())
}

func TestCull(t *testing.T) {
	f := testFrustum()
	bounds := CreateCube().Bounds()

	visible := NewSolid(mgl32.Vec3{0, 0.4, 0}, 0.4, 0, testGeometry)
	visible.Bounds = &bounds
	hidden := NewSolid(mgl32.Vec3{0, 1, 10}, 0.4, 0, testGeometry)
	hidden.Bounds = &bounds
	unbounded := NewSolid(mgl32.Vec3{0, 1, 10}, 1, 0, testGeometry)

	got := Cull([]*Solid{visible, hidden, unbounded}, &f)
	require.Len(t, got, 2)
	assert.Same(t, visible, got[0])
	assert.Same(t, unbounded, got[1])
}
