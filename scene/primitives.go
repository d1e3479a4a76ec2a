package scene

import (
	"math"
)

// ── Flat shapes (motion-and-color) ───────────────────────────────────────────

// Unit shapes centred on the origin, XY per vertex.
var (
	TrianglePositions = []float32{0, 1, -1, -1, 1, -1}
	SquarePositions   = []float32{-1, 1, -1, -1, 1, -1, -1, 1, 1, -1, 1, 1}
)

// Per-vertex RGB colours, uploaded as normalised bytes.
var (
	RGBTriangleColors = []uint8{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
	}
	FireyTriangleColors = []uint8{
		229, 47, 15,  // chili red
		246, 206, 29, // jonquil
		233, 154, 26, // gamboge
	}
	IndigoGradientSquareColors = []uint8{
		167, 153, 255, // tropical indigo (top)
		88, 62, 122,   // eminence (bottom)
		88, 62, 122,
		167, 153, 255,
		88, 62, 122,
		167, 153, 255,
	}
	GraySquareColors = []uint8{
		45, 45, 45,
		45, 45, 45,
		45, 45, 45,
		45, 45, 45,
		45, 45, 45,
		45, 45, 45,
	}
)

// CreateCircle builds a unit circle as a triangle fan unrolled into a
// triangle list: XY RGB interleaved, light blue centre and darker rim.
func CreateCircle(segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	vertices := make([]float32, 0, segments*3*5)
	for i := 0; i < segments; i++ {
		a1 := float64(i) * 2 * math.Pi / float64(segments)
		a2 := float64(i+1) * 2 * math.Pi / float64(segments)
		vertices = append(vertices,
			0, 0, 0.678, 0.851, 0.957,
			float32(math.Cos(a1)), float32(math.Sin(a1)), 0.251, 0.353, 0.856,
			float32(math.Cos(a2)), float32(math.Sin(a2)), 0.251, 0.353, 0.856,
		)
	}
	return &Mesh{Name: "circle", Vertices: vertices, Stride: 5}
}

// ── Solids ───────────────────────────────────────────────────────────────────

// cubeFaces lists the 24 corners of a 2x2x2 cube, four per face, with the
// face normal.
var cubeFaces = []struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},      // front
	{[3]float32{0, 0, -1}, [4][3]float32{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}}}, // back
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}}},      // top
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}}, // bottom
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},      // right
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}}, // left
}

func cubeIndices() []uint16 {
	indices := make([]uint16, 0, 36)
	for f := uint16(0); f < 6; f++ {
		base := f * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return indices
}

// CreateCube returns the XYZ RGB cube: red front and back, green top and
// bottom, blue left and right.
func CreateCube() *Mesh {
	vertices := make([]float32, 0, 24*6)
	for _, face := range cubeFaces {
		// The dominant axis of the normal picks the colour channel.
		color := [3]float32{abs(face.normal[2]), abs(face.normal[1]), abs(face.normal[0])}
		for _, c := range face.corners {
			vertices = append(vertices, c[0], c[1], c[2], color[0], color[1], color[2])
		}
	}
	return &Mesh{Name: "cube", Vertices: vertices, Stride: 6, Indices: cubeIndices()}
}

// CreateLitCube returns the same cube with XYZ and a face normal per vertex.
func CreateLitCube() *Mesh {
	vertices := make([]float32, 0, 24*6)
	for _, face := range cubeFaces {
		n := face.normal
		for _, c := range face.corners {
			vertices = append(vertices, c[0], c[1], c[2], n[0], n[1], n[2])
		}
	}
	return &Mesh{Name: "lit cube", Vertices: vertices, Stride: 6, Indices: cubeIndices()}
}

const tableExtent = 10

// CreateTable returns a dark grey 20x20 quad at y=0, XYZ RGB.
func CreateTable() *Mesh {
	const g = 0.2
	return &Mesh{
		Name: "table",
		Vertices: []float32{
			-tableExtent, 0, -tableExtent, g, g, g,
			-tableExtent, 0, tableExtent, g, g, g,
			tableExtent, 0, tableExtent, g, g, g,
			tableExtent, 0, -tableExtent, g, g, g,
		},
		Stride:  6,
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// CreateLitTable is the table quad with upward normals.
func CreateLitTable() *Mesh {
	return &Mesh{
		Name: "lit table",
		Vertices: []float32{
			-tableExtent, 0, -tableExtent, 0, 1, 0,
			-tableExtent, 0, tableExtent, 0, 1, 0,
			tableExtent, 0, tableExtent, 0, 1, 0,
			tableExtent, 0, -tableExtent, 0, 1, 0,
		},
		Stride:  6,
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// CreateSphere generates a unit UV-sphere, XYZ plus normal, wound
// counter-clockwise seen from outside.
func CreateSphere(segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	// uint16 indices cap the vertex count.
	for (rings+1)*(segments+1) > math.MaxUint16 {
		segments /= 2
		rings /= 2
	}

	vertices := make([]float32, 0, (rings+1)*(segments+1)*6)
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi, cosPhi := math.Sincos(phi)
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * math.Pi / float64(segments)
			sinTheta, cosTheta := math.Sincos(theta)
			x := float32(sinPhi * cosTheta)
			y := float32(cosPhi)
			z := float32(sinPhi * sinTheta)
			vertices = append(vertices, x, y, z, x, y, z)
		}
	}

	indices := make([]uint16, 0, rings*segments*6)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint16(ring*(segments+1) + seg)
			next := current + uint16(segments+1)
			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}
	return &Mesh{Name: "sphere", Vertices: vertices, Stride: 6, Indices: indices}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
