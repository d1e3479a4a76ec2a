package scene

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quadPositions = [][3]float32{{-1, 0, -1}, {-1, 0, 1}, {1, 0, 1}, {1, 0, -1}}

// writeGLB saves a document with the given primitives to a temp .glb.
func writeGLB(t *testing.T, build func(doc *gltf.Document) []*gltf.Primitive) string {
	t.Helper()
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "quad", Primitives: build(doc)})
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTFIndexedWithNormals(t *testing.T) {
	path := writeGLB(t, func(doc *gltf.Document) []*gltf.Primitive {
		normals := [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
		return []*gltf.Primitive{{
			Mode: gltf.PrimitiveTriangles,
			Attributes: map[string]int{
				"POSITION": modeler.WritePosition(doc, quadPositions),
				"NORMAL":   modeler.WriteNormal(doc, normals),
			},
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})),
		}}
	})

	m, err := LoadGLTF(path)
	require.NoError(t, err)

	assert.Equal(t, "quad_p0", m.Name)
	assert.Equal(t, 6, m.Stride)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, []float32{-1, 0, -1, 0, 1, 0}, m.Vertices[:6])
}

func TestLoadGLTFGeneratesIndicesAndNormals(t *testing.T) {
	path := writeGLB(t, func(doc *gltf.Document) []*gltf.Primitive {
		return []*gltf.Primitive{
			{
				Mode:       gltf.PrimitiveLines,
				Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, quadPositions[:2])},
			},
			{
				Mode:       gltf.PrimitiveTriangles,
				Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, quadPositions[:3])},
			},
		}
	})

	m, err := LoadGLTF(path)
	require.NoError(t, err)

	assert.Equal(t, "quad_p1", m.Name, "line primitives are skipped")
	assert.Equal(t, []uint16{0, 1, 2}, m.Indices)
	for i := 0; i < m.VertexCount(); i++ {
		assert.Equal(t, []float32{0, 1, 0}, m.Vertices[i*6+3:i*6+6])
	}
}

func TestLoadGLTFRejectsBadIndices(t *testing.T) {
	path := writeGLB(t, func(doc *gltf.Document) []*gltf.Primitive {
		return []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, quadPositions[:3])},
			Indices:    gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 7})),
		}}
	})

	_, err := LoadGLTF(path)
	assert.ErrorContains(t, err, "index 7 at 2 out of range")
}

func TestLoadGLTFRejectsDanglingAccessors(t *testing.T) {
	tests := []struct {
		name  string
		build func(doc *gltf.Document) []*gltf.Primitive
		want  string
	}{
		{
			"position",
			func(doc *gltf.Document) []*gltf.Primitive {
				return []*gltf.Primitive{{Mode: gltf.PrimitiveTriangles, Attributes: map[string]int{"POSITION": 5}}}
			},
			"positions: accessor 5 out of range (0 accessors)",
		},
		{
			"normal",
			func(doc *gltf.Document) []*gltf.Primitive {
				return []*gltf.Primitive{{
					Mode: gltf.PrimitiveTriangles,
					Attributes: map[string]int{
						"POSITION": modeler.WritePosition(doc, quadPositions[:3]),
						"NORMAL":   9,
					},
				}}
			},
			"normals: accessor 9 out of range",
		},
		{
			"indices",
			func(doc *gltf.Document) []*gltf.Primitive {
				return []*gltf.Primitive{{
					Mode:       gltf.PrimitiveTriangles,
					Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, quadPositions[:3])},
					Indices:    gltf.Index(3),
				}}
			},
			"indices: accessor 3 out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "broken", Primitives: tt.build(doc)})
			path := filepath.Join(t.TempDir(), "broken.glb")
			require.NoError(t, gltf.SaveBinary(doc, path))

			var err error
			require.NotPanics(t, func() { _, err = LoadGLTF(path) })
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadGLTFNoTriangles(t *testing.T) {
	path := writeGLB(t, func(doc *gltf.Document) []*gltf.Primitive {
		return []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, quadPositions)},
		}}
	})

	_, err := LoadGLTF(path)
	assert.ErrorContains(t, err, "no triangle primitive")
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb"))
	assert.ErrorContains(t, err, "gltf open")
}
