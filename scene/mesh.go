package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/gpu"
)

// Mesh holds CPU-side interleaved float vertices and optional uint16
// indices. Upload turns it into a drawable binding.
type Mesh struct {
	Name     string
	Vertices []float32
	Stride   int // floats per vertex
	Indices  []uint16
}

func (m *Mesh) VertexCount() int {
	if m.Stride <= 0 {
		return 0
	}
	return len(m.Vertices) / m.Stride
}

// Count is the number of elements a draw call covers.
func (m *Mesh) Count() int {
	if len(m.Indices) > 0 {
		return len(m.Indices)
	}
	return m.VertexCount()
}

// Validate checks that the vertex data divides into whole vertices and
// that every index points at one.
func (m *Mesh) Validate() error {
	if m.Stride <= 0 || len(m.Vertices) == 0 || len(m.Vertices)%m.Stride != 0 {
		return fmt.Errorf("mesh %q: %d floats do not form vertices of stride %d", m.Name, len(m.Vertices), m.Stride)
	}
	n := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices)", m.Name, idx, i, n)
		}
	}
	return nil
}

// Upload creates the vertex buffer (and index buffer, if any) and binds
// them with slots. Slot strides and offsets are in bytes.
func (m *Mesh) Upload(b *gpu.Builder, slots ...gpu.AttribSlot) (*gpu.Binding, error) {
	vertices, err := b.CreateBuffer(gpu.Bytes(m.Vertices))
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	var indices gpu.Buffer
	if len(m.Indices) > 0 {
		indices, err = b.CreateIndexBuffer(m.Indices)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	binding, err := b.Bind(vertices, indices, slots, m.Count())
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	return binding, nil
}

// LoadModel picks a loader by file extension: .obj, or .gltf/.glb.
func LoadModel(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("model %q: unsupported format %q", path, ext)
	}
}

// Bounds returns the local axis-aligned box of the mesh positions, taken
// from the first three floats of every vertex.
func (m *Mesh) Bounds() AABB {
	n := m.VertexCount()
	if n == 0 || m.Stride < 3 {
		return AABB{}
	}
	first := mgl32.Vec3{m.Vertices[0], m.Vertices[1], m.Vertices[2]}
	box := AABB{Min: first, Max: first}
	for i := 1; i < n; i++ {
		v := m.Vertices[i*m.Stride:]
		box = box.Extend(mgl32.Vec3{v[0], v[1], v[2]})
	}
	return box
}
