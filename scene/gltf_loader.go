package scene

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF opens a .glb or .gltf file and returns the first triangle
// primitive that has positions as an XYZ + normal mesh. Missing normals
// default to +Y; missing indices are generated. Meshes that need more than
// uint16 indices are rejected.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if _, ok := prim.Attributes["POSITION"]; !ok {
				continue
			}
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh_%d", mi)
			}
			m, err := loadGLTFPrimitive(doc, fmt.Sprintf("%s_p%d", name, pi), prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q: mesh %d prim %d: %w", path, mi, pi, err)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("gltf %q: no triangle primitive with positions", path)
}

// loadGLTFPrimitive converts one glTF mesh primitive into a lit Mesh.
func loadGLTFPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*Mesh, error) {
	acr, err := accessor(doc, prim.Attributes["POSITION"])
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no vertices")
	}
	if len(positions) > math.MaxUint16 {
		return nil, fmt.Errorf("%d vertices exceed 16-bit indices", len(positions))
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		normals, err = modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	vertices := make([]float32, 0, len(positions)*6)
	for i, p := range positions {
		n := [3]float32{0, 1, 0}
		if i < len(normals) {
			n = normals[i]
		}
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	var indices []uint16
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		raw, err := modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices = make([]uint16, len(raw))
		for i, idx := range raw {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, len(positions))
			}
			indices[i] = uint16(idx)
		}
	} else {
		indices = make([]uint16, len(positions))
		for i := range indices {
			indices[i] = uint16(i)
		}
	}

	m := &Mesh{Name: name, Vertices: vertices, Stride: 6, Indices: indices}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// accessor looks up an accessor and checks that the buffer it reads from
// exists, since the document references are not validated on open.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	acr := doc.Accessors[idx]
	if acr.BufferView == nil {
		return acr, nil
	}
	view := *acr.BufferView
	if view < 0 || view >= len(doc.BufferViews) || doc.BufferViews[view] == nil {
		return nil, fmt.Errorf("accessor %d: buffer view %d out of range", idx, view)
	}
	if buf := doc.BufferViews[view].Buffer; buf < 0 || buf >= len(doc.Buffers) {
		return nil, fmt.Errorf("accessor %d: buffer %d out of range", idx, buf)
	}
	return acr, nil
}
