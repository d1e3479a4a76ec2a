package scene

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objVertex is one face corner: 0-based position and normal indices
// (-1 = absent).
type objVertex struct{ v, vn int }

// LoadOBJ parses a Wavefront .obj file into a single XYZ + normal mesh.
// Every object and group is merged; polygons are fan-triangulated and
// corners sharing a position/normal pair are deduplicated. If any corner
// lacks a normal, the whole mesh gets area-weighted smooth normals.
// Materials and texture coordinates are ignored.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		corners   []objVertex
	)

	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj %q:%d: %s needs 3 components", path, lineNo, fields[0])
			}
			var p mgl32.Vec3
			for i := range p {
				x, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("obj %q:%d: %w", path, lineNo, err)
				}
				p[i] = float32(x)
			}
			if fields[0] == "v" {
				positions = append(positions, p)
			} else {
				normals = append(normals, p)
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			face := make([]objVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj %q:%d: %w", path, lineNo, err)
				}
				face = append(face, fv)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj %q: %w", path, err)
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("no faces found in %q", path)
	}

	m, err := buildMeshFromOBJ(path, corners, positions, normals)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return m, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices
// are 1-based; negative ones count back from the latest element.
func parseFaceVertex(tok string, nPos, nNorm int) (objVertex, error) {
	resolve := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("bad face index %q", s)
		}
		if i < 0 {
			i = n + i + 1
		}
		if i < 1 || i > n {
			return 0, fmt.Errorf("face index %s out of range (%d defined)", s, n)
		}
		return i - 1, nil
	}

	parts := strings.Split(tok, "/")
	v, err := resolve(parts[0], nPos)
	if err != nil {
		return objVertex{}, err
	}
	if v < 0 {
		return objVertex{}, fmt.Errorf("face vertex %q has no position", tok)
	}
	fv := objVertex{v: v, vn: -1}
	if len(parts) > 2 {
		if fv.vn, err = resolve(parts[2], nNorm); err != nil {
			return objVertex{}, err
		}
	}
	return fv, nil
}

func buildMeshFromOBJ(name string, corners []objVertex, positions, normals []mgl32.Vec3) (*Mesh, error) {
	index := map[objVertex]uint16{}
	var (
		verts   []mgl32.Vec3
		norms   []mgl32.Vec3
		indices = make([]uint16, 0, len(corners))
	)
	hasNormals := true

	for _, c := range corners {
		if idx, ok := index[c]; ok {
			indices = append(indices, idx)
			continue
		}
		if len(verts) > math.MaxUint16 {
			return nil, fmt.Errorf("more than %d vertices exceed 16-bit indices", math.MaxUint16)
		}
		idx := uint16(len(verts))
		index[c] = idx
		verts = append(verts, positions[c.v])
		if c.vn >= 0 {
			norms = append(norms, normals[c.vn])
		} else {
			norms = append(norms, mgl32.Vec3{})
			hasNormals = false
		}
		indices = append(indices, idx)
	}

	if !hasNormals {
		generateSmoothNormals(verts, norms, indices)
	}

	vertices := make([]float32, 0, len(verts)*6)
	for i, p := range verts {
		n := norms[i]
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	m := &Mesh{Name: name, Vertices: vertices, Stride: 6, Indices: indices}
	return m, m.Validate()
}

// generateSmoothNormals overwrites norms with area-weighted vertex normals.
func generateSmoothNormals(verts, norms []mgl32.Vec3, indices []uint16) {
	accum := make([]mgl32.Vec3, len(verts))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		n := verts[i1].Sub(verts[i0]).Cross(verts[i2].Sub(verts[i0]))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i, n := range accum {
		if n.Len() > 0 {
			norms[i] = n.Normalize()
		} else {
			norms[i] = mgl32.Vec3{0, 1, 0}
		}
	}
}
