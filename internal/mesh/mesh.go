// Package mesh holds CPU-side triangle meshes produced by the procedural generators.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

var (
	ErrIndexOutOfRange = errors.New("triangle index out of range")
	ErrAttributeCount  = errors.New("attribute count does not match vertex count")
)

// Mesh holds vertex attributes and triangle connectivity ready for upload by a renderer.
// UVs and Normals are either empty or have one entry per position.
type Mesh struct {
	Positions []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3
	Triangles [][3]uint32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Validate checks attribute lengths and that every triangle index refers to a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.UVs) != 0 && len(m.UVs) != n {
		return fmt.Errorf("%w: %d uvs for %d positions", ErrAttributeCount, len(m.UVs), n)
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d positions", ErrAttributeCount, len(m.Normals), n)
	}
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if int(idx) >= n {
				return fmt.Errorf("%w: triangle %d uses %d, mesh has %d vertices", ErrIndexOutOfRange, i, idx, n)
			}
		}
	}
	return nil
}

// ComputeNormals recomputes per-vertex normals as the area-weighted average of
// the normals of adjacent triangles. Isolated vertices get +Z.
func (m *Mesh) ComputeNormals() {
	if cap(m.Normals) >= len(m.Positions) {
		m.Normals = m.Normals[:len(m.Positions)]
		clear(m.Normals)
	} else {
		m.Normals = make([]math.Vec3, len(m.Positions))
	}

	for _, tri := range m.Triangles {
		p0 := m.Positions[tri[0]]
		e1 := m.Positions[tri[1]].Sub(p0)
		e2 := m.Positions[tri[2]].Sub(p0)
		// Unnormalized cross product: its length is twice the triangle area.
		n := e1.Cross(e2)
		for _, idx := range tri {
			m.Normals[idx] = m.Normals[idx].Add(n)
		}
	}

	for i, n := range m.Normals {
		if n.Length() < 1e-12 {
			m.Normals[i] = math.UnitZ
			continue
		}
		m.Normals[i] = n.Normalize()
	}
}

// Translate moves every position by offset.
func (m *Mesh) Translate(offset math.Vec3) {
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Add(offset)
	}
}

// Rotate rotates positions and normals about the origin.
func (m *Mesh) Rotate(q math.Quat) {
	for i := range m.Positions {
		m.Positions[i] = q.Rotate(m.Positions[i])
	}
	for i := range m.Normals {
		m.Normals[i] = q.Rotate(m.Normals[i])
	}
}

// Append merges other into m, re-basing its triangle indices. Missing UVs or
// normals on either side are filled with zero values so attribute lengths stay equal.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Positions))
	hadUVs := len(m.UVs) > 0 || len(other.UVs) > 0
	hadNormals := len(m.Normals) > 0 || len(other.Normals) > 0

	if hadUVs {
		m.UVs = padVec2(m.UVs, len(m.Positions))
		m.UVs = append(m.UVs, padVec2(other.UVs, len(other.Positions))...)
	}
	if hadNormals {
		m.Normals = padVec3(m.Normals, len(m.Positions))
		m.Normals = append(m.Normals, padVec3(other.Normals, len(other.Positions))...)
	}
	m.Positions = append(m.Positions, other.Positions...)

	for _, tri := range other.Triangles {
		m.Triangles = append(m.Triangles, [3]uint32{tri[0] + base, tri[1] + base, tri[2] + base})
	}
}

// Bounds returns the bounding box of all positions. An empty mesh has zero bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		updateBounds(&b, p)
	}
	return b
}

func updateBounds(b *Bounds, p math.Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

func padVec2(s []math.Vec2, n int) []math.Vec2 {
	for len(s) < n {
		s = append(s, math.Vec2{})
	}
	return s
}

func padVec3(s []math.Vec3, n int) []math.Vec3 {
	for len(s) < n {
		s = append(s, math.Vec3{})
	}
	return s
}
