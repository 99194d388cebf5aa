package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/pkg/math"
)

// UVTiling is how many times the texture repeats across the grid.
const UVTiling = 5

// BuildGrid samples hf on an n x n grid covering [-side/2, side/2]^2 and returns the mesh.
// Vertex (row ku, col kv) lives at index kv + n*ku; each cell yields two triangles.
func BuildGrid(n int, side float32, hf HeightField) (*mesh.Mesh, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2 samples per side, got %d", ErrInvalidInput, n)
	}
	if side <= 0 {
		return nil, fmt.Errorf("%w: grid side must be positive, got %v", ErrInvalidInput, side)
	}

	m := &mesh.Mesh{
		Positions: make([]math.Vec3, n*n),
		UVs:       make([]math.Vec2, n*n),
		Triangles: make([][3]uint32, 0, 2*(n-1)*(n-1)),
	}

	step := float32(n - 1)
	for ku := 0; ku < n; ku++ {
		for kv := 0; kv < n; kv++ {
			u := float32(ku) / step
			v := float32(kv) / step

			x := (u - 0.5) * side
			y := (v - 0.5) * side

			idx := kv + n*ku
			m.Positions[idx] = math.Vec3{X: x, Y: y, Z: hf.Height(x, y)}
			m.UVs[idx] = math.Vec2{X: UVTiling * u, Y: UVTiling * v}
		}
	}

	stride := uint32(n)
	for ku := uint32(0); ku < stride-1; ku++ {
		for kv := uint32(0); kv < stride-1; kv++ {
			idx := kv + stride*ku
			m.Triangles = append(m.Triangles,
				[3]uint32{idx, idx + 1 + stride, idx + 1},
				[3]uint32{idx, idx + stride, idx + 1 + stride},
			)
		}
	}

	m.ComputeNormals()
	return m, nil
}

// GridSize returns n for a mesh with n*n vertices, or an error if it is not a square grid.
func GridSize(m *mesh.Mesh) (int, error) {
	count := m.VertexCount()
	n := int(math32.Sqrt(float32(count)) + 0.5)
	if n < 2 || n*n != count {
		return 0, fmt.Errorf("%w: %d vertices is not a square grid", ErrInvalidInput, count)
	}
	return n, nil
}

// Resample recomputes the height of every vertex of a grid built by BuildGrid from hf,
// keeping x, y and uv, then refreshes normals.
func Resample(m *mesh.Mesh, hf HeightField) error {
	if _, err := GridSize(m); err != nil {
		return err
	}
	for i, p := range m.Positions {
		m.Positions[i].Z = hf.Height(p.X, p.Y)
	}
	m.ComputeNormals()
	return nil
}
