package terrain

import (
	"github.com/Faultbox/scenekit/internal/mesh"
)

// Heightmap is a HeightField backed by the sampled heights of a tessellated grid.
// Lookups interpolate bilinearly between the four surrounding samples, so props
// and the spring chain can follow the rendered surface rather than the analytic one.
type Heightmap struct {
	Heights []float32 // row-major, index kv + N*ku
	N       int
	Side    float32
}

// BuildHeightmap captures the heights of a grid built by BuildGrid with the given side.
func BuildHeightmap(m *mesh.Mesh, side float32) (*Heightmap, error) {
	n, err := GridSize(m)
	if err != nil {
		return nil, err
	}
	heights := make([]float32, len(m.Positions))
	for i, p := range m.Positions {
		heights[i] = p.Z
	}
	return &Heightmap{Heights: heights, N: n, Side: side}, nil
}

// Height returns the interpolated surface height. Points outside the grid clamp to its edge.
func (h *Heightmap) Height(x, y float32) float32 {
	step := float32(h.N - 1)

	// Grid coordinates: row follows x, column follows y.
	fu := clampf((x/h.Side+0.5)*step, 0, step)
	fv := clampf((y/h.Side+0.5)*step, 0, step)

	ku := min(int(fu), h.N-2)
	kv := min(int(fv), h.N-2)

	fracU := fu - float32(ku)
	fracV := fv - float32(kv)

	h00 := h.Heights[kv+h.N*ku]
	h01 := h.Heights[kv+1+h.N*ku]
	h10 := h.Heights[kv+h.N*(ku+1)]
	h11 := h.Heights[kv+1+h.N*(ku+1)]

	low := h00*(1-fracV) + h01*fracV
	high := h10*(1-fracV) + h11*fracV
	return low*(1-fracU) + high*fracU
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
