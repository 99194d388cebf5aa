// Package noise provides seeded coherent noise for procedural terrain.
package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// DefaultSeed is the seed used by Default.
const DefaultSeed = 0

// Generator is a seeded 2D coherent noise source. The zero value is not usable; call New.
// A Generator is read-only after construction and safe for concurrent use.
type Generator struct {
	sim interface {
		Eval2(x, y float64) float64
	}
}

// New builds a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{sim: opensimplex.New(int64(seed))}
}

var defaultGenerator = New(DefaultSeed)

// Default returns the shared generator seeded with DefaultSeed.
func Default() *Generator {
	return defaultGenerator
}

// Noise2 evaluates simplex noise at (x, y). The result is continuous and
// roughly within [-1, 1].
func (g *Generator) Noise2(x, y float32) float32 {
	return float32(g.sim.Eval2(float64(x), float64(y)))
}

// Fractal sums octaves of noise. Octave k has amplitude persistency^k and frequency gain^k.
// octaves below 1 are treated as 1.
func (g *Generator) Fractal(x, y float32, octaves int, persistency, gain float32) float32 {
	if octaves < 1 {
		octaves = 1
	}
	var sum float32
	amplitude := float32(1)
	frequency := float32(1)
	for k := 0; k < octaves; k++ {
		sum += amplitude * g.Noise2(x*frequency, y*frequency)
		amplitude *= persistency
		frequency *= gain
	}
	return sum
}
