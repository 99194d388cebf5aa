package terrain

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/scenekit/pkg/math"
)

// NewRand returns a deterministic PCG source for Scatter.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Scatter draws count points uniformly over [-side/2, side/2]^2 and lifts them onto hf.
func Scatter(rng *rand.Rand, count int, side float32, hf HeightField) ([]math.Vec3, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: scatter count must be >= 0, got %d", ErrInvalidInput, count)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}

	half := side / 2
	points := make([]math.Vec3, 0, count)
	for range count {
		x := uniform(rng, -half, half)
		y := uniform(rng, -half, half)
		points = append(points, math.Vec3{X: x, Y: y, Z: hf.Height(x, y)})
	}
	return points, nil
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}
