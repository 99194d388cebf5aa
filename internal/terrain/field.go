// Package terrain provides procedural height fields, grid tessellation and prop scattering.
package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/noise"
)

// ErrInvalidInput is returned for malformed terrain parameters.
var ErrInvalidInput = errors.New("invalid terrain input")

// HeightField maps planar coordinates to elevation. Implementations must be pure.
type HeightField interface {
	Height(x, y float32) float32
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(x, y float32) float32

// Height calls f(x, y).
func (f HeightFunc) Height(x, y float32) float32 { return f(x, y) }

// Flat is the height field that is zero everywhere.
var Flat HeightField = HeightFunc(func(x, y float32) float32 { return 0 })

// Lobe is a radial Gaussian bump h * exp(-(|p - center| / sigma)^2).
type Lobe struct {
	Center math.Vec2 `yaml:"center"`
	Height float32   `yaml:"height"`
	Sigma  float32   `yaml:"sigma"`
}

// Eval returns the lobe's contribution at (x, y).
func (l Lobe) Eval(x, y float32) float32 {
	d := math.Vec2{X: x, Y: y}.Distance(l.Center) / l.Sigma
	return l.Height * math32.Exp(-d*d)
}

// DefaultLobes returns the four reference hills and hollows.
func DefaultLobes() []Lobe {
	return []Lobe{
		{Center: math.Vec2{X: -10, Y: -10}, Height: 3, Sigma: 10},
		{Center: math.Vec2{X: 5, Y: 5}, Height: -1.5, Sigma: 3},
		{Center: math.Vec2{X: -3, Y: 4}, Height: 1, Sigma: 4},
		{Center: math.Vec2{X: 6, Y: 4}, Height: 2, Sigma: 4},
	}
}

// NoiseParams configures the fractal noise displacement.
type NoiseParams struct {
	Persistency   float32 `yaml:"persistency"`
	FrequencyGain float32 `yaml:"frequency_gain"`
	Octaves       int     `yaml:"octaves"`
	Height        float32 `yaml:"height"`
}

// DefaultNoiseParams returns persistency 0.35, gain 2, 6 octaves, height 3.
func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		Persistency:   0.35,
		FrequencyGain: 2.0,
		Octaves:       6,
		Height:        3.0,
	}
}

// Validate checks octaves >= 1 and persistency in (0, 1).
func (p NoiseParams) Validate() error {
	if p.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidInput, p.Octaves)
	}
	if p.Persistency <= 0 || p.Persistency >= 1 {
		return fmt.Errorf("%w: persistency must be in (0,1), got %v", ErrInvalidInput, p.Persistency)
	}
	return nil
}

// Field is the reference terrain: a sum of Gaussian lobes plus fractal noise
// sampled in coordinates normalized by the terrain side length.
type Field struct {
	Lobes  []Lobe
	Noise  NoiseParams
	Length float32
	Source *noise.Generator
}

// NewField validates params and builds a field over a square of side length.
func NewField(lobes []Lobe, params NoiseParams, length float32, src *noise.Generator) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: terrain length must be positive, got %v", ErrInvalidInput, length)
	}
	for i, l := range lobes {
		if l.Sigma <= 0 {
			return nil, fmt.Errorf("%w: lobe %d has non-positive sigma %v", ErrInvalidInput, i, l.Sigma)
		}
	}
	if src == nil {
		src = noise.Default()
	}
	return &Field{
		Lobes:  lobes,
		Noise:  params,
		Length: length,
		Source: src,
	}, nil
}

// Height evaluates the field at (x, y).
func (f *Field) Height(x, y float32) float32 {
	var z float32
	for _, l := range f.Lobes {
		z += l.Eval(x, y)
	}
	if f.Noise.Height != 0 {
		u := x/f.Length + 0.5
		v := y/f.Length + 0.5
		z += f.Noise.Height * f.Source.Fractal(u, v, f.Noise.Octaves, f.Noise.Persistency, f.Noise.FrequencyGain)
	}
	return z
}
