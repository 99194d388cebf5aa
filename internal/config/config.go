// Package config handles scene configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/internal/keyframe"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/internal/physics"
	"github.com/Faultbox/scenekit/internal/terrain"
	"github.com/Faultbox/scenekit/pkg/math"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all scene settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Scatter   ScatterConfig   `yaml:"scatter"`
	Chain     ChainConfig     `yaml:"chain"`
	Animation AnimationConfig `yaml:"animation"`
	Bird      BirdConfig      `yaml:"bird"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig describes the height field and its tessellation.
type TerrainConfig struct {
	Samples   int                 `yaml:"samples"` // grid vertices per side
	Length    float32             `yaml:"length"`  // side of the square terrain
	NoiseSeed uint64              `yaml:"noise_seed"`
	Noise     terrain.NoiseParams `yaml:"noise"`
	Lobes     []terrain.Lobe      `yaml:"lobes"`
}

// ScatterConfig controls prop placement on the terrain.
type ScatterConfig struct {
	Seed  uint64 `yaml:"seed"`
	Trees int    `yaml:"trees"`
	Grass int    `yaml:"grass"`
}

// MaxSubstepDt bounds chain.substep_dt. Substeps of 0.05s diverge at the
// default mass and stiffness.
const MaxSubstepDt = 0.01

// ChainConfig describes the spring chain hanging from the bird.
type ChainConfig struct {
	Points        int            `yaml:"points"`  // including both anchors
	Spacing       float32        `yaml:"spacing"` // initial distance between interior points
	RestLength    float32        `yaml:"rest_length"`
	Tail          math.Vec3      `yaml:"tail"`       // world position of the far anchor
	Substeps      int            `yaml:"substeps"`   // integration steps per tick
	SubstepDt     float32        `yaml:"substep_dt"` // seconds per substep
	ClampToGround bool           `yaml:"clamp_to_ground"`
	Physics       physics.Params `yaml:"physics"`
}

// AnimationConfig holds the bird's flight path.
type AnimationConfig struct {
	Times      []float32   `yaml:"times"`
	Positions  []math.Vec3 `yaml:"positions"`
	TraceLimit int         `yaml:"trace_limit"` // 0 keeps the whole lap
}

// BirdConfig sizes the articulated bird.
type BirdConfig struct {
	Scale         float32   `yaml:"scale"`
	BodyRadii     math.Vec3 `yaml:"body_radii"`
	HeadRadius    float32   `yaml:"head_radius"`
	HeadOffset    math.Vec3 `yaml:"head_offset"`
	WingOffset    float32   `yaml:"wing_offset"` // lateral distance of the wing roots
	WingSpan      float32   `yaml:"wing_span"`   // length of the inner wing
	FlapAmplitude float32   `yaml:"flap_amplitude"`
	FlapFrequency float32   `yaml:"flap_frequency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config reproducing the reference scene.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Samples: 1000,
			Length:  20,
			Noise:   terrain.DefaultNoiseParams(),
			Lobes:   terrain.DefaultLobes(),
		},
		Scatter: ScatterConfig{
			Seed:  1,
			Trees: 30,
			Grass: 50,
		},
		Chain: ChainConfig{
			Points:        11,
			Spacing:       0.01,
			RestLength:    0.3,
			Tail:          math.Vec3{Y: 2},
			Substeps:      10,
			SubstepDt:     0.001,
			ClampToGround: true,
			Physics:       physics.DefaultParams(),
		},
		Animation: AnimationConfig{
			Times: []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			Positions: []math.Vec3{
				{X: -3, Y: 3, Z: 6},
				{X: 0, Y: 3, Z: 6},
				{X: 3, Y: 3, Z: 6},
				{X: 3, Y: 6, Z: 6},
				{X: 6, Y: 6, Z: 6},
				{X: 6, Y: 6, Z: 8},
				{X: 6, Y: 0, Z: 8.5},
				{X: 4.5, Y: -3, Z: 7},
				{X: 4.5, Y: -3, Z: 6},
				{X: 3, Y: -3, Z: 6},
				{X: 0, Y: -1.5, Z: 6},
				{X: -3, Y: -1.5, Z: 6},
			},
		},
		Bird: BirdConfig{
			Scale:         0.25,
			BodyRadii:     math.Vec3{X: 2, Y: 1, Z: 1},
			HeadRadius:    0.8,
			HeadOffset:    math.Vec3{X: 2, Z: 0.5},
			WingOffset:    0.2,
			WingSpan:      2,
			FlapAmplitude: math32.Pi / 4,
			FlapFrequency: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.Samples < 2 {
		return fmt.Errorf("%w: terrain.samples must be >= 2, got %d", ErrInvalid, t.Samples)
	}
	if t.Length <= 0 {
		return fmt.Errorf("%w: terrain.length must be positive, got %v", ErrInvalid, t.Length)
	}
	if err := t.Noise.Validate(); err != nil {
		return fmt.Errorf("%w: terrain.noise: %w", ErrInvalid, err)
	}
	for i, l := range t.Lobes {
		if l.Sigma <= 0 {
			return fmt.Errorf("%w: terrain.lobes[%d].sigma must be positive", ErrInvalid, i)
		}
	}

	if c.Scatter.Trees < 0 || c.Scatter.Grass < 0 {
		return fmt.Errorf("%w: scatter counts must be >= 0", ErrInvalid)
	}

	ch := c.Chain
	if ch.Points < 3 {
		return fmt.Errorf("%w: chain.points must be >= 3, got %d", ErrInvalid, ch.Points)
	}
	if ch.Substeps < 1 || ch.SubstepDt <= 0 {
		return fmt.Errorf("%w: chain needs substeps >= 1 and substep_dt > 0", ErrInvalid)
	}
	if ch.SubstepDt > MaxSubstepDt {
		return fmt.Errorf("%w: chain.substep_dt %v exceeds %v", ErrInvalid, ch.SubstepDt, MaxSubstepDt)
	}
	if ch.Physics.Mass <= 0 {
		return fmt.Errorf("%w: chain.physics.mass must be positive", ErrInvalid)
	}

	if _, err := keyframe.New(c.Animation.Times, c.Animation.Positions); err != nil {
		return fmt.Errorf("%w: animation: %w", ErrInvalid, err)
	}

	if c.Bird.Scale <= 0 {
		return fmt.Errorf("%w: bird.scale must be positive", ErrInvalid)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging: %w", ErrInvalid, err)
	}
	return nil
}
