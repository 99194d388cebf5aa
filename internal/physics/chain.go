// Package physics integrates mass-spring chains.
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/pkg/math"
)

var (
	ErrInvalidInput       = errors.New("invalid chain input")
	ErrDegenerateGeometry = errors.New("coincident spring endpoints")
	ErrUnstable           = errors.New("chain integration diverged")
)

// Params are the physical constants shared by every point of a chain.
type Params struct {
	Mass      float32   `yaml:"mass"`
	Stiffness float32   `yaml:"stiffness"`
	Damping   float32   `yaml:"damping"`
	Gravity   math.Vec3 `yaml:"gravity"`
}

// DefaultParams returns m=0.01, K=5, mu=0.08 and g=(0,0,-9.81).
func DefaultParams() Params {
	return Params{
		Mass:      0.01,
		Stiffness: 5.0,
		Damping:   0.08,
		Gravity:   math.Vec3{Z: -9.81},
	}
}

// SpringForce is the force on p from a spring to q with rest length l0 and stiffness k.
func SpringForce(p, q math.Vec3, l0, k float32) (math.Vec3, error) {
	d := p.Sub(q)
	l := d.Length()
	if l == 0 {
		return math.Vec3{}, ErrDegenerateGeometry
	}
	return d.Scale(-k * (l - l0) / l), nil
}

// Chain is an ordered line of mass points. Points 0 and N-1 are anchors: Step
// never moves them, the caller places them with SetAnchor.
type Chain struct {
	Positions   []math.Vec3
	Velocities  []math.Vec3
	RestLengths []float32
	Params      Params

	nextPos []math.Vec3
	nextVel []math.Vec3
}

// NewChain copies the initial positions into a chain at rest (zero velocity).
// restLengths[i] is the rest length of the spring between point i and its successor.
func NewChain(positions []math.Vec3, restLengths []float32, p Params) (*Chain, error) {
	n := len(positions)
	if n < 3 {
		return nil, fmt.Errorf("%w: chain needs at least 3 points, got %d", ErrInvalidInput, n)
	}
	if len(restLengths) != n {
		return nil, fmt.Errorf("%w: %d rest lengths for %d points", ErrInvalidInput, len(restLengths), n)
	}
	if p.Mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidInput, p.Mass)
	}
	return &Chain{
		Positions:   append([]math.Vec3(nil), positions...),
		Velocities:  make([]math.Vec3, n),
		RestLengths: append([]float32(nil), restLengths...),
		Params:      p,
		nextPos:     make([]math.Vec3, n),
		nextVel:     make([]math.Vec3, n),
	}, nil
}

// Len returns the number of points.
func (c *Chain) Len() int {
	return len(c.Positions)
}

// SetAnchor places an endpoint. Only index 0 and Len()-1 are anchors.
func (c *Chain) SetAnchor(idx int, pos, vel math.Vec3) error {
	if idx != 0 && idx != len(c.Positions)-1 {
		return fmt.Errorf("%w: point %d is not an anchor", ErrInvalidInput, idx)
	}
	c.Positions[idx] = pos
	c.Velocities[idx] = vel
	return nil
}

// Step advances interior points by one semi-implicit Euler step of size dt.
// Positions advance with the velocity from before the step. All updates are
// written to scratch buffers and committed after the sweep. If any point would
// become non-finite Step returns ErrUnstable and commits nothing.
func (c *Chain) Step(dt float32) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidInput, dt)
	}

	p := c.Params
	weight := p.Gravity.Scale(p.Mass)
	n := len(c.Positions)

	for i := 1; i < n-1; i++ {
		pos := c.Positions[i]
		vel := c.Velocities[i]

		f := weight.Add(vel.Scale(-p.Damping))
		// A coincident neighbour contributes no force.
		if fs, err := SpringForce(pos, c.Positions[i-1], c.RestLengths[i-1], p.Stiffness); err == nil {
			f = f.Add(fs)
		}
		if fs, err := SpringForce(pos, c.Positions[i+1], c.RestLengths[i+1], p.Stiffness); err == nil {
			f = f.Add(fs)
		}

		c.nextVel[i] = vel.Add(f.Scale(dt / p.Mass))
		c.nextPos[i] = pos.Add(vel.Scale(dt))
		if !finite(c.nextVel[i]) || !finite(c.nextPos[i]) {
			return fmt.Errorf("%w: point %d at dt=%v", ErrUnstable, i, dt)
		}
	}

	copy(c.Velocities[1:n-1], c.nextVel[1:n-1])
	copy(c.Positions[1:n-1], c.nextPos[1:n-1])
	return nil
}

func finite(v math.Vec3) bool {
	for _, c := range v.Array() {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Advance runs substeps steps of dt/substeps each.
func (c *Chain) Advance(dt float32, substeps int) error {
	if substeps < 1 {
		return fmt.Errorf("%w: substeps must be >= 1, got %d", ErrInvalidInput, substeps)
	}
	h := dt / float32(substeps)
	for range substeps {
		if err := c.Step(h); err != nil {
			return err
		}
	}
	return nil
}

// Energy returns kinetic plus spring plus gravitational potential energy of the
// interior points. Gravity potential is measured against the origin and segment i
// is charged against RestLengths[i], which matches Step when rest lengths are uniform.
func (c *Chain) Energy() float32 {
	p := c.Params
	var e float32
	n := len(c.Positions)
	for i := 1; i < n-1; i++ {
		v := c.Velocities[i]
		e += 0.5 * p.Mass * v.Dot(v)
		e -= p.Mass * p.Gravity.Dot(c.Positions[i])
	}
	for i := 0; i < n-1; i++ {
		stretch := c.Positions[i].Distance(c.Positions[i+1]) - c.RestLengths[i]
		e += 0.5 * p.Stiffness * stretch * stretch
	}
	return e
}

// Segments returns consecutive point pairs for drawing.
func (c *Chain) Segments() [][2]math.Vec3 {
	segs := make([][2]math.Vec3, 0, len(c.Positions)-1)
	for i := 0; i+1 < len(c.Positions); i++ {
		segs = append(segs, [2]math.Vec3{c.Positions[i], c.Positions[i+1]})
	}
	return segs
}

// Points returns a copy of the current positions.
func (c *Chain) Points() []math.Vec3 {
	return append([]math.Vec3(nil), c.Positions...)
}
