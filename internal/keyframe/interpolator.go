// Package keyframe interpolates a position through timed keyframes with a
// piecewise cubic Hermite spline and records the resulting trajectory.
package keyframe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/pkg/math"
)

var (
	ErrInvalidInput = errors.New("invalid keyframes")
	ErrOutOfDomain  = errors.New("time outside interpolation domain")
)

// MinKeyframes is the smallest set that leaves a non-empty domain: the first
// and last keys only shape the end tangents.
const MinKeyframes = 4

// Interpolator evaluates a cardinal spline (tension 0.5, i.e. Catmull-Rom)
// through positions at strictly increasing times.
type Interpolator struct {
	times     []float32
	positions []math.Vec3
}

// New validates and copies the keyframes.
func New(times []float32, positions []math.Vec3) (*Interpolator, error) {
	if len(times) != len(positions) {
		return nil, fmt.Errorf("%w: %d times for %d positions", ErrInvalidInput, len(times), len(positions))
	}
	if len(times) < MinKeyframes {
		return nil, fmt.Errorf("%w: need at least %d keyframes, got %d", ErrInvalidInput, MinKeyframes, len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w: times[%d]=%v does not follow %v", ErrInvalidInput, i, times[i], times[i-1])
		}
	}
	return &Interpolator{
		times:     append([]float32(nil), times...),
		positions: append([]math.Vec3(nil), positions...),
	}, nil
}

// Len returns the number of keyframes.
func (ip *Interpolator) Len() int {
	return len(ip.times)
}

// Domain returns the valid time range [times[1], times[N-2]].
func (ip *Interpolator) Domain() (lo, hi float32) {
	return ip.times[1], ip.times[len(ip.times)-2]
}

// Positions returns a copy of the keyframe positions.
func (ip *Interpolator) Positions() []math.Vec3 {
	return append([]math.Vec3(nil), ip.positions...)
}

// Evaluate returns the interpolated position at t.
func (ip *Interpolator) Evaluate(t float32) (math.Vec3, error) {
	lo, hi := ip.Domain()
	if !(t >= lo && t <= hi) {
		return math.Vec3{}, fmt.Errorf("%w: t=%v not in [%v, %v]", ErrOutOfDomain, t, lo, hi)
	}

	k := ip.segment(t)
	t0, t1 := ip.times[k], ip.times[k+1]
	p0, p1 := ip.positions[k], ip.positions[k+1]
	span := t1 - t0

	d0 := ip.positions[k+1].Sub(ip.positions[k-1]).Scale(span / (ip.times[k+1] - ip.times[k-1]))
	d1 := ip.positions[k+2].Sub(ip.positions[k]).Scale(span / (ip.times[k+2] - ip.times[k]))

	s := (t - t0) / span
	return hermite(p0, d0, p1, d1, s), nil
}

// segment returns the largest k with times[k] <= t, kept within [1, N-3] so the
// upper domain bound lands on the last segment at s=1.
func (ip *Interpolator) segment(t float32) int {
	// First index whose time exceeds t, minus one.
	k := sort.Search(len(ip.times), func(i int) bool { return ip.times[i] > t }) - 1
	return max(1, min(k, len(ip.times)-3))
}

func hermite(p0, d0, p1, d1 math.Vec3, s float32) math.Vec3 {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return p0.Scale(h00).Add(d0.Scale(h10)).Add(p1.Scale(h01)).Add(d1.Scale(h11))
}

// Loop wraps a monotonically increasing clock into [lo, hi).
func Loop(t, lo, hi float32) float32 {
	period := hi - lo
	if period <= 0 {
		return lo
	}
	r := math32.Mod(t-lo, period)
	if r < 0 {
		r += period
	}
	return lo + r
}
