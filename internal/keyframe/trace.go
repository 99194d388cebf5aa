package keyframe

import "github.com/Faultbox/scenekit/pkg/math"

// Trace is an append-only record of visited positions. A positive Max bounds it,
// dropping the oldest points first.
type Trace struct {
	Max    int
	points []math.Vec3
}

// NewTrace returns a trace keeping at most limit points (0 means unbounded).
func NewTrace(limit int) *Trace {
	return &Trace{Max: limit}
}

// Append records p.
func (tr *Trace) Append(p math.Vec3) {
	tr.points = append(tr.points, p)
	if tr.Max > 0 && len(tr.points) > tr.Max {
		drop := len(tr.points) - tr.Max
		tr.points = append(tr.points[:0], tr.points[drop:]...)
	}
}

// Points returns the recorded positions, oldest first. The slice is only valid
// until the next Append or Clear.
func (tr *Trace) Points() []math.Vec3 {
	return tr.points
}

// Len returns the number of recorded positions.
func (tr *Trace) Len() int {
	return len(tr.points)
}

// Clear forgets every point but keeps the allocation.
func (tr *Trace) Clear() {
	tr.points = tr.points[:0]
}
