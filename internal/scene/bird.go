package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/internal/mesh/primitive"
	"github.com/Faultbox/scenekit/internal/scenegraph"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Bird node names.
const (
	NodeBody      = "body"
	NodeHead      = "head"
	NodeLeftWing  = "left wing"
	NodeRightWing = "right wing"
	NodeLeftTip   = "left wing tip"
	NodeRightTip  = "right wing tip"
)

// bird caches the node indices touched every tick.
type bird struct {
	cfg config.BirdConfig

	body      int
	leftWing  int
	rightWing int
	leftTip   int
	rightTip  int
}

// buildBird adds the articulated bird to g, rooted at NodeBody. Each wing is
// two panels: the inner one hinged on the body and the tip hinged on the inner
// panel's outer edge.
func buildBird(g *scenegraph.Graph, cfg config.BirdConfig) (*bird, error) {
	span := cfg.WingSpan
	leftWing := primitive.Quad(math.Vec3{X: -1}, math.Vec3{X: 1}, math.Vec3{X: 1, Y: span}, math.Vec3{X: -1, Y: span})
	rightWing := primitive.Quad(math.Vec3{X: -1}, math.Vec3{X: -1, Y: -span}, math.Vec3{X: 1, Y: -span}, math.Vec3{X: 1})
	tip := func() *mesh.Mesh {
		return primitive.Quad(math.Vec3{X: -1}, math.Vec3{X: 1}, math.Vec3{X: 0.5, Y: span / 2}, math.Vec3{X: -0.5, Y: span / 2})
	}
	// The right tip is the left one turned half a turn about X.
	rightTip := tip()
	rightTip.Rotate(math.QuatFromAxisAngle(math.UnitX, math32.Pi))

	parts := []struct {
		name   string
		geom   *mesh.Mesh
		parent string
		offset math.Vec3
	}{
		{NodeBody, primitive.Ellipsoid(cfg.BodyRadii, 20, 40), "", math.Vec3{}},
		{NodeHead, primitive.Sphere(cfg.HeadRadius), NodeBody, cfg.HeadOffset},
		{NodeLeftWing, leftWing, NodeBody, math.Vec3{Y: cfg.WingOffset}},
		{NodeRightWing, rightWing, NodeBody, math.Vec3{Y: -cfg.WingOffset}},
		{NodeLeftTip, tip(), NodeLeftWing, math.Vec3{Y: span}},
		{NodeRightTip, rightTip, NodeRightWing, math.Vec3{Y: -span}},
	}
	for _, p := range parts {
		if _, err := g.Add(p.name, p.geom, p.parent, p.offset); err != nil {
			return nil, err
		}
	}

	b := &bird{
		cfg:       cfg,
		body:      g.MustIndex(NodeBody),
		leftWing:  g.MustIndex(NodeLeftWing),
		rightWing: g.MustIndex(NodeRightWing),
		leftTip:   g.MustIndex(NodeLeftTip),
		rightTip:  g.MustIndex(NodeRightTip),
	}

	scale := cfg.Scale
	if err := g.SetLocalAt(b.body, scenegraph.TransformUpdate{Scale: &scale}); err != nil {
		return nil, err
	}
	return b, nil
}

// flapAngle is the wing angle about X at time t.
func (b *bird) flapAngle(t float32) float32 {
	return b.cfg.FlapAmplitude * math32.Cos(b.cfg.FlapFrequency*t)
}

// flap sets the wing rotations for time t. Left and right mirror each other.
func (b *bird) flap(g *scenegraph.Graph, t float32) error {
	a := b.flapAngle(t)
	up := math.QuatFromAxisAngle(math.UnitX, a)
	down := math.QuatFromAxisAngle(math.UnitX, -a)

	for _, u := range []struct {
		idx int
		rot *math.Quat
	}{
		{b.leftWing, &up},
		{b.leftTip, &up},
		{b.rightWing, &down},
		{b.rightTip, &down},
	} {
		if err := g.SetLocalAt(u.idx, scenegraph.TransformUpdate{Rotation: u.rot}); err != nil {
			return err
		}
	}
	return nil
}
