// Package scene drives the simulation: it builds the terrain, props, bird and
// spring chain from a config and advances them once per Tick.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/keyframe"
	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/internal/mesh/primitive"
	"github.com/Faultbox/scenekit/internal/physics"
	"github.com/Faultbox/scenekit/internal/scenegraph"
	"github.com/Faultbox/scenekit/internal/terrain"
	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/noise"
)

// Mesh names passed to Renderer.UploadMesh.
const (
	MeshTerrain = "terrain"
	MeshTree    = "tree"
	MeshGrass   = "grass"
)

// Scene owns every simulated object. It is driven by one goroutine.
type Scene struct {
	cfg      *config.Config
	log      *zap.Logger
	renderer Renderer

	Field      *terrain.Field
	Terrain    *mesh.Mesh
	Ground     *terrain.Heightmap
	Trees      []math.Vec3
	Grass      []math.Vec3
	Graph      *scenegraph.Graph
	Chain      *physics.Chain
	Path       *keyframe.Interpolator
	Trajectory *keyframe.Trace

	bird     *bird
	lastLoop float32
	started  bool
	laps     int
}

// New builds the scene described by cfg and uploads its static geometry to r.
// Construction stops at the first error.
func New(cfg *config.Config, r Renderer, log *zap.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		cfg:        cfg,
		log:        log.Named("scene"),
		renderer:   r,
		Trajectory: keyframe.NewTrace(cfg.Animation.TraceLimit),
	}

	if err := s.buildTerrain(); err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	if err := s.scatterProps(); err != nil {
		return nil, fmt.Errorf("scattering props: %w", err)
	}

	path, err := keyframe.New(cfg.Animation.Times, cfg.Animation.Positions)
	if err != nil {
		return nil, fmt.Errorf("building flight path: %w", err)
	}
	s.Path = path

	s.Graph = scenegraph.New()
	if s.bird, err = buildBird(s.Graph, cfg.Bird); err != nil {
		return nil, fmt.Errorf("building bird: %w", err)
	}

	if err := s.buildChain(); err != nil {
		return nil, fmt.Errorf("building chain: %w", err)
	}

	s.log.Info("scene ready",
		zap.Int("terrainVertices", s.Terrain.VertexCount()),
		zap.Int("trees", len(s.Trees)),
		zap.Int("grass", len(s.Grass)),
		zap.Int("nodes", s.Graph.Len()),
		zap.Int("chainPoints", s.Chain.Len()),
	)
	return s, nil
}

func (s *Scene) buildTerrain() error {
	tc := s.cfg.Terrain
	field, err := terrain.NewField(tc.Lobes, tc.Noise, tc.Length, noise.New(tc.NoiseSeed))
	if err != nil {
		return err
	}
	s.Field = field

	grid, err := terrain.BuildGrid(tc.Samples, tc.Length, field)
	if err != nil {
		return err
	}
	s.Terrain = grid

	if s.Ground, err = terrain.BuildHeightmap(grid, tc.Length); err != nil {
		return err
	}
	return s.renderer.UploadMesh(MeshTerrain, grid)
}

func (s *Scene) scatterProps() error {
	sc := s.cfg.Scatter
	side := s.cfg.Terrain.Length
	rng := terrain.NewRand(sc.Seed)

	var err error
	if s.Trees, err = terrain.Scatter(rng, sc.Trees, side, s.Field); err != nil {
		return err
	}
	if s.Grass, err = terrain.Scatter(rng, sc.Grass, side, s.Field); err != nil {
		return err
	}

	for _, u := range []struct {
		name string
		m    *mesh.Mesh
		at   []math.Vec3
	}{
		{MeshTree, primitive.DefaultTree(), s.Trees},
		{MeshGrass, primitive.Billboard(), s.Grass},
	} {
		if err := s.renderer.UploadMesh(u.name, u.m); err != nil {
			return err
		}
		if err := s.renderer.PlaceInstances(u.name, u.at); err != nil {
			return err
		}
	}
	return nil
}

// buildChain lays the chain out from the start of the flight path with the far
// anchor at the configured tail position.
func (s *Scene) buildChain() error {
	cc := s.cfg.Chain
	lo, _ := s.Path.Domain()
	start, err := s.Path.Evaluate(lo)
	if err != nil {
		return err
	}

	n := cc.Points
	positions := make([]math.Vec3, n)
	rest := make([]float32, n)
	for i := range n - 1 {
		positions[i] = start.Add(math.Vec3{Y: float32(i) * cc.Spacing})
		rest[i] = cc.RestLength
	}
	positions[n-1] = cc.Tail
	rest[n-1] = cc.RestLength

	s.Chain, err = physics.NewChain(positions, rest, cc.Physics)
	return err
}

// Tick advances the scene to time t (seconds since start) and issues this
// frame's draw calls.
func (s *Scene) Tick(t float32) error {
	lo, hi := s.Path.Domain()
	looped := keyframe.Loop(t, lo, hi)
	if s.started && looped < s.lastLoop {
		s.laps++
		s.Trajectory.Clear()
		s.log.Debug("flight path restarted", zap.Int("lap", s.laps), zap.Float32("t", t))
	}
	s.lastLoop = looped
	s.started = true

	pos, err := s.Path.Evaluate(looped)
	if err != nil {
		return err
	}
	s.Trajectory.Append(pos)

	if err := s.Graph.SetLocalAt(s.bird.body, scenegraph.TransformUpdate{Translation: &pos}); err != nil {
		return err
	}
	if err := s.bird.flap(s.Graph, t); err != nil {
		return err
	}
	s.Graph.Propagate()

	body, err := s.Graph.GlobalAt(s.bird.body)
	if err != nil {
		return err
	}
	if err := s.Chain.SetAnchor(0, body.Translation, math.Vec3{}); err != nil {
		return err
	}

	cc := s.cfg.Chain
	if err := s.Chain.Advance(cc.SubstepDt*float32(cc.Substeps), cc.Substeps); err != nil {
		return err
	}
	if cc.ClampToGround {
		physics.ClampToHeight(s.Chain.Positions, s.Ground)
	}

	nodes, err := s.Graph.Nodes()
	if err != nil {
		return err
	}
	if err := s.renderer.UpdateNodes(nodes); err != nil {
		return err
	}
	if err := s.renderer.DrawChain(s.Chain.Points(), s.Chain.Segments()); err != nil {
		return err
	}
	return s.renderer.DrawTrajectory(s.Trajectory.Points())
}

// Laps returns how many times the flight path has wrapped around.
func (s *Scene) Laps() int {
	return s.laps
}
