package scene

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/internal/scenegraph"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Renderer is the drawing backend. The scene uploads static geometry once in
// New and then calls the per-frame methods from every Tick, in this order:
// UpdateNodes, DrawChain, DrawTrajectory.
type Renderer interface {
	UploadMesh(name string, m *mesh.Mesh) error
	PlaceInstances(name string, at []math.Vec3) error
	UpdateNodes(nodes []scenegraph.NodeView) error
	DrawChain(points []math.Vec3, segments [][2]math.Vec3) error
	DrawTrajectory(points []math.Vec3) error
}

// LogRenderer is a headless Renderer that reports what it would draw.
// Static uploads log at info, per-frame calls at debug.
type LogRenderer struct {
	log *zap.Logger

	Meshes    int
	Instances int
	Frames    int
}

// NewLogRenderer returns a renderer writing to log.
func NewLogRenderer(log *zap.Logger) *LogRenderer {
	return &LogRenderer{log: log.Named("render")}
}

func (r *LogRenderer) UploadMesh(name string, m *mesh.Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	b := m.Bounds()
	r.Meshes++
	r.log.Info("upload mesh",
		zap.String("name", name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Float32("minZ", b.Min.Z),
		zap.Float32("maxZ", b.Max.Z),
	)
	return nil
}

func (r *LogRenderer) PlaceInstances(name string, at []math.Vec3) error {
	r.Instances += len(at)
	r.log.Info("place instances", zap.String("mesh", name), zap.Int("count", len(at)))
	return nil
}

func (r *LogRenderer) UpdateNodes(nodes []scenegraph.NodeView) error {
	r.Frames++
	if ce := r.log.Check(zap.DebugLevel, "nodes"); ce != nil {
		fields := make([]zap.Field, 0, len(nodes))
		for _, n := range nodes {
			fields = append(fields, zap.Array(n.Name, vec3Array(n.Global.Translation)))
		}
		ce.Write(fields...)
	}
	return nil
}

func (r *LogRenderer) DrawChain(points []math.Vec3, segments [][2]math.Vec3) error {
	if len(points) == 0 {
		return nil
	}
	lowest := points[0].Z
	for _, p := range points[1:] {
		lowest = min(lowest, p.Z)
	}
	r.log.Debug("chain", zap.Int("points", len(points)), zap.Int("segments", len(segments)), zap.Float32("lowestZ", lowest))
	return nil
}

func (r *LogRenderer) DrawTrajectory(points []math.Vec3) error {
	r.log.Debug("trajectory", zap.Int("points", len(points)))
	return nil
}

// vec3Array encodes a Vec3 as a three-element zap array.
type vec3Array math.Vec3

func (v vec3Array) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	enc.AppendFloat32(v.X)
	enc.AppendFloat32(v.Y)
	enc.AppendFloat32(v.Z)
	return nil
}
