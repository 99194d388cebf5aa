// Package scenegraph implements a named hierarchy of transforms with a single
// top-down propagation pass.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/pkg/math"
)

var (
	ErrDuplicateName = errors.New("duplicate node name")
	ErrUnknownParent = errors.New("unknown parent node")
	ErrUnknownNode   = errors.New("unknown node")
	ErrRootExists    = errors.New("graph already has a root")
	ErrStale         = errors.New("global transforms are stale, call Propagate")
)

// NoParent marks the root node.
const NoParent = -1

// Node is one entry of the graph. Nodes are stored in insertion order, so a
// parent index is always smaller than its children's.
type Node struct {
	Name   string
	Parent int
	Mesh   *mesh.Mesh
	Local  math.Transform
	Global math.Transform
}

// NodeView is the read-only per-node state handed to a renderer.
type NodeView struct {
	Name   string
	Parent string
	Mesh   *mesh.Mesh
	Global math.Transform
	Matrix math.Mat4
}

// TransformUpdate is a partial local transform; nil fields are left unchanged.
type TransformUpdate struct {
	Translation *math.Vec3
	Rotation    *math.Quat
	Scale       *float32
}

// Graph is a forest with exactly one root, owned by a single driver.
type Graph struct {
	nodes      []Node
	index      map[string]int
	propagated bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Add inserts a node below parent ("" for the root) with the given local translation
// and returns its index. The root must be added first and its parent must already exist.
func (g *Graph) Add(name string, m *mesh.Mesh, parent string, translation math.Vec3) (int, error) {
	if _, ok := g.index[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	parentIdx := NoParent
	if parent == "" {
		if len(g.nodes) > 0 {
			return 0, fmt.Errorf("%w: cannot add %q as a second root", ErrRootExists, name)
		}
	} else {
		idx, ok := g.index[parent]
		if !ok {
			return 0, fmt.Errorf("%w: %q (adding %q)", ErrUnknownParent, parent, name)
		}
		parentIdx = idx
	}

	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{
		Name:   name,
		Parent: parentIdx,
		Mesh:   m,
		Local:  math.TransformAt(translation),
		Global: math.TransformIdentity(),
	})
	g.index[name] = idx
	g.propagated = false
	return idx, nil
}

// Index resolves a node name once so per-tick updates can skip the map lookup.
func (g *Graph) Index(name string) (int, error) {
	idx, ok := g.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return idx, nil
}

// MustIndex is Index for names known to exist at setup time; it panics otherwise.
func (g *Graph) MustIndex(name string) int {
	idx, err := g.Index(name)
	if err != nil {
		panic(err)
	}
	return idx
}

// SetLocal applies a partial local transform update to the named node.
func (g *Graph) SetLocal(name string, u TransformUpdate) error {
	idx, err := g.Index(name)
	if err != nil {
		return err
	}
	return g.SetLocalAt(idx, u)
}

// SetLocalAt applies a partial local transform update to the node at idx.
func (g *Graph) SetLocalAt(idx int, u TransformUpdate) error {
	if idx < 0 || idx >= len(g.nodes) {
		return fmt.Errorf("%w: index %d", ErrUnknownNode, idx)
	}
	local := &g.nodes[idx].Local
	if u.Translation != nil {
		local.Translation = *u.Translation
	}
	if u.Rotation != nil {
		local.Rotation = *u.Rotation
	}
	if u.Scale != nil {
		local.Scale = *u.Scale
	}
	g.propagated = false
	return nil
}

// Local returns the local transform of the named node.
func (g *Graph) Local(name string) (math.Transform, error) {
	idx, err := g.Index(name)
	if err != nil {
		return math.Transform{}, err
	}
	return g.nodes[idx].Local, nil
}

// Propagate recomputes every global transform in insertion order.
func (g *Graph) Propagate() {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Parent == NoParent {
			n.Global = n.Local
			continue
		}
		n.Global = g.nodes[n.Parent].Global.Compose(n.Local)
	}
	g.propagated = true
}

// Stale reports whether global transforms need a Propagate call.
func (g *Graph) Stale() bool {
	return !g.propagated
}

// Global returns the named node's global transform as of the last Propagate.
func (g *Graph) Global(name string) (math.Transform, error) {
	idx, err := g.Index(name)
	if err != nil {
		return math.Transform{}, err
	}
	return g.GlobalAt(idx)
}

// GlobalAt returns the global transform of the node at idx.
func (g *Graph) GlobalAt(idx int) (math.Transform, error) {
	if idx < 0 || idx >= len(g.nodes) {
		return math.Transform{}, fmt.Errorf("%w: index %d", ErrUnknownNode, idx)
	}
	if !g.propagated {
		return math.Transform{}, ErrStale
	}
	return g.nodes[idx].Global, nil
}

// Nodes returns a snapshot of every node for rendering.
func (g *Graph) Nodes() ([]NodeView, error) {
	if !g.propagated {
		return nil, ErrStale
	}
	views := make([]NodeView, len(g.nodes))
	for i, n := range g.nodes {
		var parent string
		if n.Parent != NoParent {
			parent = g.nodes[n.Parent].Name
		}
		views[i] = NodeView{
			Name:   n.Name,
			Parent: parent,
			Mesh:   n.Mesh,
			Global: n.Global,
			Matrix: n.Global.Matrix(),
		}
	}
	return views, nil
}
