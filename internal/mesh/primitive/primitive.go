// Package primitive builds small procedural meshes used as scene props and hierarchy parts.
package primitive

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Segments is the angular resolution used by Tree.
const Segments = 20

// Cylinder returns an open tube of the given radius along +Z from z=0 to z=height.
// Vertices alternate bottom/top ring points.
func Cylinder(radius, height float32, segments int) *mesh.Mesh {
	segments = max(segments, 3)
	m := &mesh.Mesh{}
	for k := 0; k < segments; k++ {
		x, y := ring(radius, k, segments)
		m.Positions = append(m.Positions, math.Vec3{X: x, Y: y, Z: 0}, math.Vec3{X: x, Y: y, Z: height})
		u := float32(k) / float32(segments)
		m.UVs = append(m.UVs, math.Vec2{X: u, Y: 0}, math.Vec2{X: u, Y: 1})
	}

	n := uint32(2 * segments)
	for k := uint32(0); k < uint32(segments); k++ {
		b0, t0 := 2*k, 2*k+1
		b1, t1 := (2*k+2)%n, (2*k+3)%n
		m.Triangles = append(m.Triangles,
			[3]uint32{b0, b1, t0},
			[3]uint32{b1, t1, t0},
		)
	}
	m.ComputeNormals()
	return m
}

// Cone returns a closed cone with its base disc at z=zOffset and apex at zOffset+height.
func Cone(radius, height, zOffset float32, segments int) *mesh.Mesh {
	segments = max(segments, 3)
	m := &mesh.Mesh{}
	for k := 0; k < segments; k++ {
		x, y := ring(radius, k, segments)
		m.Positions = append(m.Positions, math.Vec3{X: x, Y: y, Z: zOffset})
	}
	center := uint32(segments)
	apex := center + 1
	m.Positions = append(m.Positions,
		math.Vec3{X: 0, Y: 0, Z: zOffset},
		math.Vec3{X: 0, Y: 0, Z: zOffset + height},
	)

	s := uint32(segments)
	for k := uint32(0); k < s; k++ {
		next := (k + 1) % s
		// Base faces down, side faces out.
		m.Triangles = append(m.Triangles,
			[3]uint32{center, next, k},
			[3]uint32{k, next, apex},
		)
	}
	m.ComputeNormals()
	return m
}

// Tree returns a trunk cylinder topped with three stacked foliage cones.
func Tree(trunkHeight, trunkRadius float32) *mesh.Mesh {
	tree := Cylinder(trunkRadius, trunkHeight, Segments)

	r := trunkRadius
	foliage := Cone(4*r, 6*r, 0, Segments)
	foliage.Append(Cone(4*r, 6*r, 2*r, Segments))
	foliage.Append(Cone(4*r, 6*r, 4*r, Segments))
	foliage.Translate(math.Vec3{Z: trunkHeight})

	tree.Append(foliage)
	tree.ComputeNormals()
	return tree
}

// DefaultTree returns the reference tree: 0.7 tall trunk of radius 0.1.
func DefaultTree() *mesh.Mesh {
	return Tree(0.7, 0.1)
}

// Quad returns the quadrangle p0 p1 p2 p3 as two triangles with unit UVs.
func Quad(p0, p1, p2, p3 math.Vec3) *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: []math.Vec3{p0, p1, p2, p3},
		UVs:       []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Triangles: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
	m.ComputeNormals()
	return m
}

// Billboard returns the unit grass quad standing on the origin in the XZ plane.
func Billboard() *mesh.Mesh {
	return Quad(
		math.Vec3{X: -0.5}, math.Vec3{X: 0.5},
		math.Vec3{X: 0.5, Z: 1}, math.Vec3{X: -0.5, Z: 1},
	)
}

// Ellipsoid returns a UV-sphere scaled by radii, with rings latitude bands and
// segments longitude bands.
func Ellipsoid(radii math.Vec3, rings, segments int) *mesh.Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	m := &mesh.Mesh{}
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		theta := v * math32.Pi
		st, ct := math32.Sincos(theta)
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			sp, cp := math32.Sincos(u * 2 * math32.Pi)
			m.Positions = append(m.Positions, math.Vec3{
				X: radii.X * st * cp,
				Y: radii.Y * st * sp,
				Z: radii.Z * ct,
			})
			m.UVs = append(m.UVs, math.Vec2{X: u, Y: v})
		}
	}

	stride := uint32(segments + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(segments); j++ {
			a := i*stride + j
			b := a + stride
			m.Triangles = append(m.Triangles,
				[3]uint32{a, b, a + 1},
				[3]uint32{a + 1, b, b + 1},
			)
		}
	}
	m.ComputeNormals()
	return m
}

// Sphere returns an Ellipsoid with equal radii.
func Sphere(radius float32) *mesh.Mesh {
	return Ellipsoid(math.Vec3{X: radius, Y: radius, Z: radius}, 20, 40)
}

func ring(radius float32, k, segments int) (float32, float32) {
	angle := -2 * math32.Pi * float32(k) / float32(segments)
	s, c := math32.Sincos(angle)
	return radius * c, radius * s
}
