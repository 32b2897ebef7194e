// Package kernel defines the abstract solid-modeling interface used to
// build procedural test meshes for the mesh-to-volume pipeline's
// scenario and property tests. Implementations (sdfx) provide solid
// construction and tessellation behind this interface, so the fixture
// package that consumes it never depends on a specific CAD library
// directly.
package kernel

import "github.com/chazu/vdbcore/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates a solid into the index-space point/polygon
	// layout the mesh-to-volume pipeline consumes as input.
	ToMesh(s Solid) (*mesh.Mesh, error)
}
