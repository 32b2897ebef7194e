// Package fixtures builds the canonical test meshes used by
// pkg/voxelize's scenario and property tests. The sdfx-tessellated
// fixtures below go through the kernel.Kernel solid-modeling interface
// (backed by pkg/kernel/sdfx) rather than calling the sdfx package
// directly, so building a fixture is the same Box/Cylinder/Union/
// Translate/ToMesh vocabulary a CAD-backed production caller would use
// — just run in the opposite direction of the usual SDF-to-mesh
// pipeline: here, the tessellated mesh becomes the *input* to a
// mesh-to-volume conversion instead of rendered output.
package fixtures

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/vdbcore/pkg/kernel"
	"github.com/chazu/vdbcore/pkg/kernel/sdfx"
	"github.com/chazu/vdbcore/pkg/mesh"
)

// defaultCells controls marching-cubes tessellation density for
// sdfx-backed fixtures; kept low since these are test fixtures, not
// rendered output.
const defaultCells = 48

func newKernel(cells int) kernel.Kernel {
	if cells <= 0 {
		cells = defaultCells
	}
	return &sdfx.SdfxKernel{Cells: cells}
}

// Sphere returns a sphere mesh of the given radius tessellated via the
// sdfx-backed kernel, centered at the given index-space center. Used
// by scenario tests and round-trip distance-accuracy property tests.
func Sphere(center v3.Vec, radius float64, cells int) (*mesh.Mesh, error) {
	k := newKernel(cells)
	s := k.Translate(k.Sphere(radius), center.X, center.Y, center.Z)
	return k.ToMesh(s)
}

// SmoothBlob returns a box-union-cylinder solid (sharp-edged: neither
// part is rounded) built and tessellated through the kernel.Kernel
// interface, a generic closed mesh rather than one of the hand-built
// exact fixtures in primitives.go. Only fixtures_test uses it.
func SmoothBlob(cells int) (*mesh.Mesh, error) {
	k := newKernel(cells)
	box := k.Box(6, 6, 6)
	box = k.Translate(box, -3, -3, -3)
	cyl := k.Cylinder(10, 2, 0)
	cyl = k.Rotate(cyl, 68.7, 0, 0) // tilt the cylinder off-axis from the box
	blob := k.Union(box, cyl)
	return k.ToMesh(blob)
}
