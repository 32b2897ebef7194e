// Package xform implements the index-space/world-space affine
// transform consumed by the mesh-to-volume pipeline. Grids are always
// axis-aligned, so the transform needed is a uniform or per-axis scale
// plus a translation — modeled after the affine Map struct in a
// NanoVDB port's NewIdentityMap, scoped down to what this pipeline
// actually needs: a uniform voxel size and world<->index point
// conversion.
package xform

import "github.com/chazu/vdbcore/pkg/geom"

// Transform maps between index space (integer-ish lattice coordinates,
// stored as float64 for sub-voxel positions) and world space.
type Transform struct {
	voxelSize geom.Vec3
	origin    geom.Vec3
}

// NewLinear returns a Transform with the given per-axis voxel size and
// world-space origin (the world position of index-space (0,0,0)).
func NewLinear(voxelSize, origin geom.Vec3) *Transform {
	return &Transform{voxelSize: voxelSize, origin: origin}
}

// NewUniform returns a Transform with the same voxel size on every
// axis and the world origin at index-space (0,0,0).
func NewUniform(voxelSize float64) *Transform {
	return &Transform{voxelSize: geom.Vec3{X: voxelSize, Y: voxelSize, Z: voxelSize}}
}

// VoxelSize returns the per-axis voxel size in world units.
func (t *Transform) VoxelSize() geom.Vec3 { return t.voxelSize }

// UniformVoxelSize returns the voxel size along X. Callers that need a
// single scalar (the narrow-band pipeline treats the grid as
// axis-aligned and uniform) use this.
func (t *Transform) UniformVoxelSize() float64 { return t.voxelSize.X }

// IndexToWorld converts an index-space point to world space.
func (t *Transform) IndexToWorld(p geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: p.X*t.voxelSize.X + t.origin.X,
		Y: p.Y*t.voxelSize.Y + t.origin.Y,
		Z: p.Z*t.voxelSize.Z + t.origin.Z,
	}
}

// WorldToIndex converts a world-space point to index space.
func (t *Transform) WorldToIndex(p geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: (p.X - t.origin.X) / t.voxelSize.X,
		Y: (p.Y - t.origin.Y) / t.voxelSize.Y,
		Z: (p.Z - t.origin.Z) / t.voxelSize.Z,
	}
}

// IndexToWorldDistance scales an index-space (unitless) distance into a
// world-space distance, assuming a uniform voxel size.
func (t *Transform) IndexToWorldDistance(d float64) float64 {
	return d * t.voxelSize.X
}
