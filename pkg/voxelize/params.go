// Package voxelize implements the narrow-band mesh-to-volume pipeline:
// it consumes a pkg/mesh.Mesh and a pkg/xform.Transform and produces a
// signed (or unsigned) distance grid and an optional primitive-index
// grid.
package voxelize

import "math"

// DefaultBandWidth is the default narrow-band half-width, in voxel
// units, applied by Params.Clamped when a caller passes a zero band
// width.
const DefaultBandWidth = 3.0

// minBandWidth is the minimum accepted band width in voxel units.
const minBandWidth = 1.0 + 1e-7

// FlagKeepIndexGrid is conversion flag bit 0x1: retain and return the
// primitive-index grid alongside the distance grid.
const FlagKeepIndexGrid uint32 = 0x1

// ShortEdgeThreshold is the index-space edge-length threshold (in
// voxels) below which a primitive is voxelized via the "short-edge"
// seeding strategy (seed the flood fill at all of its vertices) rather
// than the "long-edge" strategy (seed only at v0). Exposed as an
// overridable package variable rather than a silent magic number.
var ShortEdgeThreshold float64 = 200

// Params bundles the per-conversion configuration a driver run needs:
// narrow-band widths (in voxel units), the sign-sweep count, and the
// conversion flags.
type Params struct {
	// ExBand is the exterior narrow-band width, in voxel units.
	ExBand float64
	// InBand is the interior narrow-band width, in voxel units.
	// Ignored (treated as 0) in unsigned mode.
	InBand float64
	// SignSweeps is the number of (contour-trace, sign-propagate)
	// alternations the driver performs. Clamped to at least 1.
	SignSweeps int
	// Flags holds conversion bits; see FlagKeepIndexGrid.
	Flags uint32
}

// KeepIndexGrid reports whether FlagKeepIndexGrid is set.
func (p Params) KeepIndexGrid() bool {
	return p.Flags&FlagKeepIndexGrid != 0
}

// Clamped returns p with its band widths and sweep count clamped to
// valid ranges:
//   - a zero band width defaults to DefaultBandWidth before clamping;
//   - both band widths are then clamped to >= 1 + 1e-7;
//   - SignSweeps is clamped to max(SignSweeps, 1), so a caller can
//     never accidentally disable sign propagation entirely.
func (p Params) Clamped() Params {
	out := p
	if out.ExBand == 0 {
		out.ExBand = DefaultBandWidth
	}
	if out.InBand == 0 {
		out.InBand = DefaultBandWidth
	}
	out.ExBand = math.Max(out.ExBand, minBandWidth)
	out.InBand = math.Max(out.InBand, minBandWidth)
	if out.SignSweeps < 1 {
		out.SignSweeps = 1
	}
	return out
}
