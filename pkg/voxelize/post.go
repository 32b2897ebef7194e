package voxelize

import (
	"context"
	"math"

	"github.com/chazu/vdbcore/pkg/grid"
	"github.com/chazu/vdbcore/pkg/xform"
)

// PostProcess converts the signed squared distances ExpandNarrowBand
// left active into a finished level set. It runs, in order:
//
//  1. sqrt-and-scale: every active voxel's stored squared index-space
//     distance becomes a signed world-space distance (sign preserved,
//     |v| = sqrt(|v|) * voxelSize);
//  2. signed flood-fill + background rewrite: every unallocated leaf
//     reachable, through other unallocated leaves, from a band leaf
//     with no positive active voxel gets its background overridden to
//     -inBandWidth instead of the grid-wide +exBandWidth, so a reader
//     querying far inside a closed mesh sees "inside" rather than the
//     default "outside" background, and so the renormalization pass
//     below reads a correctly-signed value at the band's outer edge;
//  3. renormalize: one Godunov upwind reinitialization step smooths
//     the small ridges a self-intersecting or overlapping source mesh
//     leaves behind, without moving the zero crossing;
//  4. trim: any active voxel whose distance exceeds its direction's
//     band limit is deactivated — renormalization lowers values, which
//     can push an interior voxel's magnitude past its limit;
//  5. level-set prune: empty leaves left behind by step 4 are dropped.
//
// A second dilation pass after renormalization is not run: renormalizeLevelSet
// only ever lowers a voxel's value via its min-merge, and never
// activates a voxel or touches M, so it cannot uncover new narrow-band
// topology for a further ExpandNarrowBand call to pick up.
func PostProcess(ctx context.Context, w *workGrids, t *xform.Transform, exBand, inBand float64) error {
	dAcc := w.D.NewAccessor()
	voxelSize := t.UniformVoxelSize()

	var active []grid.Coord
	w.D.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[float64]) {
		v.ForEachActive(func(c grid.Coord, _ float64) {
			active = append(active, c)
		})
	})

	exWorld := exBand * voxelSize
	inWorld := inBand * voxelSize

	for i, c := range active {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		v := dAcc.GetValue(c)
		signed := v
		if signed < 0 {
			signed = -math.Sqrt(-signed) * voxelSize
		} else {
			signed = math.Sqrt(signed) * voxelSize
		}
		dAcc.SetValueOn(c, signed)
	}

	w.D.SetBackground(exWorld)
	signedFloodFillBackground(w.D, inWorld)

	if err := renormalizeLevelSet(ctx, w, voxelSize); err != nil {
		return err
	}

	if err := trimToBand(ctx, w, exWorld, inWorld); err != nil {
		return err
	}

	w.D.PruneEmptyLeaves()
	w.I.PruneEmptyLeaves()
	w.M.PruneEmptyLeaves()
	return nil
}

// trimToBand deactivates every active D voxel whose world-space signed
// distance already exceeds its direction's band limit. ExpandNarrowBand
// never activates a voxel beyond its limit, but renormalizeLevelSet only
// ever lowers a value, so an interior voxel can end up below -inWorld.
// Idempotent: once every active voxel satisfies its limit,
// a second call changes nothing — see TestTrimIdempotence.
func trimToBand(ctx context.Context, w *workGrids, exWorld, inWorld float64) error {
	dAcc := w.D.NewAccessor()
	iAcc := w.I.NewAccessor()
	mAcc := w.M.NewAccessor()

	var active []grid.Coord
	w.D.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[float64]) {
		v.ForEachActive(func(c grid.Coord, _ float64) {
			active = append(active, c)
		})
	})

	for i, c := range active {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		v := dAcc.GetValue(c)
		limit := exWorld
		if v < 0 {
			limit = inWorld
		}
		if math.Abs(v) > limit {
			dAcc.DeactivateAndReset(c)
			iAcc.DeactivateAndReset(c)
			mAcc.DeactivateAndReset(c)
		}
	}
	return nil
}

// signedFloodFillBackground propagates the "inside" sign from the
// narrow band into the implicit background: for every allocated leaf
// with no positive active voxel (interior voxels and voxels exactly on
// the surface only), every unallocated leaf
// reachable from it through further unallocated space (without
// crossing back through an active, positive leaf) is assigned a
// background override of -inWorld in place of the grid-wide
// +exBandWidth default (SetBackground must be called separately to
// establish that default). The flood is bounded by the narrow band's
// own bounding box grown by one leaf in every direction, since nothing
// beyond the mesh's extent plus its band width can be interior.
func signedFloodFillBackground(d *grid.Grid[float64], inWorld float64) {
	bb := activeBBox(d)
	if bb.Empty() {
		return
	}

	const leafDim = grid.LeafDim
	toLeaf := func(c grid.Coord) grid.Coord {
		return grid.Coord{X: floorDiv(c.X, leafDim) * leafDim, Y: floorDiv(c.Y, leafDim) * leafDim, Z: floorDiv(c.Z, leafDim) * leafDim}
	}
	lo, hi := toLeaf(bb.Min), toLeaf(bb.Max)
	lo = lo.Add(grid.Coord{X: -leafDim, Y: -leafDim, Z: -leafDim})
	hi = hi.Add(grid.Coord{X: leafDim, Y: leafDim, Z: leafDim})

	visited := make(map[grid.Coord]bool)
	var queue []grid.Coord

	// Seed the flood from every active leaf that borders unallocated
	// space and whose active voxels are all negative or zero.
	d.ForEachLeaf(func(origin grid.Coord, v *grid.LeafView[float64]) {
		if v.IsEmpty() {
			return
		}
		allNeg := true
		v.ForEachActive(func(c grid.Coord, val float64) {
			if val > 0 {
				allNeg = false
			}
		})
		if !allNeg {
			return
		}
		for _, off := range grid.Face6 {
			n := origin.Add(grid.Coord{X: off.X * leafDim, Y: off.Y * leafDim, Z: off.Z * leafDim})
			if d.HasLeaf(n) || visited[n] {
				continue
			}
			if n.X < lo.X || n.Y < lo.Y || n.Z < lo.Z || n.X > hi.X || n.Y > hi.Y || n.Z > hi.Z {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	})

	for len(queue) > 0 {
		n := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		d.SetLeafBackgroundOverride(n, -inWorld)
		for _, off := range grid.Face6 {
			m := n.Add(grid.Coord{X: off.X * leafDim, Y: off.Y * leafDim, Z: off.Z * leafDim})
			if d.HasLeaf(m) || visited[m] {
				continue
			}
			if m.X < lo.X || m.Y < lo.Y || m.Z < lo.Z || m.X > hi.X || m.Y > hi.Y || m.Z > hi.Z {
				continue
			}
			visited[m] = true
			queue = append(queue, m)
		}
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
