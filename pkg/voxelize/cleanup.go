package voxelize

import (
	"context"

	"github.com/chazu/vdbcore/pkg/grid"
)

// selfIntersectClamp is the squared-distance floor pass 2 of
// CleanSelfIntersections applies to a surviving non-shell voxel:
// sqrt(3)/2 with the sign of an interior (negative) voxel, the same
// half-diagonal bound voxelizeTriangle uses to accept a voxel into the shell
// in the first place.
const selfIntersectClamp = -voxelizeRadius

// CleanSelfIntersections removes the two kinds of spurious voxel a
// genuine self-intersection (two sheets of the mesh passing through
// the same neighborhood, as in the OverlappingBoxes fixture) can
// leave behind, in two independent passes:
//
//  1. Intersecting-voxel cleaner: deactivate a shell voxel entirely
//     (in both D and M) if none of its 26 neighbors is an active,
//     outside (D >= 0) voxel — a shell voxel stranded with no outside
//     neighbor at all has nothing left to be a boundary between.
//  2. Shell-voxel cleaner: for every active non-shell voxel with
//     D_sq <= 0 (an interior voxel active in D but not in M; Voxelize
//     gives D and M the same active set and pass 1 clears both, so
//     before ExpandNarrowBand there are none), deactivate it in both
//     D and I if none of its 18 neighbors
//     is a shell voxel — it isn't actually adjacent to any surface —
//     otherwise clamp its squared distance to selfIntersectClamp so a
//     nearby shell artefact cannot push it further outward than a
//     single voxel's half-diagonal would allow.
func CleanSelfIntersections(ctx context.Context, w *workGrids) error {
	if err := cleanIntersectingShellVoxels(ctx, w); err != nil {
		return err
	}
	return cleanStrandedInteriorVoxels(ctx, w)
}

func cleanIntersectingShellVoxels(ctx context.Context, w *workGrids) error {
	dAcc := w.D.NewAccessor()
	mAcc := w.M.NewAccessor()

	var shell []grid.Coord
	w.M.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[bool]) {
		v.ForEachActive(func(c grid.Coord, _ bool) {
			shell = append(shell, c)
		})
	})

	for i, c := range shell {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		hasOutsideNeighbor := false
		for _, off := range grid.All26 {
			n := c.Add(off)
			if dAcc.IsActive(n) && dAcc.GetValue(n) >= 0 {
				hasOutsideNeighbor = true
				break
			}
		}
		if !hasOutsideNeighbor {
			dAcc.DeactivateAndReset(c)
			mAcc.DeactivateAndReset(c)
		}
	}
	return nil
}

func cleanStrandedInteriorVoxels(ctx context.Context, w *workGrids) error {
	dAcc := w.D.NewAccessor()
	iAcc := w.I.NewAccessor()
	mAcc := w.M.NewAccessor()

	var interior []grid.Coord
	w.D.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[float64]) {
		v.ForEachActive(func(c grid.Coord, val float64) {
			if val <= 0 && !mAcc.IsActive(c) {
				interior = append(interior, c)
			}
		})
	})

	for i, c := range interior {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		hasShellNeighbor := false
		for _, off := range grid.FaceEdge18 {
			if mAcc.IsActive(c.Add(off)) {
				hasShellNeighbor = true
				break
			}
		}
		if !hasShellNeighbor {
			dAcc.DeactivateAndReset(c)
			iAcc.DeactivateAndReset(c)
			continue
		}
		if v := dAcc.GetValue(c); v < selfIntersectClamp {
			dAcc.SetValueOn(c, selfIntersectClamp)
		}
	}
	return nil
}
