package voxelize

import (
	"context"
	"math"

	"github.com/chazu/vdbcore/pkg/grid"
)

// renormalizeLevelSet runs one first-order upwind (Godunov) eikonal
// reinitialization step over every active D voxel, smoothing the small
// bumps a self-intersecting or overlapping mesh leaves in the level
// set without moving its zero crossing. It offsets the field inward by
// 0.8*voxelSize, computes a renormalized value for every active voxel
// into a scratch buffer (so the gradient stencil reads a consistent
// snapshot instead of a mix of updated and stale neighbors), merges
// the smaller of the offset and renormalized values back in place, and
// finally undoes the offset. Ported from the offset/renormalize/
// min-merge sequence in the source's post-processing pass.
func renormalizeLevelSet(ctx context.Context, w *workGrids, voxelSize float64) error {
	dAcc := w.D.NewAccessor()

	var active []grid.Coord
	w.D.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[float64]) {
		v.ForEachActive(func(c grid.Coord, _ float64) {
			active = append(active, c)
		})
	})
	if len(active) == 0 {
		return nil
	}

	const offsetFactor = 0.8
	off := offsetFactor * voxelSize

	for i, c := range active {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		dAcc.SetValueOn(c, dAcc.GetValue(c)-off)
	}

	renormed := make(map[grid.Coord]float64, len(active))
	for i, c := range active {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		renormed[c] = godunovStep(dAcc, c, voxelSize)
	}

	for _, c := range active {
		v := dAcc.GetValue(c)
		if r := renormed[c]; r < v {
			v = r
		}
		dAcc.SetValueOn(c, v+off)
	}
	return nil
}

// godunovStep computes one first-order-biased upwind reinitialization
// update at c: phi - dt*S(phi)*(|grad(phi)| - 1), with dt = voxelSize
// (CFL = 1.0) and S the smoothed sign function
// phi/sqrt(phi^2+|grad(phi)|^2) used in place of a hard sign() so the
// zero crossing itself stays put.
func godunovStep(dAcc *grid.Accessor[float64], c grid.Coord, voxelSize float64) float64 {
	phi0 := dAcc.GetValue(c)

	gradSq := 0.0
	for axis := 0; axis < 3; axis++ {
		back := dAcc.GetValue(c.Add(grid.Face6[axis*2]))
		fwd := dAcc.GetValue(c.Add(grid.Face6[axis*2+1]))
		dNeg := (phi0 - back) / voxelSize
		dPos := (fwd - phi0) / voxelSize

		var g float64
		if phi0 >= 0 {
			g = math.Max(square(math.Max(dNeg, 0)), square(math.Min(dPos, 0)))
		} else {
			g = math.Max(square(math.Min(dNeg, 0)), square(math.Max(dPos, 0)))
		}
		gradSq += g
	}

	diff := math.Sqrt(gradSq) - 1
	s := phi0 / math.Sqrt(phi0*phi0+gradSq)
	return phi0 - voxelSize*s*diff
}

func square(v float64) float64 {
	return v * v
}
