package voxelize

import (
	"context"

	"github.com/chazu/vdbcore/pkg/grid"
)

// PropagateSigns is given the unsigned squared distances Voxelize
// produced and the inside/outside parity TraceContours traced, and
// commits a sign to every shell voxel: D's stored value becomes
// negative wherever the voxel's row classifies it, via
// Contours.ShellInside, as bordering the mesh's interior.
//
// It then runs up to sweeps further relaxation passes in which any
// shell voxel whose sign disagrees with every one of its active
// 6-connected neighbors flips to match them, resolving
// the handful of voxels a single parity pass leaves ambiguous (voxels
// straddling more than one contour row, or adjacent to a
// degenerate/backfacing triangle).
func PropagateSigns(ctx context.Context, w *workGrids, contours Contours, sweeps int) error {
	if sweeps < 1 {
		sweeps = 1
	}

	dAcc := w.D.NewAccessor()
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
		d2 := dAcc.GetValue(c)
		if contours.ShellInside(c) {
			dAcc.SetValueOn(c, -absFloat(d2))
		} else {
			dAcc.SetValueOn(c, absFloat(d2))
		}
	}

	for s := 0; s < sweeps; s++ {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
		changed := relaxSignsOnce(dAcc, shell)
		if !changed {
			break
		}
	}
	return nil
}

func relaxSignsOnce(dAcc *grid.Accessor[float64], shell []grid.Coord) bool {
	type flip struct {
		c grid.Coord
		v float64
	}
	var flips []flip
	for _, c := range shell {
		v := dAcc.GetValue(c)
		neg, pos := 0, 0
		for _, off := range grid.Face6 {
			n := c.Add(off)
			if !dAcc.IsActive(n) {
				continue
			}
			if dAcc.GetValue(n) < 0 {
				neg++
			} else {
				pos++
			}
		}
		total := neg + pos
		if total == 0 {
			continue
		}
		wantNeg := neg > pos
		isNeg := v < 0
		if wantNeg != isNeg && (neg == total || pos == total) {
			flips = append(flips, flip{c, -v})
		}
	}
	for _, f := range flips {
		dAcc.SetValueOn(f.c, f.v)
	}
	return len(flips) > 0
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
