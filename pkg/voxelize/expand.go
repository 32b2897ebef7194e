package voxelize

import (
	"context"
	"math"

	"github.com/chazu/vdbcore/pkg/geom"
	"github.com/chazu/vdbcore/pkg/grid"
	"github.com/chazu/vdbcore/pkg/mesh"
	"github.com/chazu/vdbcore/pkg/spatial"
)

// ExpandNarrowBand grows the signed shell voxels out to the requested
// band widths. Starting from the signed shell, it dilates outward one
// 6-connected ring at a time until a ring's voxel would exceed its
// direction's band limit (exBand for outside voxels, inBand for
// inside ones), expressed in index-space voxels. Each newly activated
// voxel gets its sign fresh from contours.Inside rather than
// inheriting the frontier voxel that reached it: a single shell voxel
// can border both an interior and an exterior neighbor, so only a
// ground-truth per-coordinate classification keeps a wrongly-signed
// shell voxel from smearing that sign onto a correctly-classified
// neighbor as the band grows. Every newly active voxel also gets its
// true distance and winning primitive from idx's broad-phase
// nearest-primitive search, not inherited from its seed, since a
// dilated voxel's true closest primitive is frequently not the one
// that dilated it.
func ExpandNarrowBand(ctx context.Context, w *workGrids, m *mesh.Mesh, idx *spatial.Index, contours Contours, exBand, inBand float64) error {
	dAcc := w.D.NewAccessor()
	iAcc := w.I.NewAccessor()
	mAcc := w.M.NewAccessor()

	frontier := make(map[grid.Coord]bool)
	w.M.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[bool]) {
		v.ForEachActive(func(c grid.Coord, _ bool) {
			frontier[c] = true
		})
	})

	maxBand := math.Max(exBand, inBand)
	rings := 0
	for len(frontier) > 0 && float64(rings) < maxBand+1 {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
		rings++

		next := make(map[grid.Coord]bool)
		for c := range frontier {
			for _, off := range grid.Face6 {
				n := c.Add(off)
				if mAcc.IsActive(n) {
					continue
				}
				if _, seen := next[n]; seen {
					continue
				}
				next[n] = !contours.Inside(n)
			}
		}

		any := false
		for n, outside := range next {
			limit := exBand
			if !outside {
				limit = inBand
			}
			d2, primIdx := nearestPrimitive(m, idx, n)
			d := math.Sqrt(d2)
			if d > limit {
				continue
			}
			if outside {
				dAcc.SetValueOn(n, d2)
			} else {
				dAcc.SetValueOn(n, -d2)
			}
			iAcc.SetValueOn(n, primIdx)
			mAcc.SetValueOn(n, true)
			any = true
		}
		if !any {
			break
		}
		frontier = make(map[grid.Coord]bool)
		for n := range next {
			if mAcc.IsActive(n) {
				frontier[n] = true
			}
		}
	}
	return nil
}

// nearestPrimitive returns the squared distance and index of the
// primitive in m closest to voxel c, searching only idx's broad-phase
// candidates rather than every primitive in the mesh.
func nearestPrimitive(m *mesh.Mesh, idx *spatial.Index, c grid.Coord) (distSqr float64, primIdx int32) {
	x := geom.Vec3{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}

	best := math.MaxFloat64
	bestIdx := InvalidPrimIndex
	radius := 1.0
	for {
		cands := idx.Candidates(x, radius)
		for _, ci := range cands {
			p := m.Polygons[ci]
			v0, v1, v2 := m.Triangle(int(ci))
			d2, _, _ := geom.ClosestPointBary(toVec3(v0), toVec3(v1), toVec3(v2), x)
			if d2 < best {
				best, bestIdx = d2, ci
			}
			if !p.IsTriangle() {
				q0, q3, q2 := m.SecondTriangle(int(ci))
				d2b, _, _ := geom.ClosestPointBary(toVec3(q0), toVec3(q3), toVec3(q2), x)
				if d2b < best {
					best, bestIdx = d2b, ci
				}
			}
		}
		if bestIdx != InvalidPrimIndex && math.Sqrt(best) <= radius {
			return best, bestIdx
		}
		if radius > 1<<20 {
			return best, bestIdx
		}
		radius *= 2
	}
}
