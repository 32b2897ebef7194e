package voxelize

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/samber/lo"

	"github.com/chazu/vdbcore/pkg/geom"
	"github.com/chazu/vdbcore/pkg/grid"
	"github.com/chazu/vdbcore/pkg/mesh"
	"github.com/chazu/vdbcore/pkg/xform"
)

// voxelizeRadius is sqrt(3)/2, a voxel's half-diagonal in index-space
// units. voxelizeTriangle accepts a voxel into the shell when its *squared*
// distance to the primitive is below this value directly (the
// original compares squared distance against 0.86602540378443861, not
// against its square), so this constant doubles as the linear-distance
// padding radius spatial.Build and Index.Candidates use for their
// broad-phase primitive search.
const voxelizeRadius = 0.8660254037844386 // sqrt(3)/2

// Voxelize seeds a flood fill at every mesh primitive and grows it
// outward (a 26-connected worklist) until no neighboring voxel's
// squared distance to the primitive is below voxelizeRadius, producing
// the initial unsigned "shell" — the set of voxels whose squared
// distance to at least one primitive is below voxelizeRadius, each tagged with
// its closest (winning) primitive index.
//
// Work is partitioned by primitive range across GOMAXPROCS workers,
// each building a private set of grids before they are pairwise merged
// (via samber/lo.Reduce, instead of a TBB-style parallel_reduce) into
// the result returned to the caller.
func Voxelize(ctx context.Context, m *mesh.Mesh, t *xform.Transform) (*workGrids, error) {
	n := m.NumPolygons()
	if n == 0 {
		return newWorkGrids(), nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	partials := make([]*workGrids, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start, end := w*chunk, min((w+1)*chunk, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			partials[w], errs[w] = voxelizeRange(ctx, m, start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	live := lo.Filter(partials, func(wg *workGrids, _ int) bool { return wg != nil })
	merged := lo.Reduce(live, mergeWorkGrids, newWorkGrids())
	return merged, nil
}

func newWorkGrids() *workGrids {
	return &workGrids{
		D: grid.New[float64](distBackground),
		I: grid.New[int32](InvalidPrimIndex),
		M: grid.New[bool](false),
	}
}

// mergeWorkGrids folds src into dst in place, keeping whichever of the
// two candidate distances is smaller at each voxel they both touch, and
// returns dst so lo.Reduce can chain it across every partial result.
func mergeWorkGrids(dst, src *workGrids, _ int) *workGrids {
	dAcc := dst.D.NewAccessor()
	iAcc := dst.I.NewAccessor()
	mAcc := dst.M.NewAccessor()
	srcIAcc := src.I.NewAccessor()

	src.D.ForEachLeaf(func(_ grid.Coord, v *grid.LeafView[float64]) {
		v.ForEachActive(func(c grid.Coord, d float64) {
			if !dAcc.IsActive(c) || d < dAcc.GetValue(c) {
				dAcc.SetValueOn(c, d)
				iAcc.SetValueOn(c, srcIAcc.GetValue(c))
			}
			mAcc.SetValueOn(c, true)
		})
	})
	return dst
}

func voxelizeRange(ctx context.Context, m *mesh.Mesh, start, end int) (*workGrids, error) {
	wg := newWorkGrids()
	dAcc := wg.D.NewAccessor()
	iAcc := wg.I.NewAccessor()
	mAcc := wg.M.NewAccessor()

	lastPrim := make(map[grid.Coord]int32)
	var worklist []grid.Coord

	for i := start; i < end; i++ {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ErrCancelled
			default:
			}
		}
		p := m.Polygons[i]
		v0, v1, v2 := m.Triangle(i)
		voxelizeTriangle(dAcc, iAcc, mAcc, lastPrim, &worklist, int32(i), v0, v1, v2, v1)
		if !p.IsTriangle() {
			v0b, v3, v2b := m.SecondTriangle(i)
			voxelizeTriangle(dAcc, iAcc, mAcc, lastPrim, &worklist, int32(i), v0b, v3, v2b, v3)
		}
	}
	return wg, nil
}

// voxelizeTriangle seeds and floods the shell for one triangle
// (p0,p1,p2). The short-edge vs. long-edge choice looks at p0, p1 and
// p2 only; seedExtra is one more seed point for short triangles, used
// only when it differs from p1 (both call sites pass p1 itself).
func voxelizeTriangle(
	dAcc *grid.Accessor[float64], iAcc *grid.Accessor[int32], mAcc *grid.Accessor[bool],
	lastPrim map[grid.Coord]int32, worklist *[]grid.Coord,
	primIdx int32, p0, p1, p2, seedExtra mesh.Point,
) {
	t0, t1, t2 := toVec3(p0), toVec3(p1), toVec3(p2)

	short := edgeIsShort(p0, p1) && edgeIsShort(p1, p2) && edgeIsShort(p0, p2)

	*worklist = (*worklist)[:0]
	seed := func(p mesh.Point) {
		c := grid.NearestCoord([3]float64{float64(p[0]), float64(p[1]), float64(p[2])})
		*worklist = append(*worklist, c)
	}
	seed(p0)
	if short {
		seed(p1)
		seed(p2)
		if seedExtra != p1 {
			seed(seedExtra)
		}
	}

	visited := make(map[grid.Coord]bool, 64)
	for len(*worklist) > 0 {
		c := (*worklist)[len(*worklist)-1]
		*worklist = (*worklist)[:len(*worklist)-1]
		if visited[c] {
			continue
		}
		visited[c] = true

		if lastPrim[c] == primIdx+1 {
			// already evaluated this exact voxel against this exact
			// primitive (primIdx+1 so the zero value of the map means
			// "never evaluated" rather than colliding with primitive 0)
			continue
		}
		lastPrim[c] = primIdx + 1

		x := geom.Vec3{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
		d2 := geom.TriToPointDistSqr(t0, t1, t2, x)
		if d2 >= voxelizeRadius {
			continue
		}

		if !dAcc.IsActive(c) || d2 < dAcc.GetValue(c) {
			dAcc.SetValueOn(c, d2)
			iAcc.SetValueOn(c, primIdx)
		}
		mAcc.SetValueOn(c, true)

		for _, off := range grid.All26 {
			*worklist = append(*worklist, c.Add(off))
		}
	}
}

func edgeIsShort(a, b mesh.Point) bool {
	dx := math.Abs(float64(a[0] - b[0]))
	dy := math.Abs(float64(a[1] - b[1]))
	dz := math.Abs(float64(a[2] - b[2]))
	return dx < ShortEdgeThreshold && dy < ShortEdgeThreshold && dz < ShortEdgeThreshold
}

func toVec3(p mesh.Point) geom.Vec3 {
	return geom.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
