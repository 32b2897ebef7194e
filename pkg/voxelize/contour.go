package voxelize

import (
	"context"

	"github.com/chazu/vdbcore/pkg/grid"
)

// interval is a half-open run [XStart, XEnd) of index-space x
// coordinates lying inside the mesh along one (y,z) row.
type interval struct {
	XStart, XEnd int32
}

// column identifies one (y,z) row of the shell's bounding box.
type column struct {
	Y, Z int32
}

// rowContours is one (y,z) row's parity classification: inside covers
// the interior (non-shell) x-ranges between shell runs, shellInside
// covers the on-shell x-ranges that border an interior range on
// either side — the shell voxels a closed volume's boundary owns.
type rowContours struct {
	inside      []interval
	shellInside []interval
}

// Contours maps each row to its parity classification, the
// topological result of TraceContours. A row absent from the map has
// no interior at all (every voxel along it is either on the shell or
// exterior).
type Contours map[column]rowContours

// Inside reports whether coordinate c, which must not be an M-active
// (shell) voxel, falls within one of its row's recorded interior
// ranges. Safe to call with coordinates outside the row bounding box
// TraceContours scanned, or on a row TraceContours never visited: both
// correctly report false (exterior), since a nil map lookup and a nil
// interval slice both range over zero elements.
func (cs Contours) Inside(c grid.Coord) bool {
	for _, iv := range cs[column{c.Y, c.Z}].inside {
		if c.X >= iv.XStart && c.X < iv.XEnd {
			return true
		}
	}
	return false
}

// ShellInside reports whether shell coordinate c sits in a run that
// borders an interior range on the side it entered from, the side it
// exited into, or both. A shell run touching no interior range at all
// (an isolated sliver, or an open surface's edge) reports false.
func (cs Contours) ShellInside(c grid.Coord) bool {
	for _, iv := range cs[column{c.Y, c.Z}].shellInside {
		if c.X >= iv.XStart && c.X < iv.XEnd {
			return true
		}
	}
	return false
}

// TraceContours determines, for every (y,z) row spanning the shell's
// bounding box, which runs of x are inside the mesh. It scans x
// low-to-high, toggling an outside/inside parity flag each time it
// exits a contiguous run of shell (M-active) voxels, and records the
// resulting inside run as an interval. This is the textbook scanline
// point-in-polyhedron parity test, applied per row instead of per ray,
// so it reuses the shell voxels the mesh voxelizer already found
// instead of re-intersecting rays against triangles.
//
// See DESIGN.md for the tradeoff against a full tangential-face
// backtracking trace.
func TraceContours(ctx context.Context, w *workGrids) (Contours, error) {
	bb := activeBBox(w.M)
	if bb.Empty() {
		return Contours{}, nil
	}
	mAcc := w.M.NewAccessor()

	out := make(Contours)
	rows := 0
	for y := bb.Min.Y; y <= bb.Max.Y; y++ {
		for z := bb.Min.Z; z <= bb.Max.Z; z++ {
			rows++
			if rows%4096 == 0 {
				select {
				case <-ctx.Done():
					return nil, ErrCancelled
				default:
				}
			}

			var ivs []interval
			var shellIvs []interval
			inside := false
			inRun := false
			var runStart int32
			var insideStart int32
			var beforeInside bool

			for x := bb.Min.X - 1; x <= bb.Max.X+1; x++ {
				c := grid.Coord{X: x, Y: y, Z: z}
				onShell := mAcc.IsActive(c)

				if onShell && !inRun {
					inRun = true
					runStart = x
					beforeInside = inside
					if inside {
						ivs = append(ivs, interval{insideStart, runStart})
					}
				} else if !onShell && inRun {
					inRun = false
					inside = !inside
					if beforeInside || inside {
						shellIvs = append(shellIvs, interval{runStart, x})
					}
					if inside {
						insideStart = x
					}
				}
			}
			if len(ivs) > 0 || len(shellIvs) > 0 {
				out[column{y, z}] = rowContours{inside: ivs, shellInside: shellIvs}
			}
		}
	}
	return out, nil
}
