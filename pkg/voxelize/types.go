package voxelize

import (
	"math"

	"github.com/chazu/vdbcore/pkg/grid"
)

// InvalidPrimIndex is the primitive-index grid's background value: no
// primitive has claimed this voxel. It is the signed-int32
// reinterpretation of mesh.InvalidIndex's bit pattern (0xFFFFFFFF).
const InvalidPrimIndex int32 = -1

// distBackground seeds the squared-distance grid so that the very
// first primitive to evaluate any voxel always wins the "closer than
// what's there" comparison.
const distBackground = math.MaxFloat64

// workGrids bundles the three grids every stage after voxelization reads
// or mutates: the (initially squared, later real) distance grid, the
// winning-primitive index grid, and the membership mask M: Voxelize
// marks the shell voxels, ExpandNarrowBand adds every voxel it
// activates, and CleanSelfIntersections and trimToBand clear the
// voxels they deactivate.
type workGrids struct {
	D *grid.Grid[float64]
	I *grid.Grid[int32]
	M *grid.Grid[bool]
}

// bbox is an inclusive index-space coordinate range.
type bbox struct {
	Min, Max grid.Coord
}

func (b bbox) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// activeBBox computes the tight index-space bounding box over every
// active voxel of g. Returns an Empty bbox if g has no active voxels.
func activeBBox[T any](g *grid.Grid[T]) bbox {
	const maxI32 = int32(1<<31 - 1)
	b := bbox{
		Min: grid.Coord{X: maxI32, Y: maxI32, Z: maxI32},
		Max: grid.Coord{X: -maxI32, Y: -maxI32, Z: -maxI32},
	}
	g.ForEachLeaf(func(origin grid.Coord, v *grid.LeafView[T]) {
		v.ForEachActive(func(c grid.Coord, _ T) {
			if c.X < b.Min.X {
				b.Min.X = c.X
			}
			if c.Y < b.Min.Y {
				b.Min.Y = c.Y
			}
			if c.Z < b.Min.Z {
				b.Min.Z = c.Z
			}
			if c.X > b.Max.X {
				b.Max.X = c.X
			}
			if c.Y > b.Max.Y {
				b.Max.Y = c.Y
			}
			if c.Z > b.Max.Z {
				b.Max.Z = c.Z
			}
		})
	})
	return b
}
