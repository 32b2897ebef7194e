package grid

import "math"

// Coord is an integer lattice coordinate in index space.
type Coord struct {
	X, Y, Z int32
}

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// NearestCoord rounds a point in index space to the nearest lattice
// site.
func NearestCoord(p [3]float64) Coord {
	return Coord{
		X: int32(math.Floor(p[0] + 0.5)),
		Y: int32(math.Floor(p[1] + 0.5)),
		Z: int32(math.Floor(p[2] + 0.5)),
	}
}

// CoordOffsets is the fixed 26-neighbor offset table: offsets[0:6] are
// the 6 face neighbors, offsets[0:18] are the 18 face+edge neighbors,
// offsets[0:26] are all face+edge+corner neighbors. Index 3 is +Y and
// index 5 is +Z, the two "forward" directions the contour tracer's row
// scan probes.
var CoordOffsets = [26]Coord{
	// 6 face neighbors. Index 3 = +Y, index 5 = +Z.
	{-1, 0, 0}, {1, 0, 0}, // 0,1: -X, +X
	{0, -1, 0}, {0, 1, 0}, // 2,3: -Y, +Y
	{0, 0, -1}, {0, 0, 1}, // 4,5: -Z, +Z

	// 12 edge neighbors (face diagonals), bringing the total to 18.
	{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0}, // XY plane
	{-1, 0, -1}, {1, 0, -1}, {-1, 0, 1}, {1, 0, 1}, // XZ plane
	{0, -1, -1}, {0, 1, -1}, {0, -1, 1}, {0, 1, 1}, // YZ plane

	// 8 corner neighbors (space diagonals), bringing the total to 26.
	{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
}

// Face6, FaceEdge18 and All26 are convenience slices over CoordOffsets
// naming the neighbor counts used by each pipeline stage.
var (
	Face6      = CoordOffsets[0:6]
	FaceEdge18 = CoordOffsets[0:18]
	All26      = CoordOffsets[0:26]
)
