// Package grid implements the sparse, tiled three-dimensional grid
// facade that the mesh-to-volume pipeline (pkg/voxelize) reads and
// writes. Three instantiations of the same generic Grid[T] type back
// the distance, primitive-index and intersection-mask grids the
// pipeline needs; they all share the same leaf topology primitives
// here.
//
// A Grid is a hash map from leaf origin to a dense 8³ leaf. This is a
// deliberate simplification of a multi-level tree (root/internal/leaf)
// down to a single sparse level, sufficient to realize every invariant
// expressed in terms of "active voxel" and "background value".
package grid

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	leafLog2Dim = 3
	leafDim     = 1 << leafLog2Dim // 8
	leafVoxels  = leafDim * leafDim * leafDim
)

// LeafDim is the edge length, in voxels, of one leaf. Exported so
// callers outside the package (pkg/voxelize's leaf-granular flood
// fill) can step by whole leaves without duplicating the constant.
const LeafDim = leafDim

// leafOriginMask clears the low leafLog2Dim bits of each coordinate,
// giving the origin of the leaf containing that coordinate. This works
// correctly for negative coordinates because Go's integer AND on a
// two's-complement int32 rounds toward negative infinity, exactly like
// OpenVDB's own Coord masking.
const leafOriginMask = ^int32(leafDim - 1)

func leafOrigin(c Coord) Coord {
	return Coord{c.X & leafOriginMask, c.Y & leafOriginMask, c.Z & leafOriginMask}
}

func localOffset(c, origin Coord) int {
	lx := int(c.X - origin.X)
	ly := int(c.Y - origin.Y)
	lz := int(c.Z - origin.Z)
	return (lz << (2 * leafLog2Dim)) | (ly << leafLog2Dim) | lx
}

// leaf is one dense 8³ tile of a Grid[T].
type leaf[T any] struct {
	origin Coord
	values [leafVoxels]T
	active leafMask
}

// Grid is a sparse, leaf-tiled grid of values of type T with
// per-voxel active/inactive state and a background value assumed at
// every inactive lattice site. Grid is safe for concurrent accessor use
// as long as accessors are never shared across goroutines (see
// Accessor).
type Grid[T any] struct {
	mu         sync.RWMutex
	leaves     map[Coord]*leaf[T]
	background T
	// leafBackground overrides the grid-wide background for specific
	// missing leaves, used by the post-processor's per-tile
	// ±bandWidth rewrite of the implicit interior background.
	leafBackground map[Coord]T
	name           string
}

// New returns an empty Grid with the given background value.
func New[T any](background T) *Grid[T] {
	return &Grid[T]{
		leaves:     make(map[Coord]*leaf[T]),
		background: background,
	}
}

// Background returns the grid's default background value.
func (g *Grid[T]) Background() T {
	return g.background
}

// SetBackground replaces the grid-wide background value, as the final
// background swap to +exBandWidth in post-processing does.
func (g *Grid[T]) SetBackground(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.background = v
}

// Name returns an optional human-readable grid name (for logging only).
func (g *Grid[T]) Name() string { return g.name }

// SetName sets the optional grid name.
func (g *Grid[T]) SetName(n string) { g.name = n }

// SetLeafBackgroundOverride records a background value for the
// (currently or eventually) missing leaf whose origin is leafOrigin(c).
// BackgroundAt consults this map before falling back to the grid-wide
// background.
func (g *Grid[T]) SetLeafBackgroundOverride(c Coord, v T) {
	origin := leafOrigin(c)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.leafBackground == nil {
		g.leafBackground = make(map[Coord]T)
	}
	g.leafBackground[origin] = v
}

// BackgroundAt returns the background value that applies at coordinate c:
// a per-leaf override if one was recorded, otherwise the grid-wide
// background.
func (g *Grid[T]) BackgroundAt(c Coord) T {
	origin := leafOrigin(c)
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.leafBackground != nil {
		if v, ok := g.leafBackground[origin]; ok {
			return v
		}
	}
	return g.background
}

// HasLeaf reports whether a leaf exists at the leaf containing c,
// regardless of whether any voxel in it is active.
func (g *Grid[T]) HasLeaf(c Coord) bool {
	origin := leafOrigin(c)
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.leaves[origin]
	return ok
}

// EnsureLeaf creates an empty (all-background, all-inactive) leaf at the
// leaf containing c if one does not already exist. Used to preallocate
// leaves ahead of a parallel pass that will write into them concurrently.
func (g *Grid[T]) EnsureLeaf(c Coord) {
	origin := leafOrigin(c)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getOrCreateLeafLocked(origin)
}

func (g *Grid[T]) getOrCreateLeafLocked(origin Coord) *leaf[T] {
	lf, ok := g.leaves[origin]
	if !ok {
		lf = &leaf[T]{origin: origin}
		for i := range lf.values {
			lf.values[i] = g.background
		}
		g.leaves[origin] = lf
	}
	return lf
}

// ActiveVoxelCount returns the total number of active voxels across all
// leaves.
func (g *Grid[T]) ActiveVoxelCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, lf := range g.leaves {
		n += lf.active.countOn()
	}
	return n
}

// LeafCount returns the number of allocated leaves, active or not.
func (g *Grid[T]) LeafCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.leaves)
}

// PruneEmptyLeaves removes every leaf with no active voxel, collapsing
// it back into an implicit background tile.
func (g *Grid[T]) PruneEmptyLeaves() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for origin, lf := range g.leaves {
		if lf.active.isEmpty() {
			delete(g.leaves, origin)
		}
	}
}

// TopologyHash returns an order-independent checksum of the grid's
// active-voxel topology: which leaves exist and which bits are set in
// each. Two grids with the same active set (regardless of insertion
// order) hash identically; this backs idempotence checks (e.g. a
// second trim pass leaving topology unchanged) without a deep
// equality walk.
func (g *Grid[T]) TopologyHash() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var acc uint64
	var buf [12 + 8*8]byte // origin (3x int32) + 8 mask words
	for origin, lf := range g.leaves {
		if lf.active.isEmpty() {
			continue
		}
		putCoord(buf[0:12], origin)
		for i, w := range lf.active {
			putU64(buf[12+i*8:12+i*8+8], w)
		}
		h := xxhash.Sum64(buf[:])
		acc ^= h // XOR makes the combination order-independent
	}
	return acc
}

func putCoord(b []byte, c Coord) {
	putU32(b[0:4], uint32(c.X))
	putU32(b[4:8], uint32(c.Y))
	putU32(b[8:12], uint32(c.Z))
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
