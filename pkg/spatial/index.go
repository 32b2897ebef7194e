// Package spatial provides a bounding-box broad-phase over a mesh's
// primitive list, used by the narrow-band expander's nearest-primitive
// search to restrict its closest-primitive search to plausible
// candidates instead of scanning every primitive, and by the
// intersection-sign corrector to find the primitives near a voxel.
package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/chazu/vdbcore/pkg/geom"
	"github.com/chazu/vdbcore/pkg/mesh"
)

const (
	minChildren = 25
	maxChildren = 50
)

// primBox is one primitive's padded AABB, the rtreego.Spatial
// implementation stored in the tree.
type primBox struct {
	index int32
	rect  rtreego.Rect
}

func (b *primBox) Bounds() rtreego.Rect { return b.rect }

// Index is an R-tree broad-phase over every triangle a mesh's polygon
// list expands to (a quad contributes two AABBs, one per split
// triangle, both tagged with the quad's polygon index).
type Index struct {
	tree *rtreego.Rtree
}

// Build constructs an Index over m's primitives. pad inflates every
// AABB by pad index-space units on each side, so a query point within
// pad of a primitive's true bounds is guaranteed to find it even
// though the AABB itself only bounds the triangle's vertices.
func Build(m *mesh.Mesh, pad float64) *Index {
	tree := rtreego.NewTree(3, minChildren, maxChildren)
	for i, poly := range m.Polygons {
		insertTriangleAABB(tree, int32(i), triVerts(m, poly, false), pad)
		if !poly.IsTriangle() {
			insertTriangleAABB(tree, int32(i), triVerts(m, poly, true), pad)
		}
	}
	return &Index{tree: tree}
}

func triVerts(m *mesh.Mesh, p mesh.Polygon, second bool) [3]geom.Vec3 {
	if !second {
		return [3]geom.Vec3{toVec3(m.Points[p[0]]), toVec3(m.Points[p[1]]), toVec3(m.Points[p[2]])}
	}
	return [3]geom.Vec3{toVec3(m.Points[p[0]]), toVec3(m.Points[p[3]]), toVec3(m.Points[p[2]])}
}

func toVec3(p mesh.Point) geom.Vec3 { return geom.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])} }

func insertTriangleAABB(tree *rtreego.Rtree, primIdx int32, v [3]geom.Vec3, pad float64) {
	minP := v[0]
	maxP := v[0]
	for _, p := range v[1:] {
		minP = geom.Vec3{X: min(minP.X, p.X), Y: min(minP.Y, p.Y), Z: min(minP.Z, p.Z)}
		maxP = geom.Vec3{X: max(maxP.X, p.X), Y: max(maxP.Y, p.Y), Z: max(maxP.Z, p.Z)}
	}
	origin := rtreego.Point{minP.X - pad, minP.Y - pad, minP.Z - pad}
	lengths := []float64{
		(maxP.X - minP.X) + 2*pad,
		(maxP.Y - minP.Y) + 2*pad,
		(maxP.Z - minP.Z) + 2*pad,
	}
	rect, err := rtreego.NewRect(origin, lengths)
	if err != nil {
		// A zero-length AABB side; pad keeps lengths strictly positive
		// unless pad is zero, so this only fires for pad == 0 on a
		// triangle that is flat along some axis (any axis-aligned
		// face, or a collapsed triangle). Skip it rather than treating
		// it as an error.
		return
	}
	tree.Insert(&primBox{index: primIdx, rect: rect})
}

// Candidates returns the (possibly duplicated, across the two
// triangles of a quad) primitive indices whose padded AABB intersects a
// cube of the given half-extent centered at c.
func (ix *Index) Candidates(c geom.Vec3, halfExtent float64) []int32 {
	origin := rtreego.Point{c.X - halfExtent, c.Y - halfExtent, c.Z - halfExtent}
	lengths := []float64{2 * halfExtent, 2 * halfExtent, 2 * halfExtent}
	rect, err := rtreego.NewRect(origin, lengths)
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(rect)
	out := make([]int32, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*primBox).index)
	}
	return out
}
