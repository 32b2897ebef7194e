package fixtures

import "github.com/chazu/vdbcore/pkg/mesh"

// boxCorners returns the 8 corners of an axis-aligned box with its
// minimum corner at min and the given per-axis size, in the standard
// cube-vertex winding order (0-3 the bottom face, 4-7 the top face).
func boxCorners(min mesh.Point, size mesh.Point) [8]mesh.Point {
	return [8]mesh.Point{
		{min[0], min[1], min[2]},
		{min[0] + size[0], min[1], min[2]},
		{min[0] + size[0], min[1] + size[1], min[2]},
		{min[0], min[1] + size[1], min[2]},
		{min[0], min[1], min[2] + size[2]},
		{min[0] + size[0], min[1], min[2] + size[2]},
		{min[0] + size[0], min[1] + size[1], min[2] + size[2]},
		{min[0], min[1] + size[1], min[2] + size[2]},
	}
}

// boxQuadFaces lists the 6 faces of boxCorners as quads (outward
// winding), each later split into two triangles the same way a quad
// polygon in mesh.Mesh is: (v0,v1,v2) and (v0,v3,v2).
var boxQuadFaces = [6][4]int{
	{0, 3, 2, 1}, // -Z (bottom)
	{4, 5, 6, 7}, // +Z (top)
	{0, 1, 5, 4}, // -Y
	{3, 7, 6, 2}, // +Y
	{0, 4, 7, 3}, // -X
	{1, 2, 6, 5}, // +X
}

// Box returns an exact 12-triangle axis-aligned box mesh with its
// minimum corner at min and the given size: an axis-aligned cube with
// corners at exact lattice-aligned coordinates, built directly rather
// than via a marching-cubes approximation so tests can assert exact
// distances at and near its corners.
func Box(min, size mesh.Point) *mesh.Mesh {
	corners := boxCorners(min, size)
	m := &mesh.Mesh{
		Points:   append([]mesh.Point{}, corners[:]...),
		Polygons: make([]mesh.Polygon, 0, 12),
	}
	for _, f := range boxQuadFaces {
		m.Polygons = append(m.Polygons,
			mesh.Polygon{uint32(f[0]), uint32(f[1]), uint32(f[2]), mesh.InvalidIndex},
			mesh.Polygon{uint32(f[0]), uint32(f[2]), uint32(f[3]), mesh.InvalidIndex},
		)
	}
	return m
}

// Cube is shorthand for Box with a cubic size and minimum corner at
// the origin.
func Cube(side float32) *mesh.Mesh {
	return Box(mesh.Point{0, 0, 0}, mesh.Point{side, side, side})
}

// OverlappingBoxes returns two 10-unit boxes offset so they overlap by
// half their extent along every axis, each contributed as raw,
// unmerged surface triangles — i.e. the two shells genuinely
// self-intersect rather than being boolean-unioned first.
func OverlappingBoxes() *mesh.Mesh {
	a := Box(mesh.Point{0, 0, 0}, mesh.Point{10, 10, 10})
	b := Box(mesh.Point{5, 5, 5}, mesh.Point{10, 10, 10})
	return concat(a, b)
}

// DegenerateCube returns a valid 10-unit cube with one extra
// zero-area triangle appended (two coincident vertices): the pipeline
// must complete and the degenerate triangle must contribute no
// spurious inside region.
func DegenerateCube() *mesh.Mesh {
	m := Cube(10)
	base := uint32(len(m.Points))
	m.Points = append(m.Points, mesh.Point{5, 5, 5}, mesh.Point{5, 5, 5}, mesh.Point{5, 5, 7})
	m.Polygons = append(m.Polygons, mesh.Polygon{base, base + 1, base + 2, mesh.InvalidIndex})
	return m
}

// Disk returns a single quad lying in the z=0 plane: an open
// (non-closed) surface usable only with the unsigned conversion.
func Disk(halfExtent float32) *mesh.Mesh {
	h := halfExtent
	return &mesh.Mesh{
		Points: []mesh.Point{
			{-h, -h, 0},
			{h, -h, 0},
			{h, h, 0},
			{-h, h, 0},
		},
		Polygons: []mesh.Polygon{{0, 1, 2, 3}},
	}
}

// concat appends b's points and polygons onto a fresh copy of a,
// re-basing b's point indices.
func concat(a, b *mesh.Mesh) *mesh.Mesh {
	out := &mesh.Mesh{
		Points:   append([]mesh.Point{}, a.Points...),
		Polygons: append([]mesh.Polygon{}, a.Polygons...),
	}
	base := uint32(len(out.Points))
	out.Points = append(out.Points, b.Points...)
	for _, p := range b.Polygons {
		np := p
		for i := range np {
			if np[i] != mesh.InvalidIndex {
				np[i] += base
			}
		}
		out.Polygons = append(out.Polygons, np)
	}
	return out
}
