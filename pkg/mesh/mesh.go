// Package mesh defines the triangle/quad mesh input to the mesh-to-volume
// pipeline. Points are stored in index space, i.e. already transformed by
// the inverse of the caller's world/index transform (see pkg/xform).
package mesh

import "fmt"

// InvalidIndex is the sentinel used both for a polygon's unused fourth
// vertex slot (triangle, not quad) and for "no primitive" in the index
// grid produced by the voxelizer. It is the maximum uint32 value
// reinterpreted as the signed 32-bit sentinel.
const InvalidIndex uint32 = 0xFFFFFFFF

// Point is a single mesh vertex in index space.
type Point [3]float32

// Polygon is a 4-tuple of point indices. Polygon[3] == InvalidIndex means
// the polygon is a triangle (Polygon[0], Polygon[1], Polygon[2]); otherwise
// it is a quad, split by the pipeline into triangles (v0,v1,v2) and
// (v0,v3,v2).
type Polygon [4]uint32

// IsTriangle reports whether p represents a triangle rather than a quad.
func (p Polygon) IsTriangle() bool {
	return p[3] == InvalidIndex
}

// Mesh is an ordered point list and an ordered polygon list, both in
// index space.
type Mesh struct {
	Points   []Point
	Polygons []Polygon
}

// NumPoints returns the number of points in the mesh.
func (m *Mesh) NumPoints() int { return len(m.Points) }

// NumPolygons returns the number of polygons (triangles and/or quads).
func (m *Mesh) NumPolygons() int { return len(m.Polygons) }

// IsEmpty reports whether the mesh has no geometry at all.
func (m *Mesh) IsEmpty() bool {
	return len(m.Points) == 0 || len(m.Polygons) == 0
}

// Validate performs the minimal sanity check the pipeline relies on:
// that every referenced point index is in range. Out-of-range indices
// and malformed quads are otherwise the caller's responsibility — this
// is a convenience the pipeline does not call itself, offered for
// callers who want to fail fast instead of relying on undefined
// behavior.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Points))
	for i, p := range m.Polygons {
		for slot, idx := range p {
			if slot == 3 && idx == InvalidIndex {
				continue
			}
			if idx >= n {
				return fmt.Errorf("mesh: polygon %d slot %d references point %d, have %d points", i, slot, idx, n)
			}
		}
	}
	return nil
}

// Triangle returns the first triangle of polygon i: (v0, v1, v2).
func (m *Mesh) Triangle(i int) (v0, v1, v2 Point) {
	p := m.Polygons[i]
	return m.Points[p[0]], m.Points[p[1]], m.Points[p[2]]
}

// SecondTriangle returns the second triangle of a quad polygon i:
// (v0, v3, v2). Only valid when Polygons[i].IsTriangle() is false.
func (m *Mesh) SecondTriangle(i int) (v0, v3, v2 Point) {
	p := m.Polygons[i]
	return m.Points[p[0]], m.Points[p[3]], m.Points[p[2]]
}
