package spatial

import (
	"testing"

	"github.com/chazu/vdbcore/pkg/geom"
	"github.com/chazu/vdbcore/pkg/mesh"
)

func cubeMesh() *mesh.Mesh {
	corners := []mesh.Point{
		{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0},
		{0, 0, 10}, {10, 0, 10}, {10, 10, 10}, {0, 10, 10},
	}
	faces := [6][4]uint32{
		{0, 3, 2, 1},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{3, 7, 6, 2},
		{0, 4, 7, 3},
		{1, 2, 6, 5},
	}
	m := &mesh.Mesh{Points: corners}
	for _, f := range faces {
		m.Polygons = append(m.Polygons,
			mesh.Polygon{f[0], f[1], f[2], mesh.InvalidIndex},
			mesh.Polygon{f[0], f[2], f[3], mesh.InvalidIndex},
		)
	}
	return m
}

func TestBuildIndexesEveryTriangleOfAQuad(t *testing.T) {
	m := cubeMesh()
	idx := Build(m, 0.1)

	// Near the center of the top face (z=10), a query box should hit
	// the top face's split triangles (stored as two triangle polygons),
	// and every hit must be a valid polygon index.
	hits := idx.Candidates(geom.Vec3{X: 5, Y: 5, Z: 10}, 0.5)
	if len(hits) == 0 {
		t.Fatal("Candidates() found nothing near a face center")
	}
	for _, h := range hits {
		if h < 0 || int(h) >= len(m.Polygons) {
			t.Errorf("Candidates() returned out-of-range polygon index %d", h)
		}
	}
}

func TestCandidatesEmptyFarFromMesh(t *testing.T) {
	m := cubeMesh()
	idx := Build(m, 0.1)

	hits := idx.Candidates(geom.Vec3{X: 1000, Y: 1000, Z: 1000}, 0.5)
	if len(hits) != 0 {
		t.Errorf("Candidates() far from the mesh = %v, want empty", hits)
	}
}

func TestCandidatesRespectsPadding(t *testing.T) {
	m := cubeMesh()
	// A pad of exactly 0 collapses every face's flat AABB dimension to
	// zero length, which rtreego rejects outright (see
	// insertTriangleAABB) — use a negligible pad instead to keep every
	// triangle actually inserted while still being "tight".
	tight := Build(m, 0.001)
	padded := Build(m, 2)

	// A point 1 unit outside the top face (z=11) is outside the
	// triangle's tight AABB but within a 2-unit pad.
	p := geom.Vec3{X: 5, Y: 5, Z: 11}
	if hits := tight.Candidates(p, 0.01); len(hits) != 0 {
		t.Errorf("tight Candidates() at %v = %v, want empty", p, hits)
	}
	if hits := padded.Candidates(p, 0.01); len(hits) == 0 {
		t.Errorf("padded Candidates() at %v = empty, want at least one hit", p)
	}
}

func TestDegenerateTriangleDoesNotPanic(t *testing.T) {
	m := &mesh.Mesh{
		Points: []mesh.Point{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		Polygons: []mesh.Polygon{
			{0, 1, 2, mesh.InvalidIndex},
		},
	}
	idx := Build(m, 0)
	_ = idx.Candidates(geom.Vec3{X: 0, Y: 0, Z: 0}, 1)
}
