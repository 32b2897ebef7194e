package mesh_test

import (
	"testing"

	"github.com/chazu/vdbcore/pkg/mesh"
)

func TestPolygonIsTriangle(t *testing.T) {
	tests := []struct {
		name string
		p    mesh.Polygon
		want bool
	}{
		{"triangle", mesh.Polygon{0, 1, 2, mesh.InvalidIndex}, true},
		{"quad", mesh.Polygon{0, 1, 2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsTriangle(); got != tt.want {
				t.Errorf("IsTriangle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		m    mesh.Mesh
		want bool
	}{
		{"zero value", mesh.Mesh{}, true},
		{"points but no polygons", mesh.Mesh{Points: []mesh.Point{{0, 0, 0}}}, true},
		{"polygons but no points", mesh.Mesh{Polygons: []mesh.Polygon{{0, 1, 2, mesh.InvalidIndex}}}, true},
		{
			"non-empty",
			mesh.Mesh{
				Points:   []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Polygons: []mesh.Polygon{{0, 1, 2, mesh.InvalidIndex}},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeshNumPointsAndPolygons(t *testing.T) {
	m := mesh.Mesh{
		Points:   []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Polygons: []mesh.Polygon{{0, 1, 2, mesh.InvalidIndex}, {0, 1, 2, 3}},
	}
	if got := m.NumPoints(); got != 4 {
		t.Errorf("NumPoints() = %d, want 4", got)
	}
	if got := m.NumPolygons(); got != 2 {
		t.Errorf("NumPolygons() = %d, want 2", got)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       mesh.Mesh
		wantErr bool
	}{
		{
			"valid triangle",
			mesh.Mesh{
				Points:   []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Polygons: []mesh.Polygon{{0, 1, 2, mesh.InvalidIndex}},
			},
			false,
		},
		{
			"valid quad",
			mesh.Mesh{
				Points:   []mesh.Point{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
				Polygons: []mesh.Polygon{{0, 1, 2, 3}},
			},
			false,
		},
		{
			"out-of-range vertex",
			mesh.Mesh{
				Points:   []mesh.Point{{0, 0, 0}, {1, 0, 0}},
				Polygons: []mesh.Polygon{{0, 1, 5, mesh.InvalidIndex}},
			},
			true,
		},
		{
			"empty mesh validates cleanly",
			mesh.Mesh{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeshTriangleAndSecondTriangle(t *testing.T) {
	m := mesh.Mesh{
		Points: []mesh.Point{
			{0, 0, 0}, // 0
			{1, 0, 0}, // 1
			{1, 1, 0}, // 2
			{0, 1, 0}, // 3
		},
		Polygons: []mesh.Polygon{{0, 1, 2, 3}},
	}

	v0, v1, v2 := m.Triangle(0)
	if v0 != m.Points[0] || v1 != m.Points[1] || v2 != m.Points[2] {
		t.Errorf("Triangle(0) = (%v, %v, %v), want first three points", v0, v1, v2)
	}

	w0, w3, w2 := m.SecondTriangle(0)
	if w0 != m.Points[0] || w3 != m.Points[3] || w2 != m.Points[2] {
		t.Errorf("SecondTriangle(0) = (%v, %v, %v), want (p0, p3, p2)", w0, w3, w2)
	}
}
