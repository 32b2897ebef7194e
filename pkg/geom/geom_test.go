package geom_test

import (
	"math"
	"testing"

	"github.com/chazu/vdbcore/pkg/geom"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestVec3Arithmetic(t *testing.T) {
	a := geom.Vec3{X: 1, Y: 2, Z: 3}
	b := geom.Vec3{X: 4, Y: -1, Z: 0.5}

	if got := a.Add(b); got != (geom.Vec3{X: 5, Y: 1, Z: 3.5}) {
		t.Errorf("Add() = %v", got)
	}
	if got := a.Sub(b); got != (geom.Vec3{X: -3, Y: 3, Z: 2.5}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(2); got != (geom.Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale() = %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 4-2+1.5, 1e-9) {
		t.Errorf("Dot() = %v, want %v", got, 4-2+1.5)
	}
	if got := (geom.Vec3{X: 3, Y: 4, Z: 0}).LengthSqr(); got != 25 {
		t.Errorf("LengthSqr() = %v, want 25", got)
	}
}

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b geom.Vec3
		want geom.Vec3
	}{
		{"x cross y is z", geom.Vec3{X: 1}, geom.Vec3{Y: 1}, geom.Vec3{Z: 1}},
		{"y cross z is x", geom.Vec3{Y: 1}, geom.Vec3{Z: 1}, geom.Vec3{X: 1}},
		{"parallel vectors", geom.Vec3{X: 2, Y: 0, Z: 0}, geom.Vec3{X: 5, Y: 0, Z: 0}, geom.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); got != tt.want {
				t.Errorf("Cross() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriToPointDistSqrVertexRegion(t *testing.T) {
	p0 := geom.Vec3{X: 0, Y: 0, Z: 0}
	p1 := geom.Vec3{X: 1, Y: 0, Z: 0}
	p2 := geom.Vec3{X: 0, Y: 1, Z: 0}

	x := geom.Vec3{X: -1, Y: -1, Z: 0}
	got := geom.TriToPointDistSqr(p0, p1, p2, x)
	want := 2.0 // distance to p0
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("TriToPointDistSqr() = %v, want %v", got, want)
	}
}

func TestClosestPointBaryEdgeRegion(t *testing.T) {
	p0 := geom.Vec3{X: 0, Y: 0, Z: 0}
	p1 := geom.Vec3{X: 2, Y: 0, Z: 0}
	p2 := geom.Vec3{X: 0, Y: 2, Z: 0}

	// Point above the midpoint of edge p0-p1, off the triangle plane.
	x := geom.Vec3{X: 1, Y: 0, Z: 3}
	distSqr, u, v := geom.ClosestPointBary(p0, p1, p2, x)

	if !almostEqual(distSqr, 9, 1e-6) {
		t.Errorf("distSqr = %v, want 9", distSqr)
	}
	closest := p0.Scale(u).Add(p1.Scale(v)).Add(p2.Scale(1 - u - v))
	if !almostEqual(closest.X, 1, 1e-6) || !almostEqual(closest.Y, 0, 1e-6) || !almostEqual(closest.Z, 0, 1e-6) {
		t.Errorf("reconstructed closest point = %v, want (1,0,0)", closest)
	}
}

func TestClosestPointBaryFaceRegion(t *testing.T) {
	p0 := geom.Vec3{X: 0, Y: 0, Z: 0}
	p1 := geom.Vec3{X: 2, Y: 0, Z: 0}
	p2 := geom.Vec3{X: 0, Y: 2, Z: 0}

	// Directly above an interior point, on the face's Voronoi region.
	x := geom.Vec3{X: 0.5, Y: 0.5, Z: 4}
	distSqr, u, v := geom.ClosestPointBary(p0, p1, p2, x)

	if !almostEqual(distSqr, 16, 1e-6) {
		t.Errorf("distSqr = %v, want 16", distSqr)
	}
	closest := p0.Scale(u).Add(p1.Scale(v)).Add(p2.Scale(1 - u - v))
	if !almostEqual(closest.X, 0.5, 1e-6) || !almostEqual(closest.Y, 0.5, 1e-6) || !almostEqual(closest.Z, 0, 1e-6) {
		t.Errorf("reconstructed closest point = %v, want (0.5, 0.5, 0)", closest)
	}
}

func TestClosestPointBaryPointOnTriangle(t *testing.T) {
	p0 := geom.Vec3{X: 0, Y: 0, Z: 0}
	p1 := geom.Vec3{X: 4, Y: 0, Z: 0}
	p2 := geom.Vec3{X: 0, Y: 4, Z: 0}

	x := geom.Vec3{X: 1, Y: 1, Z: 0}
	distSqr, _, _ := geom.ClosestPointBary(p0, p1, p2, x)
	if !almostEqual(distSqr, 0, 1e-9) {
		t.Errorf("distSqr = %v, want 0 for a point on the triangle", distSqr)
	}
}

func TestClosestPointBaryDegenerateTriangle(t *testing.T) {
	// All three vertices coincide; the closest point must collapse onto
	// that single point without producing NaN.
	p := geom.Vec3{X: 1, Y: 1, Z: 1}
	x := geom.Vec3{X: 5, Y: 5, Z: 5}

	distSqr, u, v := geom.ClosestPointBary(p, p, p, x)
	want := x.Sub(p).LengthSqr()
	if !almostEqual(distSqr, want, 1e-9) {
		t.Errorf("distSqr = %v, want %v", distSqr, want)
	}
	if math.IsNaN(u) || math.IsNaN(v) {
		t.Errorf("barycentric weights are NaN: u=%v v=%v", u, v)
	}
}
