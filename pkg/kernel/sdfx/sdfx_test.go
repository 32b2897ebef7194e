package sdfx

import (
	"math"
	"testing"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	m, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.NumPoints() == 0 {
		t.Fatal("expected non-zero point count")
	}
	triCount := m.NumPolygons()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if triCount != 12 {
		t.Logf("box triangle count: %d (expected 12)", triCount)
	}
	for i, p := range m.Polygons {
		if !p.IsTriangle() {
			t.Fatalf("polygon %d is not a triangle", i)
		}
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10, 32)
	m, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.NumPolygons() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	t.Logf("cylinder triangle count: %d", m.NumPolygons())
}

func TestSphere(t *testing.T) {
	k := New()
	s := k.Sphere(10)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	min, max := s.BoundingBox()
	const tol = 0.01
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]+10) > tol {
			t.Errorf("min[%d] = %f, expected -10", i, min[i])
		}
		if math.Abs(max[i]-10) > tol {
			t.Errorf("max[%d] = %f, expected 10", i, max[i])
		}
	}
}

func TestDifference(t *testing.T) {
	k := New()

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Translate(k.Cylinder(120, 20, 32), 50, 50, 50)
	diff := k.Difference(box, cyl)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.NumPolygons() <= boxMesh.NumPolygons() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.NumPolygons(), boxMesh.NumPolygons())
	}
	t.Logf("box triangles: %d, difference triangles: %d", boxMesh.NumPolygons(), diffMesh.NumPolygons())
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	m, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
	t.Logf("union triangle count: %d", m.NumPolygons())
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Box(10,10,10) has its min corner at the origin, so translating by
	// (100,200,300) should land it at (100,200,300) to (110,210,310).
	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	// Box's min corner sits at the origin.
	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	m, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
	t.Logf("intersection triangle count: %d", m.NumPolygons())
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(100, 10, 10), -50, -5, -5)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestCellsOverride(t *testing.T) {
	lo := &SdfxKernel{Cells: 8}
	hi := &SdfxKernel{Cells: 48}

	s := lo.Sphere(10)
	loMesh, err := lo.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh (lo) failed: %v", err)
	}
	hiMesh, err := hi.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh (hi) failed: %v", err)
	}
	if hiMesh.NumPolygons() <= loMesh.NumPolygons() {
		t.Fatalf("higher Cells should tessellate more triangles: lo=%d hi=%d",
			loMesh.NumPolygons(), hiMesh.NumPolygons())
	}
}
