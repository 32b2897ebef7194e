// Package geom implements the point-to-triangle squared distance and
// closest-point barycentrics the mesh-to-volume pipeline needs. It
// implements the standard region-based closest-point-on-triangle
// algorithm directly (Ericson, Real-Time Collision Detection §5.1.5).
package geom

// Vec3 is a plain double-precision 3-vector used throughout the
// geometry kit. Voxel centers and mesh points both convert to Vec3
// before any distance math happens.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) LengthSqr() float64   { return a.Dot(a) }

// Cross returns the cross product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// TriToPointDistSqr returns the squared Euclidean distance from x to
// the closed triangle (p0, p1, p2).
func TriToPointDistSqr(p0, p1, p2, x Vec3) float64 {
	d, _, _ := closestPointBary(p0, p1, p2, x)
	return d
}

// ClosestPointBary returns the squared distance from x to the closed
// triangle (p0, p1, p2) and the barycentric weights (u, v) of the
// closest point, such that the closest point equals
// u*p0 + v*p1 + (1-u-v)*p2.
func ClosestPointBary(p0, p1, p2, x Vec3) (distSqr, u, v float64) {
	return closestPointBary(p0, p1, p2, x)
}

// closestPointBary is the region-based closest-point-on-triangle
// algorithm: it determines which Voronoi region of the triangle (a
// vertex, an edge, or the face) contains the closest point, and
// computes that point's barycentric coordinates directly rather than
// iterating. Degenerate triangles (zero area, coincident vertices) fall
// through to the vertex/edge regions naturally because the edge vectors
// involved are themselves zero or colinear, so the closest point
// collapses onto whichever vertex or edge still has nonzero extent —
// no NaN is introduced as long as the inputs are finite.
func closestPointBary(p0, p1, p2, x Vec3) (distSqr, u, v float64) {
	ab := p1.Sub(p0)
	ac := p2.Sub(p0)
	ap := x.Sub(p0)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)

	// Vertex region p0.
	if d1 <= 0 && d2 <= 0 {
		return ap.LengthSqr(), 1, 0
	}

	bp := x.Sub(p1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)

	// Vertex region p1.
	if d3 >= 0 && d4 <= d3 {
		return bp.LengthSqr(), 0, 1
	}

	// Edge region p0-p1 (d1 == d3 only when p0 == p1: no extent to project onto).
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 && d1 != d3 {
		t := d1 / (d1 - d3)
		closest := p0.Add(ab.Scale(t))
		return closest.Sub(x).LengthSqr(), 1 - t, t
	}

	cp := x.Sub(p2)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)

	// Vertex region p2.
	if d6 >= 0 && d5 <= d6 {
		return cp.LengthSqr(), 0, 0
	}

	// Edge region p0-p2.
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		closest := p0.Add(ac.Scale(t))
		return closest.Sub(x).LengthSqr(), 1 - t, 0
	}

	// Edge region p1-p2.
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		closest := p1.Add(p2.Sub(p1).Scale(t))
		return closest.Sub(x).LengthSqr(), 0, 1 - t
	}

	// Face region: barycentric coordinates via the area ratios above.
	denom := 1 / (va + vb + vc)
	vv := vb * denom
	ww := vc * denom
	closest := p0.Add(ab.Scale(vv)).Add(ac.Scale(ww))
	return closest.Sub(x).LengthSqr(), 1 - vv - ww, vv
}
