package geom

import "math"

// Affine is a 2D affine matrix in SVG order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix.
var Identity = Affine{A: 1, D: 1}

// Translation returns a pure translation.
func Translation(dx, dy float64) Affine { return Affine{A: 1, D: 1, E: dx, F: dy} }

// Rotation returns a rotation about the origin by deg degrees. Positive
// angles turn clockwise on a y-down screen. Right angles use exact sine and
// cosine so that quarter turns map integer corners to integer corners.
func Rotation(deg float64) Affine {
	s, c := sincos(deg)
	return Affine{A: c, B: s, C: -s, D: c}
}

// Mul returns m∘n, i.e. n applied first and then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps p through m.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse matrix and false when m is singular.
func (m Affine) Invert() (Affine, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Affine{}, false
	}
	inv := Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine) IsIdentity() bool { return m == Identity }

// Transform is a rotation about a pivot point. The zero value is the identity.
//
// It is kept in decomposed form so that surfaces with native rotate-about
// primitives (SVG, gg) can use them directly; Matrix gives the composed form.
type Transform struct {
	Degrees float64 `json:"degrees"`
	Pivot   Point   `json:"pivot"`
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform) IsIdentity() bool {
	return math.Mod(t.Degrees, 360) == 0
}

// Matrix composes translate(pivot) · rotate · translate(-pivot).
func (t Transform) Matrix() Affine {
	if t.IsIdentity() {
		return Identity
	}
	return Translation(t.Pivot.X, t.Pivot.Y).
		Mul(Rotation(t.Degrees)).
		Mul(Translation(-t.Pivot.X, -t.Pivot.Y))
}

// Apply maps p from the element's local frame to screen space.
func (t Transform) Apply(p Point) Point { return t.Matrix().Apply(p) }

// Unapply maps a screen point back into the element's unrotated frame.
func (t Transform) Unapply(p Point) Point {
	inv, ok := t.Matrix().Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// Bounds returns the axis-aligned bounding box of r after t.
func (t Transform) Bounds(r Rect) Rect {
	if t.IsIdentity() {
		return r
	}
	c := r.Corners()
	m := t.Matrix()
	return Bounds(m.Apply(c[0]), m.Apply(c[1]), m.Apply(c[2]), m.Apply(c[3]))
}

// Radians returns the rotation angle in radians.
func (t Transform) Radians() float64 { return t.Degrees * math.Pi / 180 }

func sincos(deg float64) (sin, cos float64) {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}
