// Package geometry provides the 2D affine transform and rectangle types
// shared by the page interpreter, layout grouper and spatial index.
package geometry

// Matrix is a 2D affine transform in the conventional PDF row-vector form
//
//	[x' y' 1] = [x y 1] * | a b 0 |
//	                      | c d 0 |
//	                      | e f 1 |
type Matrix struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Mul composes a local transform `l` with the prevailing transform `r`,
// returning `l`.`r` (the PDF `cm` operator concatenates the new matrix on
// the left of the CTM: CTM' = l x r).
func Mul(l, r Matrix) Matrix {
	return Matrix{
		A: l.A*r.A + l.B*r.C,
		B: l.A*r.B + l.B*r.D,
		C: l.C*r.A + l.D*r.C,
		D: l.C*r.B + l.D*r.D,
		E: l.E*r.A + l.F*r.C + r.E,
		F: l.E*r.B + l.F*r.D + r.F,
	}
}

// PreTranslate prepends a translation by (tx, ty) to m, matching the `Td`
// text-positioning operator: result = Translate(tx,ty) x m.
func PreTranslate(m Matrix, tx, ty float32) Matrix {
	return Mul(Matrix{A: 1, D: 1, E: tx, F: ty}, m)
}

// Transform maps the point (x, y) through m.
func (m Matrix) Transform(x, y float32) (float32, float32) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

// Rect is an axis-aligned rectangle. Degenerate rects (X1<X0 or Y1<Y0) are
// permitted and propagate through TransformRect without special-casing.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

// TransformRect maps the four corners of r through m and returns their
// axis-aligned bounding box.
func TransformRect(r Rect, m Matrix) Rect {
	x0, y0 := m.Transform(r.X0, r.Y0)
	x1, y1 := m.Transform(r.X1, r.Y0)
	x2, y2 := m.Transform(r.X1, r.Y1)
	x3, y3 := m.Transform(r.X0, r.Y1)

	minX, maxX := minOf4(x0, x1, x2, x3), maxOf4(x0, x1, x2, x3)
	minY, maxY := minOf4(y0, y1, y2, y3), maxOf4(y0, y1, y2, y3)
	return Rect{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
}

// Union returns the smallest rect containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		X0: minOf2(r.X0, s.X0),
		Y0: minOf2(r.Y0, s.Y0),
		X1: maxOf2(r.X1, s.X1),
		Y1: maxOf2(r.Y1, s.Y1),
	}
}

// Contains reports whether s lies entirely within r.
func (r Rect) Contains(s Rect) bool {
	return r.X0 <= s.X0 && s.X1 <= r.X1 && r.Y0 <= s.Y0 && s.Y1 <= r.Y1
}

// Width returns the rect's horizontal extent.
func (r Rect) Width() float32 { return r.X1 - r.X0 }

// Height returns the rect's vertical extent.
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

func minOf2(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxOf2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minOf4(a, b, c, d float32) float32 {
	return minOf2(minOf2(a, b), minOf2(c, d))
}

func maxOf4(a, b, c, d float32) float32 {
	return maxOf2(maxOf2(a, b), maxOf2(c, d))
}
