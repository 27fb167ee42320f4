package geometry

import "testing"

func TestIdentityIsNoOp(t *testing.T) {
	r := Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}
	got := TransformRect(r, Identity())
	if got != r {
		t.Fatalf("identity transform changed rect: got %+v want %+v", got, r)
	}
}

func TestMulComposesLeftToRight(t *testing.T) {
	translate := Matrix{A: 1, D: 1, E: 10, F: 0}
	scale := Matrix{A: 2, D: 2}
	m := Mul(translate, scale)
	x, y := m.Transform(1, 1)
	if x != 22 || y != 2 {
		t.Fatalf("Mul(translate, scale).Transform(1,1) = (%v,%v), want (22,2)", x, y)
	}
}

func TestPreTranslate(t *testing.T) {
	m := PreTranslate(Identity(), 5, 7)
	x, y := m.Transform(0, 0)
	if x != 5 || y != 7 {
		t.Fatalf("PreTranslate origin = (%v,%v), want (5,7)", x, y)
	}
}

func TestTransformRectDegenerate(t *testing.T) {
	// Degenerate rects (x1 < x0) must propagate without panicking or
	// special-casing - the bounding box of the mapped corners is still
	// well defined.
	r := Rect{X0: 5, Y0: 5, X1: 1, Y1: 1}
	got := TransformRect(r, Identity())
	want := Rect{X0: 1, Y0: 1, X1: 5, Y1: 5}
	if got != want {
		t.Fatalf("degenerate rect TransformRect = %+v, want %+v", got, want)
	}
}

func TestTransformRectRotation90(t *testing.T) {
	// cm equivalent to a 90-degree rotation: (a,b,c,d) = (0,1,-1,0).
	m := Matrix{A: 0, B: 1, C: -1, D: 0}
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 20}
	got := TransformRect(r, m)
	want := Rect{X0: -20, Y0: 0, X1: 0, Y1: 10}
	if got != want {
		t.Fatalf("rotated rect = %+v, want %+v", got, want)
	}
}

func TestRectUnionAndContains(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 5, Y0: -5, X1: 20, Y1: 5}
	u := a.Union(b)
	want := Rect{X0: 0, Y0: -5, X1: 20, Y1: 10}
	if u != want {
		t.Fatalf("Union = %+v, want %+v", u, want)
	}
	if !u.Contains(a) || !u.Contains(b) {
		t.Fatalf("union rect must contain both operands")
	}
}
