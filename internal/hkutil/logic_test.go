package hkutil

import "testing"

func TestToBoolMapping(t *testing.T) {
	cases := []struct {
		in   Tri
		want bool
	}{
		{F, false},
		{T, true},
		{X, false},
		{Any, true},
	}
	for _, c := range cases {
		if got := c.in.ToBool(); got != c.want {
			t.Errorf("%v.ToBool() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAndTruthTable(t *testing.T) {
	cases := []struct{ a, b, want Tri }{
		{F, F, F}, {F, T, F}, {F, X, F}, {F, Any, F},
		{T, T, T}, {T, X, X}, {T, Any, Any},
		{X, X, X}, {X, Any, X},
		{Any, Any, Any},
	}
	for _, c := range cases {
		if got := And(c.a, c.b); got != c.want {
			t.Errorf("And(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := And(c.b, c.a); got != c.want {
			t.Errorf("And(%v, %v) = %v, want %v (commuted)", c.b, c.a, got, c.want)
		}
	}
}

func TestOrTruthTable(t *testing.T) {
	cases := []struct{ a, b, want Tri }{
		{F, F, F}, {F, T, T}, {F, X, X}, {F, Any, Any},
		{T, T, T}, {T, X, T}, {T, Any, T},
		{X, X, X}, {X, Any, X},
		{Any, Any, Any},
	}
	for _, c := range cases {
		if got := Or(c.a, c.b); got != c.want {
			t.Errorf("Or(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestNotInvertsDefiniteLeavesIndefinite(t *testing.T) {
	if Not(F) != T {
		t.Error("Not(F) != T")
	}
	if Not(T) != F {
		t.Error("Not(T) != F")
	}
	if Not(X) != X {
		t.Error("Not(X) != X")
	}
	if Not(Any) != Any {
		t.Error("Not(Any) != Any")
	}
}

func TestXorTruthTable(t *testing.T) {
	if Xor(F, T) != T || Xor(T, F) != T {
		t.Error("Xor of differing definites should be T")
	}
	if Xor(F, F) != F || Xor(T, T) != F {
		t.Error("Xor of equal definites should be F")
	}
	if Xor(Any, Any) != Any {
		t.Error("Xor(Any, Any) should be Any")
	}
	if Xor(X, F) != X {
		t.Error("Xor(X, F) should be X")
	}
}

func TestStringer(t *testing.T) {
	want := map[Tri]string{F: "F", T: "T", X: "X", Any: "_"}
	for tri, s := range want {
		if got := tri.String(); got != s {
			t.Errorf("%v.String() = %q, want %q", tri, got, s)
		}
	}
}
