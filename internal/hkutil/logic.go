package hkutil

// Tri is the four-valued logic described in spec.md §4.N: {F, T, X, _}.
// X is "unknown" (Kleene-style: propagates through AND/OR only when it
// would change the result); "_" ("don't care", named Any here since Go
// identifiers can't start with an underscore-only token) behaves like X
// except that ToBool reports it as true, matching spec.md's mapping
// "X → false, _ → true". The exact tables are an Open Question in
// spec.md §9; see DESIGN.md for the Kleene-logic decision recorded there.
type Tri uint8

const (
	F   Tri = iota // false
	T              // true
	X              // unknown
	Any            // "_", don't-care
)

func (t Tri) String() string {
	switch t {
	case F:
		return "F"
	case T:
		return "T"
	case X:
		return "X"
	case Any:
		return "_"
	default:
		return "?"
	}
}

// ToBool maps F,X to false and T,Any to true.
func (t Tri) ToBool() bool {
	return t == T || t == Any
}

// And is Kleene conjunction extended so a definite F absorbs X/Any, and
// Any behaves like X except where both sides are Any.
func And(a, b Tri) Tri {
	if a == F || b == F {
		return F
	}
	if a == T && b == T {
		return T
	}
	if a == Any && b == Any {
		return Any
	}
	return X
}

// Or is Kleene disjunction, dual to And.
func Or(a, b Tri) Tri {
	if a == T || b == T {
		return T
	}
	if a == F && b == F {
		return F
	}
	if a == Any && b == Any {
		return Any
	}
	return X
}

// Xor is defined via ToBool once either operand is definite (F or T) and
// the other is too; any indefinite operand propagates X, unless both
// operands are the same indefinite value, in which case Any propagates.
func Xor(a, b Tri) Tri {
	if (a == F || a == T) && (b == F || b == T) {
		if a != b {
			return T
		}
		return F
	}
	if a == Any && b == Any {
		return Any
	}
	return X
}

// Not inverts F/T and leaves X/Any unchanged.
func Not(a Tri) Tri {
	switch a {
	case F:
		return T
	case T:
		return F
	default:
		return a
	}
}
