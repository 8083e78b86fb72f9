package hkast

import (
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/hikoworks/hkc/internal/hkdatum"
	"github.com/hikoworks/hkc/internal/hkerrors"
)

// EvaluateBuildGuards implements spec.md §4.G's `evaluate_build_guard(env)`
// traversal over t: it evaluates t's own declaration guard against ns,
// setting t.Enabled(), then evaluates each import's own guard, setting
// Import.Enabled. A guard evaluation error disables the node it guards
// and is recorded as an error in errs rather than aborting the walk
// (spec.md §4.G, §7 "Build-guard evaluation errors disable the enclosing
// declaration ... and do not abort traversal").
func (t *Top) EvaluateBuildGuards(ns *hkdatum.Namespace, errs *hkerrors.List) {
	t.evaluated = true
	t.enabled = evalGuardedOrDefault(t.Declaration.Guard, t.Declaration.Fallback, ns, errs)
	for i := range t.Imports {
		imp := &t.Imports[i]
		imp.Enabled = evalGuardedOrDefault(imp.Guard, false, ns, errs)
	}
}

// evalGuardedOrDefault reports whether a nullable guard is satisfied: a
// nil guard (no "if" clause) is true unless fallback is set, in which
// case it defers to false here and is reconciled against sibling
// declarations of the same name by the caller (hkrepo's duplicate-module
// handling); an evaluation error disables the node and is logged under
// whichever of spec.md §7's two named conditions it actually is —
// invalid-operand-types for a mixed-kind comparison/membership test,
// unknown-build-guard-constant for everything else (chiefly an
// undefined variable reference).
func evalGuardedOrDefault(guard *BuildGuardExpr, fallback bool, ns *hkdatum.Namespace, errs *hkerrors.List) bool {
	if guard == nil {
		return !fallback
	}
	v, err := evalGuard(guard, ns)
	if err != nil {
		if errs != nil {
			code := hkerrors.UnknownBuildGuardConstant
			if stderrors.Is(err, hkdatum.ErrInvalidOperandTypes) {
				code = hkerrors.InvalidOperandTypes
			}
			errs.AddAt(guard.Span.First, code, err.Error())
		}
		return false
	}
	return v.ToBool()
}

// evalGuard walks e bottom-up, evaluating each operator against the
// Datum values its operands reduce to. Unary "not" coerces its operand to
// Bool via ToBool; "and"/"or" short-circuit on the left operand the same
// way; all other binary operators require their operands to already
// agree in Kind (hkdatum.Compare/Add/In enforce that).
func evalGuard(e *BuildGuardExpr, ns *hkdatum.Namespace) (hkdatum.Datum, error) {
	switch e.Kind {
	case ExprLiteral:
		return e.Literal, nil

	case ExprVariable:
		if d, ok := ns.Lookup(e.Name); ok {
			return d, nil
		}
		return hkdatum.Datum{}, errors.Errorf("unknown build-guard constant %q", e.Name)

	case ExprUnary:
		v, err := evalGuard(e.Operand, ns)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		switch e.Op {
		case "not":
			return hkdatum.NewBool(!v.ToBool()), nil
		default:
			return hkdatum.Datum{}, errors.Errorf("unknown unary operator %q", e.Op)
		}

	case ExprBinary:
		return evalBinary(e, ns)

	default:
		return hkdatum.Datum{}, errors.New("malformed build-guard expression")
	}
}

func evalBinary(e *BuildGuardExpr, ns *hkdatum.Namespace) (hkdatum.Datum, error) {
	left, err := evalGuard(e.Left, ns)
	if err != nil {
		return hkdatum.Datum{}, err
	}

	switch e.Op {
	case "and":
		if !left.ToBool() {
			return hkdatum.NewBool(false), nil
		}
		right, err := evalGuard(e.Right, ns)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		return hkdatum.NewBool(right.ToBool()), nil
	case "or":
		if left.ToBool() {
			return hkdatum.NewBool(true), nil
		}
		right, err := evalGuard(e.Right, ns)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		return hkdatum.NewBool(right.ToBool()), nil
	}

	right, err := evalGuard(e.Right, ns)
	if err != nil {
		return hkdatum.Datum{}, err
	}

	switch e.Op {
	case "==":
		return hkdatum.NewBool(left.Equal(right)), nil
	case "!=":
		return hkdatum.NewBool(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		cmp, err := hkdatum.Compare(left, right)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		switch e.Op {
		case "<":
			return hkdatum.NewBool(cmp < 0), nil
		case "<=":
			return hkdatum.NewBool(cmp <= 0), nil
		case ">":
			return hkdatum.NewBool(cmp > 0), nil
		default:
			return hkdatum.NewBool(cmp >= 0), nil
		}
	case "in":
		ok, err := hkdatum.In(left, right)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		return hkdatum.NewBool(ok), nil
	case "not in":
		ok, err := hkdatum.In(left, right)
		if err != nil {
			return hkdatum.Datum{}, err
		}
		return hkdatum.NewBool(!ok), nil
	default:
		return hkdatum.Datum{}, errors.Errorf("unknown binary operator %q", e.Op)
	}
}
