// Package hkdatum implements the tagged-union value domain of spec.md
// §4.F ("Datum") and the sorted name→value namespace build guards are
// evaluated against.
//
// Grounded on internal/gps's Constraint/Version sum-type family (a small
// closed set of variants compared and formatted through a single
// interface) for the tagged-union shape, and on pkg/semver (itself
// grounded on github.com/Masterminds/semver) for the Version variant.
package hkdatum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hikoworks/hkc/pkg/semver"
)

// Kind discriminates the Datum variants of spec.md §4.F.
type Kind int

const (
	Unknown Kind = iota
	Bool
	Integer
	String
	StringList
	VersionKind
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Bool:
		return "bool"
	case Integer:
		return "integer"
	case String:
		return "string"
	case StringList:
		return "string-list"
	case VersionKind:
		return "version"
	default:
		return "?"
	}
}

// ErrInvalidOperandTypes is returned by arithmetic/comparison operators
// when the operand kinds don't support the requested operation.
var ErrInvalidOperandTypes = errors.New("invalid operand types")

// Datum is the tagged union build-guard expressions evaluate to: exactly
// one of Bool/Integer/String/StringList/Version is meaningful, selected
// by Kind. The zero value is Unknown, used for "no such variable" lookups.
type Datum struct {
	Kind       Kind
	BoolValue  bool
	IntValue   int64
	StrValue   string
	ListValue  []string
	VerValue   semver.Version
}

// NewBool, NewInteger, NewString, NewStringList and NewVersion are the
// Datum constructors for each variant.
func NewBool(b bool) Datum           { return Datum{Kind: Bool, BoolValue: b} }
func NewInteger(n int64) Datum       { return Datum{Kind: Integer, IntValue: n} }
func NewString(s string) Datum       { return Datum{Kind: String, StrValue: s} }
func NewStringList(xs []string) Datum {
	cp := append([]string(nil), xs...)
	return Datum{Kind: StringList, ListValue: cp}
}
func NewVersion(v semver.Version) Datum { return Datum{Kind: VersionKind, VerValue: v} }

// Repr formats d the way build-guard diagnostics and `hkc` debug output
// render a Datum (spec.md §4.F "repr").
func (d Datum) Repr() string {
	switch d.Kind {
	case Bool:
		if d.BoolValue {
			return "true"
		}
		return "false"
	case Integer:
		return fmt.Sprintf("%d", d.IntValue)
	case String:
		return fmt.Sprintf("%q", d.StrValue)
	case StringList:
		quoted := make([]string, len(d.ListValue))
		for i, s := range d.ListValue {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case VersionKind:
		return d.VerValue.String()
	default:
		return "<unknown>"
	}
}

// ToBool implements the truthiness coercion spec.md §4.F defines: bools
// pass through, integers are truthy iff nonzero, strings and string
// lists are truthy iff non-empty, versions are always truthy, and
// Unknown is always falsy.
func (d Datum) ToBool() bool {
	switch d.Kind {
	case Bool:
		return d.BoolValue
	case Integer:
		return d.IntValue != 0
	case String:
		return d.StrValue != ""
	case StringList:
		return len(d.ListValue) > 0
	case VersionKind:
		return true
	default:
		return false
	}
}

// Equal implements Datum equality: same Kind and same payload. Integer
// and Version compare numerically; a String is never equal to a
// StringList even if it would match one of its elements (use In for that).
func (d Datum) Equal(o Datum) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case Bool:
		return d.BoolValue == o.BoolValue
	case Integer:
		return d.IntValue == o.IntValue
	case String:
		return d.StrValue == o.StrValue
	case StringList:
		if len(d.ListValue) != len(o.ListValue) {
			return false
		}
		for i := range d.ListValue {
			if d.ListValue[i] != o.ListValue[i] {
				return false
			}
		}
		return true
	case VersionKind:
		return d.VerValue.Equal(o.VerValue)
	default:
		return true // two Unknowns are equal
	}
}

// In implements the "in" operator: a String datum tested for membership
// in a StringList datum. Any other operand kind pairing is
// ErrInvalidOperandTypes.
func In(needle, haystack Datum) (bool, error) {
	if needle.Kind != String || haystack.Kind != StringList {
		return false, ErrInvalidOperandTypes
	}
	for _, s := range haystack.ListValue {
		if s == needle.StrValue {
			return true, nil
		}
	}
	return false, nil
}

// Compare implements ordering for the Integer and Version kinds, the
// only two spec.md §4.F allows relational operators on. Returns
// ErrInvalidOperandTypes for any other pairing.
func Compare(a, b Datum) (int, error) {
	if a.Kind != b.Kind {
		return 0, ErrInvalidOperandTypes
	}
	switch a.Kind {
	case Integer:
		switch {
		case a.IntValue < b.IntValue:
			return -1, nil
		case a.IntValue > b.IntValue:
			return 1, nil
		default:
			return 0, nil
		}
	case VersionKind:
		return a.VerValue.Compare(b.VerValue), nil
	default:
		return 0, ErrInvalidOperandTypes
	}
}

// Add implements the one arithmetic operator spec.md §4.F defines
// outside of build-guard comparisons: integer addition, and string/
// string-list concatenation. Any other pairing is ErrInvalidOperandTypes.
func Add(a, b Datum) (Datum, error) {
	if a.Kind != b.Kind {
		return Datum{}, ErrInvalidOperandTypes
	}
	switch a.Kind {
	case Integer:
		return NewInteger(a.IntValue + b.IntValue), nil
	case String:
		return NewString(a.StrValue + b.StrValue), nil
	case StringList:
		out := append(append([]string(nil), a.ListValue...), b.ListValue...)
		return NewStringList(out), nil
	default:
		return Datum{}, ErrInvalidOperandTypes
	}
}

// Namespace is the name→Datum environment build-guard expressions resolve
// Variable references against (spec.md §4.F "namespace"); a plain map,
// with Names sorting its keys only at read time for deterministic
// diagnostic output.
type Namespace struct {
	values map[string]Datum
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]Datum)}
}

// Set binds name to d, overwriting any previous binding.
func (ns *Namespace) Set(name string, d Datum) {
	ns.values[name] = d
}

// Lookup returns the Datum bound to name, or the Unknown datum and false
// if name is unbound.
func (ns *Namespace) Lookup(name string) (Datum, bool) {
	d, ok := ns.values[name]
	return d, ok
}

// Get returns a pointer to the Datum bound to name, or nil if name is
// unbound, matching spec.md §4.F's get/set/remove trio.
func (ns *Namespace) Get(name string) *Datum {
	d, ok := ns.values[name]
	if !ok {
		return nil
	}
	return &d
}

// Remove unbinds name; a subsequent Get or Lookup reports it absent.
func (ns *Namespace) Remove(name string) {
	delete(ns.values, name)
}

// Names returns the namespace's bound names in sorted order, the
// deterministic iteration order spec.md §4.F requires for diagnostics.
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.values))
	for n := range ns.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
