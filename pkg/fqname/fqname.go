// Package fqname implements the dot-separated fully-qualified name used
// throughout the front end for module names, build-guard variables, and
// datum-namespace keys (spec.md §3 "Fully-qualified name", §4.N).
package fqname

import (
	"strings"

	"github.com/pkg/errors"
)

// Name is a dot-separated identifier path. Dots counts leading dots: 0 for
// a plain relative name, 1 for an absolute name (".a.b"), N>=2 for a
// relative upward reference of N-1 levels ("..a" climbs one level).
type Name struct {
	Dots  int
	Parts []string
}

// Absolute reports whether n begins with exactly one leading dot.
func (n Name) Absolute() bool { return n.Dots == 1 }

// Relative reports whether n is an upward reference (two or more leading dots).
func (n Name) Relative() bool { return n.Dots >= 2 }

// Parse splits s on '.', recognising a leading-dot run as Dots. allowLeadingDot
// mirrors the parser's per-call toggle (spec.md §4.H): when false, a leading
// dot is always a syntax error.
func Parse(s string, allowLeadingDot bool) (Name, error) {
	if s == "" {
		return Name{}, errors.New("invalid-fqname: empty name")
	}
	dots := 0
	for dots < len(s) && s[dots] == '.' {
		dots++
	}
	if dots > 0 && !allowLeadingDot {
		return Name{}, errors.New("invalid-fqname: leading dot not permitted here")
	}
	rest := s[dots:]
	var parts []string
	if rest != "" {
		parts = strings.Split(rest, ".")
		for _, p := range parts {
			if p == "" {
				return Name{}, errors.New("invalid-fqname: empty component")
			}
		}
	}
	return Name{Dots: dots, Parts: parts}, nil
}

// String renders the canonical dotted form.
func (n Name) String() string {
	var b strings.Builder
	for i := 0; i < n.Dots; i++ {
		b.WriteByte('.')
	}
	for i, p := range n.Parts {
		if i > 0 || n.Dots == 0 {
			if i > 0 {
				b.WriteByte('.')
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

// Iter yields each component in order, skipping the leading-dot prefix.
func (n Name) Iter() []string { return n.Parts }

// PushComponent returns a new name with c appended.
func (n Name) PushComponent(c string) Name {
	parts := make([]string, len(n.Parts)+1)
	copy(parts, n.Parts)
	parts[len(n.Parts)] = c
	return Name{Dots: n.Dots, Parts: parts}
}

// PopComponent removes the last component. If there is none, it climbs one
// more level instead (Dots increases) — so popping ".a" yields "." and
// popping ".." yields "...".
func (n Name) PopComponent() Name {
	if len(n.Parts) == 0 {
		return Name{Dots: n.Dots + 1}
	}
	parts := make([]string, len(n.Parts)-1)
	copy(parts, n.Parts[:len(n.Parts)-1])
	return Name{Dots: n.Dots, Parts: parts}
}

// LexicallyNormal removes empty components (a defensive no-op for names
// built through Parse, which already rejects them). Dots is copied
// unchanged: an empty component is dropped, not turned into an extra
// level of climbing.
func (n Name) LexicallyNormal() Name {
	out := Name{Dots: n.Dots}
	for _, p := range n.Parts {
		if p == "" {
			continue
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}

// Join concatenates base (typically the enclosing scope) with rel,
// normalising a wildcard/upward prefix on rel against base's own
// components (spec.md §4.N "/ concatenation with wildcard-prefix
// accounting"). An absolute rel is returned unchanged.
func Join(base, rel Name) Name {
	if rel.Absolute() {
		return rel
	}
	result := base
	if rel.Relative() {
		up := rel.Dots - 1
		for i := 0; i < up; i++ {
			result = result.PopComponent()
		}
	}
	for _, p := range rel.Parts {
		result = result.PushComponent(p)
	}
	return result
}

// IsSubnameOf reports whether n is equal to or nested under prefix: they
// share the same leading-dot class and prefix.Parts is a prefix of n.Parts.
func (n Name) IsSubnameOf(prefix Name) bool {
	if n.Dots != prefix.Dots {
		return false
	}
	if len(prefix.Parts) > len(n.Parts) {
		return false
	}
	for i, p := range prefix.Parts {
		if n.Parts[i] != p {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (n Name) Equal(o Name) bool {
	if n.Dots != o.Dots || len(n.Parts) != len(o.Parts) {
		return false
	}
	for i := range n.Parts {
		if n.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}
