// Package semver implements the front end's semantic version literal:
// {major, minor?, patch?} with wildcard trailing components, as described
// in spec.md §3 ("Semantic version") and §4.N.
//
// A fully specified version (no wildcard) is validated through
// github.com/Masterminds/semver so that the numeric grammar matches the
// wider Go ecosystem's expectations; wildcard handling on top of that is
// specific to this language and has no analogue in Masterminds/semver.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// Wildcard marks a missing trailing component ("*").
const Wildcard = -1

// Version is {major, minor?, patch?}. A component holding Wildcard means
// "unspecified" and compares equal to anything in that position.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse accepts "[v]major[.(minor|*)[.(patch|*)]]".
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(s, "v")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) == 0 || parts[0] == "" {
		return Version{}, errors.Errorf("invalid semantic version %q", s)
	}

	v := Version{Minor: Wildcard, Patch: Wildcard}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid major component in %q", s)
	}
	v.Major = major

	if len(parts) >= 2 {
		if parts[1] == "*" {
			v.Minor = Wildcard
		} else {
			minor, err := strconv.Atoi(parts[1])
			if err != nil {
				return Version{}, errors.Wrapf(err, "invalid minor component in %q", s)
			}
			v.Minor = minor
		}
	}

	if len(parts) >= 3 {
		if parts[2] == "*" {
			v.Patch = Wildcard
		} else {
			patch, err := strconv.Atoi(parts[2])
			if err != nil {
				return Version{}, errors.Wrapf(err, "invalid patch component in %q", s)
			}
			v.Patch = patch
		}
	}

	// When there's no wildcard at all, cross-validate against
	// Masterminds/semver. The check formats the parsed integers, so
	// leading zeros in s were already dropped by Atoi and are accepted;
	// a negative component is rejected.
	if v.Minor != Wildcard && v.Patch != Wildcard {
		if _, err := mmsemver.NewVersion(fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)); err != nil {
			return Version{}, errors.Wrapf(err, "invalid semantic version %q", s)
		}
	}

	return v, nil
}

// Compare orders two versions component-wise; a wildcard on either side
// short-circuits that component's comparison to equal.
func (v Version) Compare(o Version) int {
	if c := compareComponent(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareComponent(v.Minor, o.Minor); c != 0 {
		return c
	}
	return compareComponent(v.Patch, o.Patch)
}

func compareComponent(a, b int) int {
	if a == Wildcard || b == Wildcard {
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether v and o compare equal under wildcard rules.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// String formats as "M.m.p", substituting "*" for a wildcard component.
func (v Version) String() string {
	return fmt.Sprintf("%d.%s.%s", v.Major, component(v.Minor), component(v.Patch))
}

func component(c int) string {
	if c == Wildcard {
		return "*"
	}
	return strconv.Itoa(c)
}
