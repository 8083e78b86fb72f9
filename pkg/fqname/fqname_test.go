package fqname

import "testing"

// TestIterScenarioFiveAbsoluteName locks spec.md §8 scenario S5's first
// half: ".a.b.c" iterates as the three components a, b, c in order.
func TestIterScenarioFiveAbsoluteName(t *testing.T) {
	n, err := Parse(".a.b.c", true)
	if err != nil {
		t.Fatalf("Parse(.a.b.c) error = %v", err)
	}
	if !n.Absolute() {
		t.Error("Absolute() = false, want true")
	}
	got := n.Iter()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iter()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestPopComponentScenarioFivePastSingleDot locks spec.md §8 scenario
// S5's second half: popping the last component of ".a" yields ".", and
// popping that climbs one further level to "..".
func TestPopComponentScenarioFivePastSingleDot(t *testing.T) {
	n, err := Parse(".a", true)
	if err != nil {
		t.Fatalf("Parse(.a) error = %v", err)
	}
	popped := n.PopComponent()
	if got := popped.String(); got != "." {
		t.Errorf("PopComponent(.a) = %q, want .", got)
	}

	climbed := popped.PopComponent()
	if got := climbed.String(); got != ".." {
		t.Errorf("PopComponent(.) = %q, want ..", got)
	}
}

func TestPopComponentOnDoubleDotClimbsOneMore(t *testing.T) {
	n, err := Parse("..", true)
	if err != nil {
		t.Fatalf("Parse(..) error = %v", err)
	}
	if !n.Relative() {
		t.Error("Relative() = false, want true for an upward reference")
	}
	popped := n.PopComponent()
	if got := popped.String(); got != "..." {
		t.Errorf("PopComponent(..) = %q, want ...", got)
	}
}

func TestParseRejectsLeadingDotWhenDisallowed(t *testing.T) {
	if _, err := Parse(".a.b", false); err == nil {
		t.Error("Parse(.a.b, false) err = nil, want error")
	}
}

func TestParseRejectsEmptyComponent(t *testing.T) {
	if _, err := Parse("a..b", true); err == nil {
		t.Error("Parse(a..b) err = nil, want error for empty component")
	}
}

func TestPushComponentAppends(t *testing.T) {
	n, _ := Parse("a.b", false)
	got := n.PushComponent("c")
	if got.String() != "a.b.c" {
		t.Errorf("PushComponent(c) = %q, want a.b.c", got.String())
	}
}

func TestJoinAbsoluteRelReturnsRelUnchanged(t *testing.T) {
	base, _ := Parse("a.b", false)
	rel, _ := Parse(".x.y", true)
	got := Join(base, rel)
	if !got.Equal(rel) {
		t.Errorf("Join(base, absolute-rel) = %q, want rel unchanged (%q)", got.String(), rel.String())
	}
}

func TestJoinRelativeUpwardPopsThenAppends(t *testing.T) {
	base, _ := Parse("a.b.c", false)
	rel, _ := Parse("..x", true) // climb one level, then append x
	got := Join(base, rel)
	want, _ := Parse("a.b.x", false)
	if !got.Equal(want) {
		t.Errorf("Join(a.b.c, ..x) = %q, want %q", got.String(), want.String())
	}
}

func TestIsSubnameOf(t *testing.T) {
	prefix, _ := Parse("a.b", false)
	n, _ := Parse("a.b.c", false)
	if !n.IsSubnameOf(prefix) {
		t.Error("IsSubnameOf() = false, want true")
	}
	other, _ := Parse("a.x", false)
	if other.IsSubnameOf(prefix) {
		t.Error("IsSubnameOf() = true for a non-nested name, want false")
	}
}
