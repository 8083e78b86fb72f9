package hktoken

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hikoworks/hkc/internal/hkcursor"
	"github.com/hikoworks/hkc/pkg/semver"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	cur := hkcursor.New(strings.NewReader(src), "lexer_test.hkm")
	lx := NewLexer(cur)
	var toks []Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.IsEOF() {
			return toks
		}
		if len(toks) > 1000 {
			t.Fatal("lexAll: runaway token stream")
		}
	}
}

// lexSignificant lexes src and drops comment/documentation trivia, the
// same filtering hklazy.Vector applies before the parser ever sees a
// token (see hklazy.isTrivia).
func lexSignificant(t *testing.T, src string) []Token {
	t.Helper()
	all := lexAll(t, src)
	out := make([]Token, 0, len(all))
	for _, tok := range all {
		switch tok.Kind {
		case KindComment, KindDocumentation, KindBackDocumentation:
			continue
		}
		out = append(out, tok)
	}
	return out
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Text
	}
	return out
}

// significantTexts returns each token's significant text per spec.md §3's
// "Token" definition: the decoded contents for quoted literals, the raw
// Text otherwise.
func significantTexts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		switch tok.Kind {
		case KindString, KindChar, KindQuote:
			out[i] = tok.StringValue
		default:
			out[i] = tok.Text
		}
	}
	return out
}

// TestLexScenarioS1 locks spec.md §8 Scenario S1's exact token list.
func TestLexScenarioS1(t *testing.T) {
	src := "module com.example.foo application \"bar\"\n" +
		"import git \"https://github.com/example/baz\" \"main\"\n"
	toks := lexAll(t, src)
	wantText := []string{
		"module", "com", ".", "example", ".", "foo", "application", "bar", ";",
		"import", "git", "https://github.com/example/baz", "main", ";", "\x00",
	}
	got := significantTexts(toks)
	if diff := cmp.Diff(wantText, got); diff != "" {
		t.Fatalf("token text mismatch (-want +got):\n%s", diff)
	}
	if toks[len(toks)-1].Kind != KindEOF {
		t.Errorf("last token kind = %v, want KindEOF", toks[len(toks)-1].Kind)
	}
}

// TestLexScenarioS2 locks spec.md §8 Scenario S2: a line comment is
// transparent to automatic semicolon insertion.
func TestLexScenarioS2(t *testing.T) {
	toks := lexSignificant(t, "a//c")
	got := texts(toks)
	want := []string{"a", ";", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestLexASIBlockCommentTransparent locks "a/*c*/" -> "a ;".
func TestLexASIBlockCommentTransparent(t *testing.T) {
	toks := lexSignificant(t, "a/*c*/")
	got := texts(toks)
	want := []string{"a", ";", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
}

// TestLexASIInsideBraces locks "{a}" -> "{ a ; }".
func TestLexASIInsideBraces(t *testing.T) {
	toks := lexAll(t, "{a}")
	got := texts(toks)
	want := []string{"{", "a", ";", "}", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
}

// TestLexASIBracesWithNewline locks "{a\n}" -> "{ a ; }".
func TestLexASIBracesWithNewline(t *testing.T) {
	toks := lexAll(t, "{a\n}")
	got := texts(toks)
	want := []string{"{", "a", ";", "}", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
}

// TestLexASIParensSuppressed locks "(a\n)" -> "( a )" with no synthesized
// semicolon inside parentheses.
func TestLexASIParensSuppressed(t *testing.T) {
	toks := lexAll(t, "(a\n)")
	got := texts(toks)
	want := []string{"(", "a", ")", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
}

// TestLexTrailingSemicolonAbsorbsNewline: a trailing ';' already ends the
// statement, so a following newline must not add a second synthesized ';'.
func TestLexTrailingSemicolonAbsorbsNewline(t *testing.T) {
	toks := lexAll(t, "a;\nb")
	got := texts(toks)
	want := []string{"a", ";", "b", ";", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q (full %+v)", i, got[i], want[i], got)
		}
	}
}

// TestLexHexPrefixWithoutDigitIsZeroThenIdentifier locks spec.md §8
// testable property 9: "0x" alone (no following hex digit) lexes as
// integer literal 0 followed by an identifier "x".
func TestLexHexPrefixWithoutDigitIsZeroThenIdentifier(t *testing.T) {
	toks := lexAll(t, "0x")
	if len(toks) < 2 {
		t.Fatalf("too few tokens: %+v", toks)
	}
	if toks[0].Kind != KindInteger || toks[0].IntValue != 0 {
		t.Fatalf("token[0] = %+v, want integer literal 0", toks[0])
	}
	if toks[1].Kind != KindIdentifier || toks[1].Text != "x" {
		t.Fatalf("token[1] = %+v, want identifier \"x\"", toks[1])
	}
}

// TestLexVersionLiteral locks spec.md §8 Scenario S4.
func TestLexVersionLiteral(t *testing.T) {
	toks := lexAll(t, "1v2.3")
	if len(toks) < 1 || toks[0].Kind != KindVersion {
		t.Fatalf("token[0] = %+v, want version literal", toks[0])
	}
	if toks[0].Text != "1v2.3" {
		t.Errorf("Text = %q, want 1v2.3", toks[0].Text)
	}
	want := semver.Version{Major: 1, Minor: 2, Patch: 3}
	if toks[0].Version != want {
		t.Errorf("Version = %+v, want %+v", toks[0].Version, want)
	}
}

// TestLexVersionLiteralWildcard locks "1v2.*" -> {1, 2, wildcard}.
func TestLexVersionLiteralWildcard(t *testing.T) {
	toks := lexAll(t, "1v2.*")
	if len(toks) < 1 || toks[0].Kind != KindVersion {
		t.Fatalf("token[0] = %+v, want version literal", toks[0])
	}
	want := semver.Version{Major: 1, Minor: 2, Patch: semver.Wildcard}
	if toks[0].Version != want {
		t.Errorf("Version = %+v, want %+v", toks[0].Version, want)
	}
}

// TestLexSignedIntegerLiteral locks spec.md §4.D: a sign immediately
// followed by a digit starts a number, producing one signed integer token
// rather than a separate operator and integer.
func TestLexSignedIntegerLiteral(t *testing.T) {
	toks := lexAll(t, "-5")
	if len(toks) < 1 || toks[0].Kind != KindInteger {
		t.Fatalf("token[0] = %+v, want a signed integer literal", toks[0])
	}
	if toks[0].IntValue != -5 {
		t.Errorf("IntValue = %d, want -5", toks[0].IntValue)
	}
	if toks[0].Text != "-5" {
		t.Errorf("Text = %q, want -5", toks[0].Text)
	}
}

// TestLexSignedFloatLiteral locks the "sign followed by .digit" form of
// spec.md §4.D's number-start rule.
func TestLexSignedFloatLiteral(t *testing.T) {
	toks := lexAll(t, "-.5")
	if len(toks) < 1 || toks[0].Kind != KindFloat {
		t.Fatalf("token[0] = %+v, want a signed float literal", toks[0])
	}
	if toks[0].FloatValue != -0.5 {
		t.Errorf("FloatValue = %v, want -0.5", toks[0].FloatValue)
	}
}

// TestLexSignFollowedBySpaceIsNotANumber confirms the sign-number rule is
// local: a '-' not immediately adjacent to a digit still lexes as a
// standalone operator token.
func TestLexSignFollowedBySpaceIsNotANumber(t *testing.T) {
	toks := lexSignificant(t, "a - 5")
	if len(toks) < 3 {
		t.Fatalf("tokens = %+v, want at least 3", toks)
	}
	if toks[1].Kind != KindOperator || toks[1].Text != "-" {
		t.Errorf("token[1] = %+v, want standalone '-' operator", toks[1])
	}
	if toks[2].Kind != KindInteger || toks[2].IntValue != 5 {
		t.Errorf("token[2] = %+v, want unsigned integer 5", toks[2])
	}
}

// TestLexTotalCoverageOnGarbageInput locks spec.md §8 testable property 1:
// lexing is total even over byte sequences that contain no valid token
// boundary, and always terminates at KindEOF.
func TestLexTotalCoverageOnGarbageInput(t *testing.T) {
	toks := lexAll(t, "\x01\x02!!!")
	if len(toks) == 0 {
		t.Fatal("no tokens produced")
	}
	last := toks[len(toks)-1]
	if last.Kind != KindEOF {
		t.Errorf("last token kind = %v, want KindEOF", last.Kind)
	}
}

// TestLexPastEOFReturnsEOFRepeatedly locks the lexer's documented contract
// that once KindEOF is returned, further calls keep returning KindEOF.
func TestLexPastEOFReturnsEOFRepeatedly(t *testing.T) {
	cur := hkcursor.New(strings.NewReader("a"), "eof.hkm")
	lx := NewLexer(cur)
	lx.Next() // "a"
	lx.Next() // synthesized ";"
	first := lx.Next()
	second := lx.Next()
	if !first.IsEOF() || !second.IsEOF() {
		t.Fatalf("expected repeated EOF, got %+v then %+v", first, second)
	}
}

// TestLexDocumentationComments locks the "///" / "///<" documentation
// comment distinction from spec.md §4.D.
func TestLexDocumentationComments(t *testing.T) {
	toks := lexAll(t, "/// doc\n")
	if len(toks) < 1 || toks[0].Kind != KindDocumentation {
		t.Fatalf("token[0] = %+v, want documentation comment", toks[0])
	}
	toks2 := lexAll(t, "///< back\n")
	if len(toks2) < 1 || toks2[0].Kind != KindBackDocumentation {
		t.Fatalf("token[0] = %+v, want back-documentation comment", toks2[0])
	}
}

// TestLexTagAndContextArg locks "#name" and "$name" token forms.
func TestLexTagAndContextArg(t *testing.T) {
	toks := lexAll(t, "#foo $bar $3 $#")
	wantKinds := []Kind{KindTag, KindContextArg, KindPositionalArg, KindSimple}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token[%d] kind = %v, want %v (%+v)", i, toks[i].Kind, k, toks[i])
		}
	}
	if toks[2].IntValue != 3 {
		t.Errorf("positional arg IntValue = %d, want 3", toks[2].IntValue)
	}
}

// TestLexSimpleTokensAndEOF covers the plain single-character simple
// tokens spec.md §4.D names.
func TestLexSimpleTokensAndEOF(t *testing.T) {
	toks := lexAll(t, ";,{}[]()")
	want := []string{";", ",", "{", "}", "[", "]", "(", ")", "\x00"}
	got := texts(toks)
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if kinds(toks)[len(toks)-1] != KindEOF {
		t.Errorf("last kind = %v, want KindEOF", kinds(toks)[len(toks)-1])
	}
}

// TestLexCRLFIsOneNewline locks spec.md §3's "\r\n is one newline" rule:
// a CRLF pair synthesizes exactly one ';' after a statement-ending token.
func TestLexCRLFIsOneNewline(t *testing.T) {
	toks := lexAll(t, "a\r\nb")
	got := texts(toks)
	want := []string{"a", ";", "b", ";", "\x00"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
