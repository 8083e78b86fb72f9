package hktoken

import (
	"strconv"
	"strings"

	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/pkg/semver"
)

// numScan accumulates both the parsed digits (for strconv) and the raw
// consumed text (for Token.Text) as lexNumber's sub-steps advance the
// cursor; the cursor itself exposes no raw byte slicing, so the lexer is
// responsible for rebuilding the literal's source text rune by rune.
type numScan struct {
	lx   *Lexer
	text strings.Builder
}

func (s *numScan) adv() rune {
	r := s.lx.cur.Advance()
	s.text.WriteRune(r)
	return r
}

// lexNumber implements spec.md §4.D's number grammar: an optional leading
// sign, an optional radix prefix, a digit run with '\'' separators, an
// optional fractional part, an optional exponent, and the version-literal
// upgrade triggered either by a second '.' or by a 'v'/'V' separator after
// the leading run.
func (lx *Lexer) lexNumber() Token {
	first := lx.pos()
	s := &numScan{lx: lx}

	negative := false
	if lx.cur.Peek(0) == '+' || lx.cur.Peek(0) == '-' {
		negative = lx.cur.Peek(0) == '-'
		s.adv()
	}

	radix, radixDigits := 10, "0123456789"
	if lx.cur.Peek(0) == '0' {
		switch lx.cur.Peek(1) {
		case 'b', 'B':
			if isRadixDigit(lx.cur.Peek(2), "01") {
				s.adv()
				s.adv()
				radix, radixDigits = 2, "01"
			}
		case 'o', 'O':
			if isRadixDigit(lx.cur.Peek(2), "01234567") {
				s.adv()
				s.adv()
				radix, radixDigits = 8, "01234567"
			}
		case 'd', 'D':
			if isRadixDigit(lx.cur.Peek(2), "0123456789") {
				s.adv()
				s.adv()
				radix, radixDigits = 10, "0123456789"
			}
		case 'x', 'X':
			if isRadixDigit(lx.cur.Peek(2), "0123456789abcdefABCDEF") {
				s.adv()
				s.adv()
				radix, radixDigits = 16, "0123456789abcdefABCDEF"
			}
		}
	}

	intPart := s.consumeDigitRun(radixDigits)

	// "1v2.3" / "1v2.*" version-literal form: 'v' substitutes for the
	// first '.' and always commits to a version literal.
	if radix == 10 && (lx.cur.Peek(0) == 'v' || lx.cur.Peek(0) == 'V') {
		return lx.lexVersionAfterV(first, s, intPart)
	}

	var fracPart string
	isFloat := false
	if radix == 10 && lx.cur.Peek(0) == '.' && isDigit(lx.cur.Peek(1)) {
		s.adv() // '.'
		fracPart = s.consumeDigitRun("0123456789")
		isFloat = true

		// A second '.' converts the float into a version literal.
		if lx.cur.Peek(0) == '.' && (isDigit(lx.cur.Peek(1)) || lx.cur.Peek(1) == '*') {
			s.adv() // '.'
			patch := s.consumeWildcardOrDigitRun()
			last := lx.pos()
			major, _ := strconv.Atoi(stripSeparators(intPart))
			minor, _ := strconv.Atoi(stripSeparators(fracPart))
			v := newVersion(major, minor, wildcardOr(patch))
			return Token{Kind: KindVersion, First: first, Last: last, Text: s.text.String(), Version: v}
		}
	}

	hasExponent, exponentOK, exponentText := s.tryConsumeExponent(radix)
	last := lx.pos()
	text := s.text.String()

	if hasExponent && !exponentOK {
		return Token{Kind: KindError, First: first, Last: last, Text: text, ErrorCode: hkerrors.EmptyExponent}
	}

	if isFloat || hasExponent {
		f, _ := strconv.ParseFloat(stripSeparators(intPart)+"."+stripSeparators(fracPart)+exponentText, 64)
		if negative {
			f = -f
		}
		return Token{Kind: KindFloat, First: first, Last: last, Text: text, FloatValue: f}
	}

	n, _ := strconv.ParseInt(stripSeparators(intPart), radix, 64)
	if negative {
		n = -n
	}
	return Token{Kind: KindInteger, First: first, Last: last, Text: text, IntValue: n}
}

func (lx *Lexer) lexVersionAfterV(first Pos, s *numScan, majorText string) Token {
	s.adv() // 'v'/'V'
	minor := s.consumeWildcardOrDigitRun()
	patch := "0"
	if lx.cur.Peek(0) == '.' {
		s.adv()
		patch = s.consumeWildcardOrDigitRun()
	}
	last := lx.pos()
	major, _ := strconv.Atoi(stripSeparators(majorText))
	v := newVersion(major, wildcardOr(minor), wildcardOr(patch))
	return Token{Kind: KindVersion, First: first, Last: last, Text: s.text.String(), Version: v}
}

func wildcardOr(str string) int {
	if str == "*" {
		return semver.Wildcard
	}
	n, _ := strconv.Atoi(stripSeparators(str))
	return n
}

func (s *numScan) consumeWildcardOrDigitRun() string {
	if s.lx.cur.Peek(0) == '*' {
		s.adv()
		return "*"
	}
	return s.consumeDigitRun("0123456789")
}

func (s *numScan) consumeDigitRun(digits string) string {
	var b strings.Builder
	for {
		r := s.lx.cur.Peek(0)
		if r == '\'' && isRadixDigit(s.lx.cur.Peek(1), digits) {
			s.adv()
			continue
		}
		if !isRadixDigit(r, digits) {
			break
		}
		b.WriteRune(s.adv())
	}
	return b.String()
}

// tryConsumeExponent consumes a 'e'/'E' (decimal) or 'p'/'P' (hex float)
// exponent marker, an optional sign, and a digit run. Reports whether an
// exponent marker was present at all, and whether it was well-formed (a
// marker with no following digit is EmptyExponent).
func (s *numScan) tryConsumeExponent(radix int) (present bool, ok bool, text string) {
	marker := s.lx.cur.Peek(0)
	wantMarker := rune('e')
	if radix == 16 {
		wantMarker = 'p'
	}
	if marker != wantMarker && marker != toUpperASCII(wantMarker) {
		return false, false, ""
	}
	var b strings.Builder
	b.WriteRune(s.adv())
	if s.lx.cur.Peek(0) == '+' || s.lx.cur.Peek(0) == '-' {
		b.WriteRune(s.adv())
	}
	digits := s.consumeDigitRun("0123456789")
	if digits == "" {
		return true, false, b.String()
	}
	b.WriteString(digits)
	return true, true, b.String()
}

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func isRadixDigit(r rune, digits string) bool {
	for _, d := range digits {
		if r == d {
			return true
		}
	}
	return false
}

func stripSeparators(s string) string {
	return strings.ReplaceAll(s, "'", "")
}
