package hktoken

import (
	"strconv"
	"strings"

	"github.com/hikoworks/hkc/internal/hkcursor"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hkunicode"
)

// lexString implements the quoted-literal family of spec.md §4.D: double
// quotes yield a string literal, single quotes a character literal,
// backticks a quote literal. A leading 'r' (consumed by the caller)
// suppresses escape processing entirely.
func (lx *Lexer) lexString(raw bool) Token {
	first := lx.pos()
	quote := lx.cur.Advance()
	kind := kindForQuote(quote)

	var raws strings.Builder
	var value strings.Builder
	raws.WriteRune(quote)

	for {
		r := lx.cur.Peek(0)
		if r == 0 && lx.cur.Size() == 0 {
			last := lx.pos()
			return Token{Kind: KindError, First: first, Last: last, Text: raws.String(), ErrorCode: hkerrors.UnterminatedLiteral}
		}
		if r == quote {
			raws.WriteRune(lx.cur.Advance())
			break
		}
		if (r == '\r' || r == '\n') && quote != '`' {
			last := lx.pos()
			return Token{Kind: KindError, First: first, Last: last, Text: raws.String(), ErrorCode: hkerrors.UnterminatedLiteral}
		}
		if r == '\\' && !raw {
			ok := lx.lexEscape(&raws, &value)
			if !ok {
				last := lx.pos()
				return Token{Kind: KindError, First: first, Last: last, Text: raws.String(), ErrorCode: hkerrors.InvalidEscapeSequence}
			}
			continue
		}
		raws.WriteRune(r)
		value.WriteRune(r)
		lx.cur.Advance()
	}

	last := lx.pos()
	return Token{Kind: kind, First: first, Last: last, Text: raws.String(), StringValue: value.String(), Raw: raw}
}

func kindForQuote(q rune) Kind {
	switch q {
	case '\'':
		return KindChar
	case '`':
		return KindQuote
	default:
		return KindString
	}
}

// lexEscape consumes one backslash escape, appending its raw source to
// raws and its decoded rune(s) to value. Returns false on a malformed
// escape (caller turns that into an error token).
func (lx *Lexer) lexEscape(raws, value *strings.Builder) bool {
	raws.WriteRune(lx.cur.Advance()) // '\\'
	r := lx.cur.Peek(0)
	switch r {
	case 'n':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\n')
	case 't':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\t')
	case 'r':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\r')
	case 'a':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\a')
	case 'b':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\b')
	case 'f':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\f')
	case 'v':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune('\v')
	case '0':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune(0)
	case '\\', '\'', '"', '`':
		raws.WriteRune(lx.cur.Advance())
		value.WriteRune(r)
	case 'x':
		raws.WriteRune(lx.cur.Advance())
		return lx.lexHexEscape(raws, value, 2, 2)
	case 'u':
		raws.WriteRune(lx.cur.Advance())
		return lx.lexBracedHexEscape(raws, value)
	case 'U':
		raws.WriteRune(lx.cur.Advance())
		return lx.lexBracedHexEscape(raws, value)
	case 'N':
		raws.WriteRune(lx.cur.Advance())
		return lx.lexNamedEscape(raws, value)
	default:
		return false
	}
	return true
}

func (lx *Lexer) lexHexEscape(raws, value *strings.Builder, min, max int) bool {
	var hex strings.Builder
	for hex.Len() < max && isHexDigit(lx.cur.Peek(0)) {
		hex.WriteRune(lx.cur.Advance())
	}
	raws.WriteString(hex.String())
	if hex.Len() < min {
		return false
	}
	n, err := strconv.ParseInt(hex.String(), 16, 32)
	if err != nil {
		return false
	}
	value.WriteRune(rune(n))
	return true
}

// lexBracedHexEscape handles \u{XXXX} / \U{XXXXXX} forms.
func (lx *Lexer) lexBracedHexEscape(raws, value *strings.Builder) bool {
	if lx.cur.Peek(0) != '{' {
		return false
	}
	raws.WriteRune(lx.cur.Advance())
	var hex strings.Builder
	for isHexDigit(lx.cur.Peek(0)) {
		hex.WriteRune(lx.cur.Advance())
	}
	raws.WriteString(hex.String())
	if lx.cur.Peek(0) != '}' || hex.Len() == 0 {
		return false
	}
	raws.WriteRune(lx.cur.Advance())
	n, err := strconv.ParseInt(hex.String(), 16, 32)
	if err != nil || n >= 0x110000 {
		return false
	}
	value.WriteRune(rune(n))
	return true
}

// lexNamedEscape handles \N{U+XXXX}, the only named-code-point form this
// lexer resolves without a full Unicode name database.
func (lx *Lexer) lexNamedEscape(raws, value *strings.Builder) bool {
	if lx.cur.Peek(0) != '{' {
		return false
	}
	raws.WriteRune(lx.cur.Advance())
	if lx.cur.Peek(0) != 'U' || lx.cur.Peek(1) != '+' {
		return false
	}
	raws.WriteRune(lx.cur.Advance())
	raws.WriteRune(lx.cur.Advance())
	var hex strings.Builder
	for isHexDigit(lx.cur.Peek(0)) {
		hex.WriteRune(lx.cur.Advance())
	}
	raws.WriteString(hex.String())
	if lx.cur.Peek(0) != '}' || hex.Len() == 0 {
		return false
	}
	raws.WriteRune(lx.cur.Advance())
	n, err := strconv.ParseInt(hex.String(), 16, 32)
	if err != nil || n >= 0x110000 {
		return false
	}
	value.WriteRune(rune(n))
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isLongBracketLevel reports whether the cursor is sitting on a Lua-style
// long-bracket opener "[=*[" beyond the plain "[[" case, by scanning the
// lookahead window (long enough for any level this lexer accepts, given
// the 8-deep window).
func isLongBracketLevel(cur *hkcursor.Cursor) bool {
	i := 1
	for cur.Peek(i) == '=' && i < hkcursor.LookaheadDepth-1 {
		i++
	}
	return i > 1 && cur.Peek(i) == '['
}

// lexBracketedString implements the nested long-bracket string literal:
// "[" "="*N "[" ... "]" "="*N "]", where N disambiguates nested closers
// the way Lua's long strings do, and an unmatched lower level inside the
// body is just literal text.
func (lx *Lexer) lexBracketedString() Token {
	first := lx.pos()
	var raws strings.Builder
	level := 0
	raws.WriteRune(lx.cur.Advance()) // '['
	for lx.cur.Peek(0) == '=' {
		raws.WriteRune(lx.cur.Advance())
		level++
	}
	raws.WriteRune(lx.cur.Advance()) // second '['

	// A newline immediately after the opener is not part of the content.
	if n := isLexerVerticalSpace(lx); n > 0 {
		lx.consumeVerticalSpaceRunAppend(&raws)
	}

	var value strings.Builder
	closer := "]" + strings.Repeat("=", level) + "]"
	for {
		if lx.cur.Peek(0) == 0 && lx.cur.Size() == 0 {
			last := lx.pos()
			return Token{Kind: KindError, First: first, Last: last, Text: raws.String(), ErrorCode: hkerrors.UnterminatedLiteral}
		}
		if lx.matchesCloser(closer) {
			for range closer {
				raws.WriteRune(lx.cur.Advance())
			}
			break
		}
		r := lx.cur.Advance()
		raws.WriteRune(r)
		value.WriteRune(r)
	}
	last := lx.pos()
	return Token{Kind: KindBracketedString, First: first, Last: last, Text: raws.String(), StringValue: value.String()}
}

func (lx *Lexer) matchesCloser(closer string) bool {
	for i, want := range closer {
		if lx.cur.Peek(i) != want {
			return false
		}
	}
	return true
}

func isLexerVerticalSpace(lx *Lexer) int {
	return hkunicode.IsVerticalSpace(lx.cur.Peek(0), lx.cur.Peek(1))
}

func (lx *Lexer) consumeVerticalSpaceRunAppend(b *strings.Builder) {
	r := lx.cur.Peek(0)
	n := hkunicode.IsVerticalSpace(r, lx.cur.Peek(1))
	if n == 0 {
		return
	}
	b.WriteRune(lx.cur.Advance())
	if n == 2 {
		b.WriteRune(lx.cur.Advance())
	}
}
