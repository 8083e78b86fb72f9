package hktoken

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hikoworks/hkc/internal/hkcursor"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hkunicode"
	"github.com/hikoworks/hkc/pkg/semver"
)

// bracketFrame records one open-bracket context for automatic semicolon
// insertion: '(' suppresses synthesized ';' on newline, '{' (and the
// implicit top-level context) produces one.
type bracketFrame byte

// Lexer turns a Cursor into the token stream spec.md §4.D describes: a
// single dispatch loop that classifies the next code point and either
// hands off to a sub-parser or emits a simple/operator/identifier token
// directly.
type Lexer struct {
	cur            *hkcursor.Cursor
	lastSignificant *Token
	brackets       []bracketFrame
	atLineStart    bool
	consumedBOM    bool
}

// NewLexer begins lexing from cur.
func NewLexer(cur *hkcursor.Cursor) *Lexer {
	lx := &Lexer{cur: cur, atLineStart: true}
	lx.skipBOM()
	return lx
}

func (lx *Lexer) skipBOM() {
	if lx.consumedBOM {
		return
	}
	lx.consumedBOM = true
	if lx.cur.Peek(0) == '﻿' {
		lx.cur.Advance()
	}
}

func (lx *Lexer) pos() Pos {
	return Pos{Byte: lx.cur.BytePos(), Line: lx.cur.Location().Line}
}

func (lx *Lexer) insideParen() bool {
	return len(lx.brackets) > 0 && lx.brackets[len(lx.brackets)-1] == '('
}

// Next returns the next token in the stream. Once it has returned a
// KindEOF token, every subsequent call returns KindEOF again.
func (lx *Lexer) Next() Token {
	for {
		r := lx.cur.Peek(0)
		atColumn0 := lx.atLineStart

		if r == 0 && lx.cur.Size() == 0 {
			// A closing bracket at end of input gets no synthesized ';'.
			if lx.lastSignificant != nil && lx.lastSignificant.CanEndStatement() && lx.lastSignificant.Kind != KindSimple && !lx.insideParen() {
				return lx.emitSyntheticSemicolon()
			}
			t := lx.simpleToken(lx.pos(), "\x00", KindEOF)
			lx.lastSignificant = &t
			return t
		}

		if n := hkunicode.IsVerticalSpace(r, lx.cur.Peek(1)); n > 0 {
			lx.consumeVerticalSpaceRun()
			if lx.lastSignificant != nil && lx.lastSignificant.CanEndStatement() && !lx.insideParen() {
				return lx.emitSyntheticSemicolon()
			}
			continue
		}
		if isHorizontalSpace(r) {
			lx.cur.Advance()
			continue
		}
		lx.atLineStart = false

		if atColumn0 && r == '#' && lx.cur.Peek(1) == 'l' {
			if tok, handled := lx.tryLineDirective(); handled {
				if tok != nil {
					return *tok
				}
				continue
			}
		}
		if atColumn0 && r == '#' && lx.cur.Peek(1) == 's' {
			if tok, handled := lx.trySramDirective(); handled {
				if tok != nil {
					return *tok
				}
				continue
			}
		}

		switch {
		case r == '/' && lx.cur.Peek(1) == '/':
			t := lx.lexLineComment()
			return t
		case r == '/' && lx.cur.Peek(1) == '*':
			t := lx.lexBlockComment()
			return t
		case isDigitStart(r, lx.cur.Peek(1), lx.cur.Peek(2)):
			t := lx.lexNumber()
			lx.lastSignificant = &t
			return t
		case r == '[' && lx.cur.Peek(1) == '[' || (r == '[' && lx.cur.Peek(1) == '=' && isLongBracketLevel(lx.cur)):
			t := lx.lexBracketedString()
			lx.lastSignificant = &t
			return t
		case r == '"' || r == '\'' || r == '`':
			t := lx.lexString(false)
			lx.lastSignificant = &t
			return t
		case r == 'r' && isQuote(lx.cur.Peek(1)):
			lx.cur.Advance()
			t := lx.lexString(true)
			lx.lastSignificant = &t
			return t
		case r == '#':
			t := lx.lexTag()
			lx.lastSignificant = &t
			return t
		case r == '$' && isDigit(lx.cur.Peek(1)):
			t := lx.lexPositionalArg()
			lx.lastSignificant = &t
			return t
		case r == '$' && lx.cur.Peek(1) == '#':
			first := lx.pos()
			lx.cur.Advance()
			lx.cur.Advance()
			t := lx.simpleToken(first, "$#", KindSimple)
			lx.lastSignificant = &t
			return t
		case r == '$':
			t := lx.lexContextArg()
			lx.lastSignificant = &t
			return t
		case hkunicode.IsIdentifierStart(r):
			t := lx.lexIdentifier()
			lx.lastSignificant = &t
			return t
		case r == '}' && lx.lastSignificant != nil && lx.lastSignificant.CanEndStatement():
			// A statement directly before a closing brace is ended with a
			// synthesized ';', as a newline would end it.
			return lx.emitSyntheticSemicolon()
		case r == ';' || r == ',' || r == '{' || r == '}' || r == '[' || r == ']' || r == '(' || r == ')':
			t := lx.lexBracketOrSeparator(r)
			lx.lastSignificant = &t
			return t
		case hkunicode.IsPatternSyntax(r):
			t := lx.lexOperator()
			lx.lastSignificant = &t
			return t
		default:
			first := lx.pos()
			lx.cur.Advance()
			last := lx.pos()
			t := Token{Kind: KindError, First: first, Last: last, ErrorCode: hkerrors.InvalidUTF8, ErrorDetail: "unexpected code point"}
			lx.lastSignificant = &t
			return t
		}
	}
}

func (lx *Lexer) emitSyntheticSemicolon() Token {
	p := lx.pos()
	t := Token{Kind: KindSimple, First: p, Last: p, Text: ";", OpensNewline: true}
	lx.lastSignificant = &t
	return t
}

func (lx *Lexer) consumeVerticalSpaceRun() {
	for {
		r := lx.cur.Peek(0)
		n := hkunicode.IsVerticalSpace(r, lx.cur.Peek(1))
		if n == 0 {
			break
		}
		lx.cur.Advance()
		if n == 2 {
			lx.cur.Advance()
		}
	}
	lx.atLineStart = true
}

func (lx *Lexer) lexBracketOrSeparator(r rune) Token {
	first := lx.pos()
	lx.cur.Advance()
	last := lx.pos()
	switch r {
	case '(', '{', '[':
		lx.brackets = append(lx.brackets, bracketFrame(r))
	case ')', '}', ']':
		if len(lx.brackets) > 0 {
			lx.brackets = lx.brackets[:len(lx.brackets)-1]
		}
	}
	return lx.simpleToken(first, string(r), KindSimple).withLast(last)
}

func (lx *Lexer) simpleToken(first Pos, text string, kind Kind) Token {
	return Token{Kind: kind, First: first, Last: first, Text: text}
}

func (t Token) withLast(last Pos) Token {
	t.Last = last
	return t
}

// --- identifiers & operators ---

func (lx *Lexer) lexIdentifier() Token {
	first := lx.pos()
	var b strings.Builder
	for hkunicode.IsIdentifierContinue(lx.cur.Peek(0)) {
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	text := hkunicode.NFC(b.String())
	if err := hkunicode.SpoofCheck(text); err != nil {
		return Token{Kind: KindError, First: first, Last: last, Text: text, ErrorCode: hkerrors.InsecureIdentifier, ErrorDetail: err.Error()}
	}
	return Token{Kind: KindIdentifier, First: first, Last: last, Text: text}
}

func (lx *Lexer) lexOperator() Token {
	first := lx.pos()
	var b strings.Builder
	for hkunicode.IsPatternSyntax(lx.cur.Peek(0)) {
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	text := hkunicode.NFC(b.String())
	if err := hkunicode.SpoofCheck(text); err != nil {
		return Token{Kind: KindError, First: first, Last: last, Text: text, ErrorCode: hkerrors.InsecureIdentifier, ErrorDetail: err.Error()}
	}
	return Token{Kind: KindOperator, First: first, Last: last, Text: text}
}

func (lx *Lexer) lexTag() Token {
	first := lx.pos()
	lx.cur.Advance() // '#'
	var b strings.Builder
	for hkunicode.IsIdentifierContinue(lx.cur.Peek(0)) {
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	return Token{Kind: KindTag, First: first, Last: last, Text: "#" + b.String()}
}

func (lx *Lexer) lexContextArg() Token {
	first := lx.pos()
	lx.cur.Advance() // '$'
	var b strings.Builder
	for hkunicode.IsIdentifierContinue(lx.cur.Peek(0)) {
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	return Token{Kind: KindContextArg, First: first, Last: last, Text: "$" + b.String()}
}

func (lx *Lexer) lexPositionalArg() Token {
	first := lx.pos()
	lx.cur.Advance() // '$'
	var b strings.Builder
	for isDigit(lx.cur.Peek(0)) {
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	n, _ := strconv.ParseInt(b.String(), 10, 64)
	return Token{Kind: KindPositionalArg, First: first, Last: last, Text: "$" + b.String(), IntValue: n}
}

// --- comments ---

// lexLineComment consumes a "//" run through the end of the line and
// classifies it: plain comment, "///" documentation, or "///<"
// back-documentation (spec.md §4.D).
func (lx *Lexer) lexLineComment() Token {
	first := lx.pos()
	lx.cur.Advance()
	lx.cur.Advance()
	kind := KindComment
	if lx.cur.Peek(0) == '/' {
		lx.cur.Advance()
		kind = KindDocumentation
		if lx.cur.Peek(0) == '<' {
			lx.cur.Advance()
			kind = KindBackDocumentation
		}
	}
	var b strings.Builder
	for {
		r := lx.cur.Peek(0)
		if r == 0 && lx.cur.Size() == 0 {
			break
		}
		if hkunicode.IsVerticalSpace(r, lx.cur.Peek(1)) > 0 {
			break
		}
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	return Token{Kind: kind, First: first, Last: last, StringValue: b.String()}
}

// lexBlockComment consumes a "/*" ... "*/" run (tracking nesting), and
// classifies "/**" as documentation (spec.md §4.D). Leading '*' on
// continuation lines is stripped from the recovered text.
func (lx *Lexer) lexBlockComment() Token {
	first := lx.pos()
	lx.cur.Advance()
	lx.cur.Advance()
	kind := KindComment
	if lx.cur.Peek(0) == '*' {
		kind = KindDocumentation
		lx.cur.Advance()
	}
	var b strings.Builder
	atLineStart := false
	depth := 1
	for depth > 0 {
		r := lx.cur.Peek(0)
		if r == 0 && lx.cur.Size() == 0 {
			break
		}
		if r == '/' && lx.cur.Peek(1) == '*' {
			lx.cur.Advance()
			lx.cur.Advance()
			depth++
			continue
		}
		if r == '*' && lx.cur.Peek(1) == '/' {
			lx.cur.Advance()
			lx.cur.Advance()
			depth--
			continue
		}
		if atLineStart && r == '*' {
			lx.cur.Advance()
			atLineStart = false
			continue
		}
		if n := hkunicode.IsVerticalSpace(r, lx.cur.Peek(1)); n > 0 {
			b.WriteRune(lx.cur.Advance())
			if n == 2 {
				b.WriteRune(lx.cur.Advance())
			}
			atLineStart = true
			continue
		}
		atLineStart = false
		b.WriteRune(lx.cur.Advance())
	}
	last := lx.pos()
	return Token{Kind: kind, First: first, Last: last, StringValue: b.String()}
}

// --- directives ---

func (lx *Lexer) tryLineDirective() (*Token, bool) {
	if !matchesKeyword(lx.cur, "#line") {
		return nil, false
	}
	for i := 0; i < len("#line"); i++ {
		lx.cur.Advance()
	}
	lx.skipHorizontalSpace()
	var numBuf strings.Builder
	for isDigit(lx.cur.Peek(0)) {
		numBuf.WriteRune(lx.cur.Advance())
	}
	line, _ := strconv.ParseInt(numBuf.String(), 10, 64)
	lx.skipHorizontalSpace()
	var fileName string
	if lx.cur.Peek(0) == '"' {
		tok := lx.lexString(false)
		fileName = tok.StringValue
	}
	lx.cur.SetLine(uint32(line), fileName)
	lx.skipToLineEnd()
	return nil, true
}

func (lx *Lexer) trySramDirective() (*Token, bool) {
	if !matchesKeyword(lx.cur, "#scram") {
		return nil, false
	}
	for i := 0; i < len("#scram"); i++ {
		lx.cur.Advance()
	}
	lx.skipHorizontalSpace()
	neg := false
	if lx.cur.Peek(0) == '-' {
		neg = true
		lx.cur.Advance()
	}
	var numBuf strings.Builder
	for isDigit(lx.cur.Peek(0)) {
		numBuf.WriteRune(lx.cur.Advance())
	}
	n, _ := strconv.ParseInt(numBuf.String(), 10, 64)
	if neg {
		n = -n
	}
	lx.cur.SetScramKey(uint32(n))
	lx.skipToLineEnd()
	return nil, true
}

func (lx *Lexer) skipHorizontalSpace() {
	for lx.cur.Peek(0) == ' ' || lx.cur.Peek(0) == '\t' {
		lx.cur.Advance()
	}
}

func (lx *Lexer) skipToLineEnd() {
	for {
		r := lx.cur.Peek(0)
		if r == 0 && lx.cur.Size() == 0 {
			return
		}
		if hkunicode.IsVerticalSpace(r, lx.cur.Peek(1)) > 0 {
			lx.consumeVerticalSpaceRun()
			return
		}
		lx.cur.Advance()
	}
}

func matchesKeyword(cur *hkcursor.Cursor, kw string) bool {
	for i, want := range kw {
		if cur.Peek(i) != want {
			return false
		}
	}
	return true
}

// --- helpers ---

// isHorizontalSpace reports whether r is insignificant non-vertical
// whitespace between tokens: plain space/tab plus Unicode space
// separators (category Zs) that aren't already claimed as vertical space.
func isHorizontalSpace(r rune) bool {
	if r == ' ' || r == '\t' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isQuote(r rune) bool { return r == '"' || r == '\'' || r == '`' }

func isDigitStart(r, next, next2 rune) bool {
	if isDigit(r) {
		return true
	}
	if r == '.' && isDigit(next) {
		return true
	}
	if r == '+' || r == '-' {
		if isDigit(next) {
			return true
		}
		if next == '.' && isDigit(next2) {
			return true
		}
	}
	return false
}

// semver helper shared by lexNumber.
func newVersion(major int, minor int, patch int) semver.Version {
	return semver.Version{Major: major, Minor: minor, Patch: patch}
}
