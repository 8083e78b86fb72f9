// Package hkunicode implements the Unicode primitives spec.md §4.A calls
// for: manual UTF-8 decode/encode (each malformed-sequence case gets its
// own error, which encoding/utf8's DecodeRune alone can't
// distinguish), identifier/pattern-syntax
// classification, NFC normalization, and a spoof check.
//
// NFC normalization is delegated to golang.org/x/text/unicode/norm, the
// dependency golang.org/x/text is carried for in liudonghua123-reposurgeon's
// go.mod. There is no equivalent ecosystem library exposing UAX #31
// ID_Start/ID_Continue/Pattern_Syntax tables directly or a general
// confusables/spoof checker, so those two pieces fall back to the standard
// library's unicode category tables (documented per-function below) —
// see DESIGN.md for why no third-party candidate covers them.
package hkunicode

import (
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Decode errors, named to match spec.md §4.A exactly.
var (
	ErrContinuationByteAlone = errors.New("utf8: continuation byte alone")
	ErrMissingContinuation   = errors.New("utf8: missing continuation byte")
	ErrBufferOverrun         = errors.New("utf8: buffer overrun")
	ErrOverlong              = errors.New("utf8: overlong encoding")
	ErrOutOfRange            = errors.New("utf8: code point out of range")
	ErrSurrogate             = errors.New("utf8: surrogate code point")
)

// DecodeCodePoint decodes one code point from the front of b, returning
// the rune, the number of bytes consumed, and an error drawn from the
// sentinels above. It never calls utf8.DecodeRune directly because that
// API collapses every malformed-sequence case into utf8.RuneError. The
// lexer reads runes through hkcursor and does not call it; the line table
// uses it through DecodeCodePointOrByte.
func DecodeCodePoint(b []byte) (rune, int, error) {
	if len(b) == 0 {
		return utf8.RuneError, 0, ErrBufferOverrun
	}
	b0 := b[0]

	if b0 < 0x80 {
		return rune(b0), 1, nil
	}
	if b0 < 0xC0 {
		return utf8.RuneError, 1, ErrContinuationByteAlone
	}

	var n int
	var r rune
	var min rune
	switch {
	case b0&0xE0 == 0xC0:
		n, r, min = 2, rune(b0&0x1F), 0x80
	case b0&0xF0 == 0xE0:
		n, r, min = 3, rune(b0&0x0F), 0x800
	case b0&0xF8 == 0xF0:
		n, r, min = 4, rune(b0&0x07), 0x10000
	default:
		return utf8.RuneError, 1, ErrOverlong
	}

	if len(b) < n {
		return utf8.RuneError, len(b), ErrBufferOverrun
	}
	for i := 1; i < n; i++ {
		c := b[i]
		if c&0xC0 != 0x80 {
			return utf8.RuneError, i, ErrMissingContinuation
		}
		r = r<<6 | rune(c&0x3F)
	}

	if r < min {
		return utf8.RuneError, n, ErrOverlong
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return utf8.RuneError, n, ErrSurrogate
	}
	if r >= 0x110000 {
		return utf8.RuneError, n, ErrOutOfRange
	}
	return r, n, nil
}

// EncodeCodePoint returns the 1-4 byte UTF-8 encoding of r.
func EncodeCodePoint(r rune) ([]byte, error) {
	if r >= 0xD800 && r <= 0xDFFF {
		return nil, ErrSurrogate
	}
	if r < 0 || r >= 0x110000 {
		return nil, ErrOutOfRange
	}
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, r)
	return buf[:n], nil
}

// IsIdentifierStart reports whether r may begin an identifier: Unicode
// ID_Start, approximated here via letters and letter-numbers (Nl), plus
// '_' and '°' which spec.md §4.A adds explicitly.
func IsIdentifierStart(r rune) bool {
	if r == '_' || r == '°' {
		return true
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

// IsIdentifierContinue reports whether r may continue an identifier:
// Unicode ID_Continue, approximated as ID_Start plus decimal digits,
// connector punctuation, and non-spacing/spacing combining marks, plus
// '_' and '°'.
func IsIdentifierContinue(r rune) bool {
	if r == '_' || r == '°' {
		return true
	}
	return IsIdentifierStart(r) ||
		unicode.IsDigit(r) ||
		unicode.Is(unicode.Pc, r) ||
		unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r)
}

// IsPatternSyntax reports whether r is Unicode Pattern_Syntax, the
// property the operator sub-lexer uses to find the maximal operator run.
// Approximated as punctuation and symbols, excluding '_' and '°' which
// spec.md §4.A specifically carves out of the identifier classes and out
// of Pattern_Syntax.
func IsPatternSyntax(r rune) bool {
	if r == '_' || r == '°' {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// IsVerticalSpace reports how many UTF-16-equivalent code units the
// vertical-space sequence starting at r consumes: 2 for "\r\n" (next must
// be passed in to detect the pair), 1 for a lone '\r' or any of
// \n \v \f U+0085 U+2028 U+2029, or 0 if r is not vertical space at all.
func IsVerticalSpace(r rune, next rune) int {
	switch r {
	case '\r':
		if next == '\n' {
			return 2
		}
		return 1
	case '\n', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return 1
	default:
		return 0
	}
}

// NFC normalizes s to Normalization Form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}
