// Package hktoken implements the token model and lexer of spec.md §4.D:
// a single dispatch loop over a file cursor producing a total, lazy token
// stream, with sub-parsers for numbers, strings, bracketed strings,
// identifiers, operators, tags, positional/context arguments, comments,
// and the in-band #line/#scram directives.
//
// Grounded on the teacher's own tokenization idiom (golang-dep has no
// custom lexer of its own, so the sub-parser decomposition — one function
// per token family, dispatched from a single outer loop — follows
// pelletier/go-toml's lexer, the teacher's own TOML parser dependency) and
// on original_source/src/tokenizer/*.cpp for the exact sub-parser
// boundaries (parse_number.cpp, parse_string.cpp, parse_identifier.cpp,
// parse_operator.cpp, parse_line_directive.cpp, parse_scram_directive.cpp).
package hktoken

import (
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/pkg/semver"
)

// Kind enumerates every token variant named in spec.md §3 "Token".
type Kind int

const (
	KindEmpty Kind = iota
	KindError
	KindSimple
	KindIdentifier
	KindOperator
	KindComment
	KindDocumentation
	KindBackDocumentation
	KindString
	KindChar
	KindQuote
	KindInteger
	KindFloat
	KindVersion
	KindSuperscriptInteger
	KindBracketedString
	KindPositionalArg
	KindTag
	KindContextArg
	KindLineDirective
	KindScramDirective
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindError:
		return "error"
	case KindSimple:
		return "simple"
	case KindIdentifier:
		return "identifier"
	case KindOperator:
		return "operator"
	case KindComment:
		return "comment"
	case KindDocumentation:
		return "documentation"
	case KindBackDocumentation:
		return "back-documentation"
	case KindString:
		return "string-literal"
	case KindChar:
		return "character-literal"
	case KindQuote:
		return "quote-literal"
	case KindInteger:
		return "integer-literal"
	case KindFloat:
		return "float-literal"
	case KindVersion:
		return "version-literal"
	case KindSuperscriptInteger:
		return "superscript-integer-literal"
	case KindBracketedString:
		return "bracketed-string-literal"
	case KindPositionalArg:
		return "positional-arg"
	case KindTag:
		return "tag"
	case KindContextArg:
		return "context-arg"
	case KindLineDirective:
		return "line-directive"
	case KindScramDirective:
		return "scram-directive"
	case KindEOF:
		return "end-of-file"
	default:
		return "unknown"
	}
}

// Pos is a byte offset into the source text paired with the cursor's line
// number, captured at lex time. The lexer does not fill in Column; it is
// always 0.
type Pos struct {
	Byte   uint64
	Line   uint32
	Column uint16
}

// Token is the tagged record spec.md §3 "Token" describes: a kind, first
// and last positions, the significant source text, and kind-specific
// payload fields.
type Token struct {
	Kind  Kind
	First Pos
	Last  Pos
	Text  string // significant text, post NFC-normalization for identifiers/operators

	// Payload, populated according to Kind.
	IntValue     int64
	FloatValue   float64
	Version      semver.Version
	StringValue  string // decoded contents for string/char/quote literals
	Raw          bool         // string literal had a leading 'r' (raw, no escapes)
	ErrorCode    hkerrors.Code // set when Kind == KindError
	ErrorDetail  string
	OpensNewline bool // true for the synthesized ';' from ASI
}

// IsEOF reports whether t is the end-of-file token.
func (t Token) IsEOF() bool { return t.Kind == KindEOF }

// CanEndStatement reports whether a token of this kind can legally be the
// last token of a statement, the predicate automatic-semicolon-insertion
// consults (spec.md §4.D "Automatic semicolon insertion").
func (t Token) CanEndStatement() bool {
	switch t.Kind {
	case KindIdentifier, KindString, KindChar, KindQuote, KindInteger, KindFloat,
		KindVersion, KindSuperscriptInteger, KindBracketedString, KindPositionalArg,
		KindTag, KindContextArg:
		return true
	case KindSimple:
		return t.Text == ")" || t.Text == "]" || t.Text == "}"
	case KindOperator:
		return !isOpenBracketOperator(t.Text)
	default:
		return false
	}
}

func isOpenBracketOperator(s string) bool {
	return false // operators are Pattern_Syntax runs; brackets are KindSimple.
}
