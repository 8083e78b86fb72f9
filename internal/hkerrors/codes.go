// Package hkerrors implements the error taxonomy and sorted, deduplicated
// error list of spec.md §4.I and §7. Grounded on golang-dep's errors.go
// (a closed set of named error types, each carrying just enough context to
// format a message) and on github.com/pkg/errors for wrapping causes.
package hkerrors

import "fmt"

// Severity buckets, tagged by the numeric ranges spec.md §7 fixes.
type Severity int

const (
	Informational Severity = iota
	Warning
	Error
	Fatal
	Security
)

func (s Severity) String() string {
	switch s {
	case Informational:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	case Security:
		return "S"
	default:
		return "?"
	}
}

// Code is a numeric error code; SeverityOf derives its severity from the
// range it falls in.
type Code int

func SeverityOf(c Code) Severity {
	switch {
	case c < 10000:
		return Informational
	case c < 20000:
		return Warning
	case c < 30000:
		return Error
	case c < 40000:
		return Fatal
	default:
		return Security
	}
}

// Named error conditions from spec.md §7, abridged list.
const (
	Unimplemented Code = 100

	CouldNotCloneRepository Code = 10001

	MissingSemicolon           Code = 20001
	MissingFQName              Code = 20002
	MissingFilenameStem        Code = 20003
	MissingGitURL              Code = 20004
	MissingGitRev              Code = 20005
	MissingZipPath             Code = 20006
	MissingLibPath             Code = 20007
	MissingAsName              Code = 20008
	MissingModuleName          Code = 20009
	MissingTopDeclaration      Code = 20010
	MissingExpression          Code = 20011
	MissingRHSOfBinaryOperator Code = 20012
	MissingClosingParenthesis  Code = 20013

	InvalidFQName             Code = 20014
	InvalidPrologueStatement  Code = 20015
	InvalidOperandTypes       Code = 20016
	UnknownBuildGuardConstant Code = 20017

	DuplicateFallbackModule  Code = 20018
	DuplicateModule          Code = 20019
	MissingAnchorModule      Code = 20020
	ImportedModuleNotFound   Code = 20021

	EmptyExponent Code = 20022

	InvalidUTF8            Code = 20100
	ContinuationByteAlone  Code = 20101
	MissingContinuation    Code = 20102
	BufferOverrun          Code = 20103
	OverlongEncoding       Code = 20104
	CodePointOutOfRange    Code = 20105
	SurrogateCodePoint     Code = 20106
	InvalidEscapeSequence  Code = 20107
	UnterminatedLiteral    Code = 20108

	RemoteURLMismatch  Code = 30001
	RevNotFound        Code = 30002
	FileOutsideWorkdir Code = 30003

	InsecureIdentifier Code = 40000
)

// DefaultMessage returns the human-readable default for c; callers may
// append a formatted detail (spec.md §4.I "Codes carry default messages").
func DefaultMessage(c Code) string {
	if m, ok := defaultMessages[c]; ok {
		return m
	}
	return fmt.Sprintf("error %d", int(c))
}

var defaultMessages = map[Code]string{
	Unimplemented:              "not yet implemented",
	CouldNotCloneRepository:    "could not clone repository",
	MissingSemicolon:           "expected ';'",
	MissingFQName:              "expected a fully-qualified name",
	MissingFilenameStem:        "expected a filename stem",
	MissingGitURL:              "expected a git URL",
	MissingGitRev:              "expected a git revision",
	MissingZipPath:             "expected a zip URL",
	MissingLibPath:             "expected a library path",
	MissingAsName:              "expected a name after 'as'",
	MissingModuleName:          "expected a module name",
	MissingTopDeclaration:      "expected 'module', 'program' or 'library'",
	MissingExpression:          "expected an expression",
	MissingRHSOfBinaryOperator: "missing right-hand side of binary operator",
	MissingClosingParenthesis:  "missing closing parenthesis",
	InvalidFQName:              "invalid fully-qualified name",
	InvalidPrologueStatement:   "invalid prologue statement",
	InvalidOperandTypes:        "invalid operand types",
	UnknownBuildGuardConstant:  "unknown build-guard constant",
	DuplicateFallbackModule:    "duplicate fallback module",
	DuplicateModule:            "duplicate module",
	MissingAnchorModule:        "missing anchor module",
	ImportedModuleNotFound:     "imported module not found",
	EmptyExponent:              "empty exponent",
	InvalidUTF8:                "invalid UTF-8",
	ContinuationByteAlone:      "continuation byte alone",
	MissingContinuation:        "missing continuation byte",
	BufferOverrun:              "buffer overrun",
	OverlongEncoding:           "overlong UTF-8 encoding",
	CodePointOutOfRange:        "code point out of range",
	SurrogateCodePoint:         "surrogate code point",
	InvalidEscapeSequence:      "invalid escape sequence",
	UnterminatedLiteral:        "unterminated literal",
	RemoteURLMismatch:          "remote URL does not match the recorded clone",
	RevNotFound:                "revision not found",
	FileOutsideWorkdir:         "file outside working directory",
	InsecureIdentifier:         "insecure identifier",
}
