// Package hkparser implements the prologue parser and build-guard
// expression parser of spec.md §4.H and §4.G: a precedence-climbing
// expression parser over hklazy's token cursor, and a hand-written
// recursive-descent parser for the Top/import/declaration grammar, with
// statement-level error recovery that resynchronizes on the next ';'.
//
// Grounded on internal/gps's own recursive-descent constraint-string
// parser (cvtconstraint.go) for the "one function per grammar rule,
// explicit token-kind dispatch" shape, generalized here to a full
// precedence-climbing expression grammar since build guards need
// operator precedence gps's tiny grammar never did.
package hkparser

import (
	"github.com/hikoworks/hkc/internal/hkast"
	"github.com/hikoworks/hkc/internal/hkdatum"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hklazy"
	"github.com/hikoworks/hkc/internal/hktoken"
)

// precedence returns op's binding power, or 0 if op is not a build-guard
// binary operator. spec.md §4.H fixes the ladder by a "lower number
// binds tighter" rule: in/not-in = 5, relational = 9, equality = 10,
// and = 14, or = 15. This table inverts that into "higher number binds
// tighter" so parseBinaryRHS's ordinary precedence-climbing comparison
// (>) reads the same way it would for any other operator grammar.
func precedence(op string) int {
	switch op {
	case "or":
		return 1
	case "and":
		return 2
	case "==", "!=":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "in", "not in":
		return 5
	default:
		return 0
	}
}

// Parser drives both the prologue grammar and the build-guard expression
// grammar over a shared token cursor, recording malformed input in errs
// rather than failing outright so a source file with one bad statement
// still yields everything else (spec.md §4.J "partial parse").
type Parser struct {
	c    *hklazy.Cursor
	errs *hkerrors.List
}

// New returns a parser positioned at the start of c.
func New(c *hklazy.Cursor, errs *hkerrors.List) *Parser {
	return &Parser{c: c, errs: errs}
}

// ParseGuardExpr parses one build-guard expression via precedence
// climbing. ok is false when the very first token can't start an
// expression at all (the cursor is not moved), and also when a leading
// `not` or `(` is not followed by an expression; in that second case an
// error has already been recorded in errs and the cursor has moved past
// the `not` or `(`. A missing right-hand side of a binary operator is
// recorded in errs and the left operand is still returned with ok true so
// the caller can keep parsing siblings.
func (p *Parser) ParseGuardExpr() (*hkast.BuildGuardExpr, bool) {
	left, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	return p.parseBinaryRHS(left, 0), true
}

func (p *Parser) parseBinaryRHS(left *hkast.BuildGuardExpr, minPrec int) *hkast.BuildGuardExpr {
	for {
		op, prec := p.peekBinaryOp()
		if prec < minPrec || prec == 0 {
			return left
		}
		opTok := p.c.Advance()
		if op == "not in" {
			p.c.Advance() // consume the paired "in"
		}
		right, ok := p.parsePrimary()
		if !ok {
			p.errs.AddAt(opTok.First.Byte, hkerrors.MissingRHSOfBinaryOperator, "")
			return left
		}
		for {
			_, nextPrec := p.peekBinaryOp()
			if nextPrec <= prec {
				break
			}
			right = p.parseBinaryRHS(right, prec+1)
		}
		left = &hkast.BuildGuardExpr{
			Span:  hkast.Span{First: left.Span.First, Last: right.Span.Last},
			Kind:  hkast.ExprBinary,
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

// peekBinaryOp reports the binary operator text starting at the cursor
// (without consuming it) and its precedence. "not in" is the one
// two-token operator: it is recognised only when "not" is immediately
// followed by "in", so a lone "not" here (a unary operator, not a
// binary one) correctly reports no match.
func (p *Parser) peekBinaryOp() (string, int) {
	t := p.c.Current()
	switch t.Kind {
	case hktoken.KindOperator:
		return t.Text, precedence(t.Text)
	case hktoken.KindIdentifier:
		switch t.Text {
		case "and", "or", "in":
			return t.Text, precedence(t.Text)
		case "not":
			if p.c.Peek(1).Kind == hktoken.KindIdentifier && p.c.Peek(1).Text == "in" {
				return "not in", precedence("not in")
			}
		}
	}
	return "", 0
}

// parsePrimary parses a unary expression, a literal, a variable
// reference, a parenthesized sub-expression, or a bracketed string-list
// literal. ok is false if the current token starts none of those.
func (p *Parser) parsePrimary() (*hkast.BuildGuardExpr, bool) {
	t := p.c.Current()

	if t.Kind == hktoken.KindIdentifier && t.Text == "not" {
		op := p.c.Advance()
		operand, ok := p.parsePrimary()
		if !ok {
			p.errs.AddAt(op.First.Byte, hkerrors.MissingExpression, "")
			return nil, false
		}
		return &hkast.BuildGuardExpr{
			Span:    hkast.Span{First: op.First.Byte, Last: operand.Span.Last},
			Kind:    hkast.ExprUnary,
			Op:      "not",
			Operand: operand,
		}, true
	}

	if t.Kind == hktoken.KindSimple && t.Text == "(" {
		p.c.Advance()
		inner, ok := p.ParseGuardExpr()
		if !ok {
			p.errs.AddAt(t.First.Byte, hkerrors.MissingExpression, "")
			return nil, false
		}
		closeTok := p.c.Current()
		if closeTok.Kind == hktoken.KindSimple && closeTok.Text == ")" {
			p.c.Advance()
		} else {
			p.errs.AddAt(closeTok.First.Byte, hkerrors.MissingClosingParenthesis, "")
		}
		return inner, true
	}

	if t.Kind == hktoken.KindSimple && t.Text == "[" {
		return p.parseStringListLiteral()
	}

	switch t.Kind {
	case hktoken.KindString:
		p.c.Advance()
		return literalNode(t, hkdatum.NewString(t.StringValue)), true
	case hktoken.KindInteger:
		p.c.Advance()
		return literalNode(t, hkdatum.NewInteger(t.IntValue)), true
	case hktoken.KindVersion:
		p.c.Advance()
		return literalNode(t, hkdatum.NewVersion(t.Version)), true
	case hktoken.KindIdentifier:
		p.c.Advance()
		switch t.Text {
		case "true":
			return literalNode(t, hkdatum.NewBool(true)), true
		case "false":
			return literalNode(t, hkdatum.NewBool(false)), true
		default:
			return &hkast.BuildGuardExpr{
				Span: hkast.Span{First: t.First.Byte, Last: t.Last.Byte},
				Kind: hkast.ExprVariable,
				Name: t.Text,
			}, true
		}
	default:
		return nil, false
	}
}

func (p *Parser) parseStringListLiteral() (*hkast.BuildGuardExpr, bool) {
	open := p.c.Advance() // '['
	var items []string
	for {
		cur := p.c.Current()
		if cur.Kind == hktoken.KindSimple && cur.Text == "]" {
			p.c.Advance()
			break
		}
		if cur.IsEOF() {
			p.errs.AddAt(cur.First.Byte, hkerrors.UnterminatedLiteral, "unterminated string-list literal")
			break
		}
		if cur.Kind == hktoken.KindString {
			items = append(items, cur.StringValue)
			p.c.Advance()
		} else {
			p.errs.AddAt(cur.First.Byte, hkerrors.MissingExpression, "expected a string in list literal")
			p.c.Advance()
			continue
		}
		if p.c.Current().Kind == hktoken.KindSimple && p.c.Current().Text == "," {
			p.c.Advance()
		}
	}
	last := p.c.Current().First.Byte
	return &hkast.BuildGuardExpr{
		Span:    hkast.Span{First: open.First.Byte, Last: last},
		Kind:    hkast.ExprLiteral,
		Literal: hkdatum.NewStringList(items),
	}, true
}

func literalNode(t hktoken.Token, d hkdatum.Datum) *hkast.BuildGuardExpr {
	return &hkast.BuildGuardExpr{
		Span:    hkast.Span{First: t.First.Byte, Last: t.Last.Byte},
		Kind:    hkast.ExprLiteral,
		Literal: d,
	}
}
