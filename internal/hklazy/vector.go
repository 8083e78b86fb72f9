// Package hklazy implements the lazy token vector of spec.md §4.E: a
// random-access cursor over a token generator that pulls tokens from the
// lexer only as far as a caller has looked, caching everything it has
// already produced so repeated seeks to an earlier index are free.
//
// Grounded on golang-dep's gps.versionQueue (internal/gps's own
// pull-as-needed, cache-what-you've-seen iterator over an expensive
// producer) for the growth/caching idiom; built directly on
// internal/hktoken.Lexer as its producer.
package hklazy

import "github.com/hikoworks/hkc/internal/hktoken"

// TokenSource is anything that can produce a total token stream; *hktoken.Lexer
// satisfies it, and so does any test double that simply replays a canned
// slice of tokens.
type TokenSource interface {
	Next() hktoken.Token
}

// Vector is a lazily-grown, randomly-addressable view over a TokenSource.
// Index 0 is the first token; an index past the end of the underlying
// stream always returns the sentinel end-of-file token the source itself
// produces once exhausted.
type Vector struct {
	src    TokenSource
	tokens []hktoken.Token
	eof    bool
}

// New wraps src. Nothing is pulled from it until the vector is indexed.
func New(src TokenSource) *Vector {
	return &Vector{src: src}
}

// growTo ensures tokens[0:n+1] is populated (or the stream has reached
// EOF first), pulling from src as needed. Comment and documentation
// tokens are trivia to every consumer of the vector (the parser has no
// use for them; later doc-comment attachment is out of this front end's
// scope per spec.md §1) and are dropped here rather than at the lexer,
// which still must emit them so its own token stream covers every byte.
func (v *Vector) growTo(n int) {
	for !v.eof && len(v.tokens) <= n {
		t := v.src.Next()
		if isTrivia(t) {
			continue
		}
		v.tokens = append(v.tokens, t)
		if t.IsEOF() {
			v.eof = true
		}
	}
}

func isTrivia(t hktoken.Token) bool {
	switch t.Kind {
	case hktoken.KindComment, hktoken.KindDocumentation, hktoken.KindBackDocumentation:
		return true
	default:
		return false
	}
}

// At returns the token at index i, pulling from the source as needed. An
// index past the end of the stream returns the same EOF token repeatedly.
func (v *Vector) At(i int) hktoken.Token {
	if i < 0 {
		i = 0
	}
	v.growTo(i)
	if i >= len(v.tokens) {
		return v.tokens[len(v.tokens)-1]
	}
	return v.tokens[i]
}

// Len reports how many tokens have been pulled so far; it grows as the
// vector is indexed further and is not the total length of the stream
// until EOF has been reached.
func (v *Vector) Len() int {
	return len(v.tokens)
}

// EOFIndex returns the index of the cached EOF token once the whole
// stream has been pulled, or -1 if the stream hasn't been exhausted yet.
func (v *Vector) EOFIndex() int {
	if !v.eof {
		return -1
	}
	return len(v.tokens) - 1
}

// Cursor is a movable position into a Vector, the unit the parser
// actually threads through its recursive-descent calls.
type Cursor struct {
	v   *Vector
	pos int
}

// NewCursor returns a cursor positioned at the start of v.
func NewCursor(v *Vector) *Cursor {
	return &Cursor{v: v}
}

// Peek returns the token k positions ahead of the cursor without moving it.
func (c *Cursor) Peek(k int) hktoken.Token {
	return c.v.At(c.pos + k)
}

// Current is Peek(0).
func (c *Cursor) Current() hktoken.Token {
	return c.Peek(0)
}

// Advance consumes and returns the current token, moving the cursor
// forward by one (never past the cached EOF token).
func (c *Cursor) Advance() hktoken.Token {
	t := c.Current()
	if !t.IsEOF() {
		c.pos++
	}
	return t
}

// Mark returns an opaque position usable with Reset, for backtracking
// parses that speculatively consume tokens before deciding a rule
// doesn't match.
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a position previously returned by Mark.
func (c *Cursor) Reset(mark int) { c.pos = mark }
