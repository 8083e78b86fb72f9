// Package hkcursor implements the file cursor spec.md §4.C describes: a
// buffered UTF-8 reader with a fixed 8-code-point lookahead and optional
// Caesar-shift scrambling.
//
// The chunked buffering itself is delegated to
// github.com/pelletier/go-buffruneio, the same buffered-rune reader
// golang-dep vendors (and pelletier/go-toml's own lexer is built on); the
// 8-deep lookahead ring and the scramble transform are this package's own,
// since neither has an analogue in buffruneio.
package hkcursor

import (
	"io"

	"github.com/pelletier/go-buffruneio"
	"github.com/pkg/errors"

	"github.com/hikoworks/hkc/internal/hkpath"
)

// LookaheadDepth is the fixed lookahead window spec.md §4.C requires.
const LookaheadDepth = 8

// Location is the (line, file, column) triple the cursor reports, backed
// by the shared line table.
type Location struct {
	Line   uint32
	File   string
	Column uint16
}

// Cursor reads a file's code points with 8-deep lookahead, tracks its own
// line via a LineTable, and can apply #scram's Caesar-shift obfuscation.
type Cursor struct {
	src  *buffruneio.Reader
	buf  [LookaheadDepth]rune
	size int // number of valid entries currently in buf

	lines      *hkpath.LineTable
	bytePos    uint64
	line       uint32
	fileName   string

	scramKey uint32
	scrambled [LookaheadDepth]bool // whether buf[i] has already been scrambled at its current key
}

// New wraps r, which must yield text ending in 8 trailing NUL bytes (so
// sub-parsers can peek without bounds checks, per spec.md §4.D), and
// begins filling the lookahead window.
func New(r io.Reader, fileName string) *Cursor {
	c := &Cursor{
		src:      buffruneio.NewReader(r),
		lines:    hkpath.NewLineTable(fileName),
		line:     1,
		fileName: fileName,
	}
	for i := 0; i < LookaheadDepth; i++ {
		c.fill(i)
	}
	return c
}

func (c *Cursor) fill(i int) {
	r, _, err := c.src.ReadRune()
	if err != nil {
		r = 0 // EOF: pad with NUL, matching the 8-trailing-NUL text contract.
	}
	c.buf[i] = r
	c.scrambled[i] = false
	if c.size <= i {
		c.size = i + 1
	}
	c.applyScramble(i)
}

// Peek returns the code point k positions ahead (k in [0,7]); reading past
// end of file yields NUL.
func (c *Cursor) Peek(k int) rune {
	if k < 0 || k >= LookaheadDepth {
		panic(errors.Errorf("hkcursor: peek(%d) out of [0,%d) range", k, LookaheadDepth))
	}
	return c.buf[k]
}

// Size reports how many lookahead slots are not past end of file; 0 means
// end of file has been reached (all remaining slots are the NUL pad).
func (c *Cursor) Size() int {
	n := 0
	for i := 0; i < c.size; i++ {
		if c.buf[i] == 0 {
			break
		}
		n++
	}
	return n
}

// Advance consumes the current code point, shifts the lookahead window,
// and updates line/column bookkeeping.
func (c *Cursor) Advance() rune {
	r := c.buf[0]
	if r != 0 {
		var next rune
		if c.size > 1 {
			next = c.buf[1]
		}
		enc := encodeLen(r)
		if vs := verticalSpaceLen(r, next); vs > 0 {
			c.line++
		}
		c.bytePos += uint64(enc)
	}
	copy(c.buf[:], c.buf[1:])
	copy(c.scrambled[:], c.scrambled[1:])
	c.fill(LookaheadDepth - 1)
	return r
}

// Location reports the cursor's current line and file. The cursor does not
// track columns; Column is always 0.
func (c *Cursor) Location() Location {
	return Location{Line: c.line, File: c.fileName, Column: 0}
}

// BytePos reports the cursor's current absolute byte offset.
func (c *Cursor) BytePos() uint64 { return c.bytePos }

// SetLine implements the #line directive: rewrites the cursor's current
// line and, if fileName is non-empty, the upstream file name, recording a
// sync point in the shared line table.
func (c *Cursor) SetLine(line uint32, fileName string) {
	c.line = line
	if fileName != "" {
		c.fileName = fileName
	}
	c.lines.Add(c.bytePos, line, fileName)
}

// SetScramKey implements #scram: sets the xorshift32-evolving Caesar-shift
// key. A key of zero is a no-op transform, but the scheduler still
// advances so a later non-zero #scram resumes from a fresh state. All
// code points already sitting in the lookahead window are re-scrambled
// immediately so the invariant holds that every code point in the
// lookahead is always in the same (post-#scram) state.
func (c *Cursor) SetScramKey(key uint32) {
	c.scramKey = key
	for i := 0; i < c.size; i++ {
		c.scrambled[i] = false
		c.applyScramble(i)
	}
}

// applyScramble Caesar-shifts buf[i] over the printable ASCII range
// '!'..'~' using the low 8 bits of the xorshift32-evolving key, advancing
// the key once per shifted code point even when the low byte is zero.
func (c *Cursor) applyScramble(i int) {
	if c.scrambled[i] {
		return
	}
	c.scrambled[i] = true
	if c.scramKey == 0 {
		c.scramKey = xorshift32(c.scramKey)
		return
	}
	r := c.buf[i]
	shift := byte(c.scramKey)
	c.scramKey = xorshift32(c.scramKey)
	if r < '!' || r > '~' {
		return
	}
	span := byte('~' - '!' + 1)
	offset := byte(r-'!') + shift
	c.buf[i] = rune('!' + offset%span)
}

func xorshift32(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

func encodeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

func verticalSpaceLen(r, next rune) int {
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
