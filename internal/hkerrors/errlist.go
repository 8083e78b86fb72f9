package hkerrors

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jmank88/nuts"

	"github.com/hikoworks/hkc/internal/hkpath"
)

// Span is a (first, last) byte-pointer pair, the ordering key spec.md
// §4.I fixes for the error list.
type Span struct {
	First uint64
	Last  uint64
}

// key encodes s as a 16-byte big-endian composite key via
// github.com/jmank88/nuts (golang-dep's own dependency for packing
// integers into lexicographically-ordered byte keys), so span ordering
// is a single bytes.Compare instead of a two-field comparison.
func (s Span) key() nuts.Key {
	k := make(nuts.Key, 16)
	k[:8].Put(s.First)
	k[8:].Put(s.Last)
	return k
}

func (s Span) less(o Span) bool {
	return bytes.Compare(s.key(), o.key()) < 0
}

// Record is one recorded error: a span, a code, a rendered message, and an
// optional wrapped cause (golang-dep wraps nearly every error with
// github.com/pkg/errors; Cause plays the same role here).
type Record struct {
	Span    Span
	Code    Code
	Message string
	Cause   error
}

func (r Record) Severity() Severity { return SeverityOf(r.Code) }

// List is the sorted-by-span, deduplicated error list of spec.md §4.I.
// Every insertion is immediately formatted and written to Out, if set.
type List struct {
	mu      sync.Mutex
	records []Record
	lines   *hkpath.LineTable
	text    []byte
	Out     io.Writer
}

// New creates an empty list. lines and text are used to format
// file:line:col positions; either may be nil/empty if positions aren't
// available yet (without a line table, formatting reports file <unknown>
// at line 0, column 0).
func New(lines *hkpath.LineTable, text []byte, out io.Writer) *List {
	return &List{lines: lines, text: text, Out: out}
}

// Add inserts a new record in span order, suppressing an exact duplicate
// (same code at the same span). Returns true if the record was newly
// added (and thus printed).
func (l *List) Add(span Span, code Code, detail string, cause error) bool {
	msg := DefaultMessage(code)
	if detail != "" {
		msg = msg + ": " + detail
	}
	rec := Record{Span: span, Code: code, Message: msg, Cause: cause}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := sort.Search(len(l.records), func(i int) bool {
		return !l.records[i].Span.less(span)
	})
	for i := idx; i < len(l.records) && l.records[i].Span == span; i++ {
		if l.records[i].Code == code {
			return false
		}
	}
	l.records = append(l.records, Record{})
	copy(l.records[idx+1:], l.records[idx:len(l.records)-1])
	l.records[idx] = rec

	if l.Out != nil {
		fmt.Fprintln(l.Out, l.format(rec))
	}
	return true
}

// AddAt is a convenience for a single-point span such as a parser cursor.
func (l *List) AddAt(pos uint64, code Code, detail string) bool {
	return l.Add(Span{First: pos, Last: pos}, code, detail, nil)
}

func (l *List) format(rec Record) string {
	file, line, col := "<unknown>", uint32(0), uint16(0)
	if l.lines != nil {
		file, line, col = l.lines.Position(rec.Span.First, l.text)
	}
	return FormatRecord(rec, file, line, col)
}

// FormatRecord renders rec as spec.md §6's required error-output line:
// "<path>:<line>:<column>: [<severity>] <message>", tagged by severity (W,
// E, F, S, I) so every diagnostic — whether printed from List.Add's own
// Out writer or from a caller holding only a Record, like cmd/hkc's
// per-module record loop — carries the same tag.
func FormatRecord(rec Record, file string, line uint32, col uint16) string {
	msg := fmt.Sprintf("%s:%d:%d: [%s] %s", file, line, col, rec.Severity(), rec.Message)
	if rec.Cause != nil {
		msg += ": " + rec.Cause.Error()
	}
	return msg
}

// Records returns a snapshot of the current list, in span order.
func (l *List) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// HighestSeverity returns the most severe recorded error, or Informational
// if the list is empty — used to derive the process exit status
// (spec.md §6, §7 "User visibility").
func (l *List) HighestSeverity() Severity {
	l.mu.Lock()
	defer l.mu.Unlock()
	highest := Informational
	for _, r := range l.records {
		if sev := r.Severity(); sev > highest {
			highest = sev
		}
	}
	return highest
}

// Len reports the number of distinct recorded errors.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear empties the list, e.g. when a source's text is reloaded
// (spec.md §4.J: "the error list is cleared only when the text is reloaded").
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = l.records[:0]
}
