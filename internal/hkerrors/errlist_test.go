package hkerrors

import (
	"bytes"
	"strings"
	"testing"
)

func TestSeverityOfRanges(t *testing.T) {
	cases := []struct {
		code Code
		want Severity
	}{
		{0, Informational},
		{9999, Informational},
		{10000, Warning},
		{19999, Warning},
		{20000, Error},
		{29999, Error},
		{30000, Fatal},
		{39999, Fatal},
		{40000, Security},
		{99999, Security},
	}
	for _, c := range cases {
		if got := SeverityOf(c.code); got != c.want {
			t.Errorf("SeverityOf(%d) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestAddSuppressesExactDuplicate(t *testing.T) {
	l := New(nil, nil, nil)
	if ok := l.Add(Span{First: 5, Last: 5}, MissingSemicolon, "", nil); !ok {
		t.Fatal("first Add() = false, want true")
	}
	if ok := l.Add(Span{First: 5, Last: 5}, MissingSemicolon, "", nil); ok {
		t.Fatal("duplicate Add() = true, want false (suppressed)")
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}

func TestAddKeepsDistinctCodesAtSameSpan(t *testing.T) {
	l := New(nil, nil, nil)
	l.Add(Span{First: 5, Last: 5}, MissingSemicolon, "", nil)
	l.Add(Span{First: 5, Last: 5}, MissingFQName, "", nil)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestRecordsAreSortedBySpan(t *testing.T) {
	l := New(nil, nil, nil)
	l.AddAt(30, MissingSemicolon, "")
	l.AddAt(10, MissingFQName, "")
	l.AddAt(20, MissingExpression, "")

	recs := l.Records()
	if len(recs) != 3 {
		t.Fatalf("Len() = %d, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Span.First > recs[i].Span.First {
			t.Fatalf("records not sorted by span: %+v", recs)
		}
	}
}

func TestHighestSeverityAcrossMixedCodes(t *testing.T) {
	l := New(nil, nil, nil)
	l.AddAt(1, CouldNotCloneRepository, "") // warning
	l.AddAt(2, MissingSemicolon, "")        // error
	if got := l.HighestSeverity(); got != Error {
		t.Fatalf("HighestSeverity() = %v, want Error", got)
	}
}

func TestHighestSeverityEmptyListIsInformational(t *testing.T) {
	l := New(nil, nil, nil)
	if got := l.HighestSeverity(); got != Informational {
		t.Fatalf("HighestSeverity() on empty list = %v, want Informational", got)
	}
}

func TestClearEmptiesRecords(t *testing.T) {
	l := New(nil, nil, nil)
	l.AddAt(1, MissingSemicolon, "")
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", l.Len())
	}
}

func TestAddWritesFormattedLineToOut(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil, nil, &buf)
	l.AddAt(0, MissingSemicolon, "")
	out := buf.String()
	if !strings.Contains(out, DefaultMessage(MissingSemicolon)) {
		t.Fatalf("output %q does not contain default message", out)
	}
	if !strings.Contains(out, "<unknown>") {
		t.Fatalf("output %q does not fall back to <unknown> file without a line table", out)
	}
}

func TestDefaultMessageFallsBackForUnknownCode(t *testing.T) {
	got := DefaultMessage(Code(123456))
	if !strings.Contains(got, "123456") {
		t.Fatalf("DefaultMessage(unknown) = %q, want it to mention the code", got)
	}
}
