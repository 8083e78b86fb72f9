package hklog

import (
	"bytes"
	"testing"
)

func TestLoglnWritesLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Logln("hello", "world")
	if got := buf.String(); got != "hello world\n" {
		t.Fatalf("Logln output = %q, want %q", got, "hello world\n")
	}
}

func TestLogfWritesFormatted(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Logf("n=%d", 3)
	if got := buf.String(); got != "n=3" {
		t.Fatalf("Logf output = %q, want %q", got, "n=3")
	}
}

func TestDebugfSuppressedWithoutVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debugf("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("Debugf wrote %q while Verbose=false, want nothing", buf.String())
	}
}

func TestDebugfWritesPrefixedLineWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	l.Debugf("n=%d", 7)
	if got, want := buf.String(), "hkc: n=7\n"; got != want {
		t.Fatalf("Debugf output = %q, want %q", got, want)
	}
}
