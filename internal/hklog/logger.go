// Package hklog is a minimal io.Writer-backed logger, modeled directly on
// golang-dep's log/logger.go — the teacher deliberately avoids a
// structured-logging framework for its CLI layer, and so do we.
package hklog

import (
	"fmt"
	"io"
)

// Logger wraps an io.Writer with a couple of convenience formatters.
type Logger struct {
	io.Writer
	Verbose bool
}

// New returns a Logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{Writer: w, Verbose: verbose}
}

// Logln logs a line unconditionally.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted line unconditionally.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Debugf logs only when Verbose is set, prefixed "hkc: " the way
// golang-dep's LogDepfln prefixes with "dep: ".
func (l *Logger) Debugf(f string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	fmt.Fprintf(l, "hkc: "+f+"\n", args...)
}
