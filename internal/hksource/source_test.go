package hksource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hikoworks/hkc/internal/hkpath"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
}

func TestNewSourceStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hkm")
	writeFile(t, path, "module com.example.a;\n")

	in := hkpath.New()
	s := New(path, in)
	if s.State() != Fresh {
		t.Fatalf("State() = %v, want Fresh", s.State())
	}
	if s.Text() != nil {
		t.Fatalf("Text() = %q, want nil before any Ensure call", s.Text())
	}
}

func TestEnsurePrologueAdvancesStateAndParsesTop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hkm")
	writeFile(t, path, "module com.example.a;\n")

	s := New(path, hkpath.New())
	if err := s.EnsurePrologue(); err != nil {
		t.Fatalf("EnsurePrologue() error = %v", err)
	}
	if s.State() != PrologueParsed {
		t.Fatalf("State() = %v, want PrologueParsed", s.State())
	}
	if s.Top() == nil {
		t.Fatal("Top() = nil, want a parsed prologue")
	}
	if s.Errs == nil || s.Errs.Len() != 0 {
		t.Fatalf("Errs = %+v, want an empty list for well-formed input", s.Errs)
	}
}

func TestEnsurePrologueIsIdempotentWithoutReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hkm")
	writeFile(t, path, "module com.example.a;\n")

	s := New(path, hkpath.New())
	if err := s.EnsurePrologue(); err != nil {
		t.Fatalf("EnsurePrologue() error = %v", err)
	}
	top := s.Top()
	if err := s.EnsurePrologue(); err != nil {
		t.Fatalf("second EnsurePrologue() error = %v", err)
	}
	if s.Top() != top {
		t.Fatal("second EnsurePrologue() re-parsed instead of reusing cached state")
	}
}

func TestEnsureFullReachesFullState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hkm")
	writeFile(t, path, "module com.example.a;\n")

	s := New(path, hkpath.New())
	if err := s.EnsureFull(); err != nil {
		t.Fatalf("EnsureFull() error = %v", err)
	}
	if s.State() != Full {
		t.Fatalf("State() = %v, want Full", s.State())
	}
	if s.Top() == nil {
		t.Fatal("Top() = nil after EnsureFull()")
	}
}

func TestEnsureLoadedReparsesAfterMtimeAdvances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hkm")
	writeFile(t, path, "module com.example.old;\n")

	s := New(path, hkpath.New())
	if err := s.EnsurePrologue(); err != nil {
		t.Fatalf("EnsurePrologue() error = %v", err)
	}
	if s.Top().Declaration.FQName != "com.example.old" {
		t.Fatalf("initial name = %s, want com.example.old", s.Top().Declaration.FQName)
	}

	// advance mtime explicitly, since test filesystems may have coarse
	// mtime resolution that a bare rewrite wouldn't clear.
	future := time.Now().Add(2 * time.Second)
	writeFile(t, path, "module com.example.new;\n")
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if err := s.EnsurePrologue(); err != nil {
		t.Fatalf("reload EnsurePrologue() error = %v", err)
	}
	if s.Top().Declaration.FQName != "com.example.new" {
		t.Fatalf("name after reload = %s, want com.example.new", s.Top().Declaration.FQName)
	}
}

func TestEnsurePrologueReportsMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.hkm")
	s := New(path, hkpath.New())
	if err := s.EnsurePrologue(); err == nil {
		t.Fatal("EnsurePrologue() on a missing file = nil, want an error")
	}
}
