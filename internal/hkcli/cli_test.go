package hkcli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hkutil"
)

func TestParseArgsDefaultsRootToDot(t *testing.T) {
	opts, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs(nil) error = %v", err)
	}
	if opts.Root != "." {
		t.Fatalf("Root = %q, want .", opts.Root)
	}
	if opts.Color != hkutil.Any {
		t.Fatalf("Color = %v, want Any", opts.Color)
	}
	if opts.Concurrency != 8 {
		t.Fatalf("Concurrency = %d, want 8", opts.Concurrency)
	}
}

func TestParseArgsPositionalSetsRoot(t *testing.T) {
	opts, err := ParseArgs([]string{"-offline", "/some/root"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if opts.Root != "/some/root" {
		t.Fatalf("Root = %q, want /some/root", opts.Root)
	}
	if !opts.Offline {
		t.Fatal("Offline = false, want true")
	}
}

func TestParseArgsFlags(t *testing.T) {
	opts, err := ParseArgs([]string{"-no-prune", "-v", "-frozen", "-color=always", "-j=4"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !opts.NoPrune || !opts.Verbose || !opts.FrozenLock {
		t.Fatalf("opts = %+v, want all three bools set", opts)
	}
	if opts.Color != hkutil.T {
		t.Fatalf("Color = %v, want T", opts.Color)
	}
	if opts.Concurrency != 4 {
		t.Fatalf("Concurrency = %d, want 4", opts.Concurrency)
	}
}

func TestParseArgsColorNeverAndAuto(t *testing.T) {
	opts, err := ParseArgs([]string{"-color=never"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if opts.Color != hkutil.F {
		t.Fatalf("Color = %v, want F", opts.Color)
	}
	opts, err = ParseArgs([]string{"-color=auto"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if opts.Color != hkutil.Any {
		t.Fatalf("Color = %v, want Any", opts.Color)
	}
}

func TestParseArgsDefinePopulatesNamespace(t *testing.T) {
	opts, err := ParseArgs([]string{"-Dos=linux", "-Darch=amd64"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	d := opts.Namespace.Get("os")
	if d == nil || d.StrValue != "linux" {
		t.Fatalf("Get(os) = %+v, want String(linux)", d)
	}
	d = opts.Namespace.Get("arch")
	if d == nil || d.StrValue != "amd64" {
		t.Fatalf("Get(arch) = %+v, want String(amd64)", d)
	}
}

func TestParseArgsDefineWithoutEqualsIsError(t *testing.T) {
	if _, err := ParseArgs([]string{"-Dbroken"}); err == nil {
		t.Fatal("ParseArgs() = nil error, want an error for -D without name=value")
	}
}

func TestParseArgsUnknownFlagIsError(t *testing.T) {
	if _, err := ParseArgs([]string{"-bogus"}); err == nil {
		t.Fatal("ParseArgs() = nil error, want an error for an unrecognized flag")
	}
}

func TestParseArgsExpandsResponseFile(t *testing.T) {
	dir := t.TempDir()
	rf := filepath.Join(dir, "args.rsp")
	if err := os.WriteFile(rf, []byte("-offline -Dos=linux \"/path with space\""), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts, err := ParseArgs([]string{"@" + rf})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !opts.Offline {
		t.Fatal("Offline = false, want true from expanded response file")
	}
	if opts.Root != "/path with space" {
		t.Fatalf("Root = %q, want \"/path with space\"", opts.Root)
	}
}

func TestParseArgsResponseFileMissingFileErrors(t *testing.T) {
	if _, err := ParseArgs([]string{"@/does/not/exist.rsp"}); err == nil {
		t.Fatal("ParseArgs() = nil error, want an error for a missing response file")
	}
}

func TestSplitShellWordsUnterminatedQuoteErrors(t *testing.T) {
	if _, err := splitShellWords(`"unterminated`); err == nil {
		t.Fatal("splitShellWords() = nil error, want an error for an unterminated quote")
	}
}

func TestSplitShellWordsBackslashEscapes(t *testing.T) {
	words, err := splitShellWords(`a\ b\tc`)
	if err != nil {
		t.Fatalf("splitShellWords() error = %v", err)
	}
	if len(words) != 1 || words[0] != "a b\tc" {
		t.Fatalf("words = %q, want [\"a b\\tc\"]", words)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		sev  hkerrors.Severity
		want int
	}{
		{hkerrors.Informational, 0},
		{hkerrors.Warning, 1},
		{hkerrors.Error, 2},
		{hkerrors.Fatal, 3},
		{hkerrors.Security, 3},
	}
	for _, c := range cases {
		if got := ExitCode(c.sev); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.sev, got, c.want)
		}
	}
}
