// Package hkcli implements the command-line front end of spec.md §6: a
// response-file-aware argument reader (`@file` expands to that file's
// contents, split the way a shell would, with C-style backslash escapes)
// feeding a small option table that builds the initial build-guard
// namespace and the process exit-code contract of spec.md §7.
//
// Grounded on golang-dep's cmd/dep/main.go + cmd.go (flag.FlagSet per
// subcommand, a tiny explicit dispatch table keyed by subcommand name)
// generalized with response-file expansion, which golang-dep's CLI never
// needed but which original_source/src/command_line.cpp implements for
// very long import lists.
package hkcli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hikoworks/hkc/internal/hkdatum"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hkutil"
)

// ExitCode maps a run's outcome to the process exit status spec.md §7
// fixes: 0 clean, 1 warnings only, 2 errors, 3 fatal/security.
func ExitCode(highest hkerrors.Severity) int {
	switch highest {
	case hkerrors.Informational, hkerrors.Warning:
		if highest == hkerrors.Warning {
			return 1
		}
		return 0
	case hkerrors.Error:
		return 2
	default:
		return 3
	}
}

// Options is the parsed command line: the root directory to resolve,
// the initial build-guard namespace (from -D name=value flags), and the
// three-way color setting as a Tri value (spec.md's tri-state logic
// applied to a CLI flag that can be forced on, forced off, or left to
// auto-detect).
type Options struct {
	Root        string
	Namespace   *hkdatum.Namespace
	Color       hkutil.Tri
	Offline     bool
	NoPrune     bool
	Verbose     bool
	FrozenLock  bool
	Concurrency int
}

// ParseArgs expands any `@file` response-file arguments in args and
// parses the result into Options.
func ParseArgs(args []string) (*Options, error) {
	expanded, err := expandResponseFiles(args)
	if err != nil {
		return nil, err
	}
	opts := &Options{
		Namespace:   hkdatum.NewNamespace(),
		Color:       hkutil.Any,
		Concurrency: 8,
	}
	for i := 0; i < len(expanded); i++ {
		a := expanded[i]
		switch {
		case a == "-offline":
			opts.Offline = true
		case a == "-no-prune":
			opts.NoPrune = true
		case a == "-v" || a == "-verbose":
			opts.Verbose = true
		case a == "-frozen":
			opts.FrozenLock = true
		case a == "-color=always":
			opts.Color = hkutil.T
		case a == "-color=never":
			opts.Color = hkutil.F
		case a == "-color=auto":
			opts.Color = hkutil.Any
		case strings.HasPrefix(a, "-D"):
			if err := applyDefine(opts.Namespace, strings.TrimPrefix(a, "-D")); err != nil {
				return nil, err
			}
		case strings.HasPrefix(a, "-j="):
			n := 0
			fmt.Sscanf(strings.TrimPrefix(a, "-j="), "%d", &n)
			if n > 0 {
				opts.Concurrency = n
			}
		case strings.HasPrefix(a, "-"):
			return nil, fmt.Errorf("hkcli: unknown flag %q", a)
		default:
			opts.Root = a
		}
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	return opts, nil
}

func applyDefine(ns *hkdatum.Namespace, kv string) error {
	parts := strings.SplitN(kv, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("hkcli: -D expects name=value, got %q", kv)
	}
	ns.Set(parts[0], hkdatum.NewString(parts[1]))
	return nil
}

// expandResponseFiles walks args left to right, replacing any `@path`
// argument with the tokens read from that file (split on whitespace with
// C-style backslash escapes and double-quoted runs honored, the same
// splitting a shell performs on a command line), recursively.
func expandResponseFiles(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			data, err := os.ReadFile(a[1:])
			if err != nil {
				return nil, err
			}
			toks, err := splitShellWords(string(data))
			if err != nil {
				return nil, err
			}
			nested, err := expandResponseFiles(toks)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// splitShellWords splits s into words on whitespace, honoring
// double-quoted runs (which may contain escaped whitespace) and the
// C-family backslash escapes \n \t \\ \" spec.md's string literals use,
// so a response file can embed a path containing a space.
func splitShellWords(s string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	inQuotes := false
	flush := func() {
		if inWord {
			words = append(words, cur.String())
			cur.Reset()
			inWord = false
		}
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			inQuotes = !inQuotes
			inWord = true
		case r == '\\' && i+1 < len(runes):
			i++
			switch runes[i] {
			case 'n':
				cur.WriteRune('\n')
			case 't':
				cur.WriteRune('\t')
			default:
				cur.WriteRune(runes[i])
			}
			inWord = true
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	flush()
	if inQuotes {
		return nil, fmt.Errorf("hkcli: unterminated quoted string in response file")
	}
	return words, nil
}
