// Command hkc is the compiler front end and dependency resolver of
// spec.md: it gathers every .hkm file under a directory, parses each
// file's prologue, resolves transitive remote imports into _hkdeps, and
// reports every diagnostic to stderr.
//
// Grounded on golang-dep's cmd/dep/main.go: a thin wrapper that parses
// flags, builds the long-lived context object (here, hkrepo.Repository),
// runs the single operation, and maps its outcome to a process exit code.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hikoworks/hkc/internal/hkcli"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hklog"
	"github.com/hikoworks/hkc/internal/hkrepo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr *os.File) int {
	opts, err := hkcli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, "hkc:", err)
		return 3
	}
	logger := hklog.New(stderr, opts.Verbose)

	flags := hkrepo.ResolveFlags{
		Offline:    opts.Offline,
		NoPrune:    opts.NoPrune,
		Verbose:    opts.Verbose,
		FrozenLock: opts.FrozenLock,
	}
	repo := hkrepo.New(opts.Root, flags, opts.Namespace)

	logger.Debugf("gathering modules under %s", opts.Root)
	if err := repo.Gather(); err != nil {
		fmt.Fprintln(stderr, "hkc:", err)
		return 3
	}

	sink := &stderrSink{out: stderr}
	ctx := context.Background()

	logger.Debugf("parsing %d module(s)", len(repo.ModulesByPath()))
	if err := repo.ParseAll(ctx, opts.Concurrency, sink); err != nil {
		fmt.Fprintln(stderr, "hkc:", err)
		return 3
	}

	logger.Debugf("resolving remote imports")
	if err := repo.Resolve(ctx, sink); err != nil {
		fmt.Fprintln(stderr, "hkc:", err)
		return 3
	}

	highest := sink.highest
	for _, m := range repo.ModulesByPath() {
		if m.Source.Errs == nil {
			continue
		}
		if sev := m.Source.Errs.HighestSeverity(); sev > highest {
			highest = sev
		}
		lines := m.Source.Lines()
		text := m.Source.Text()
		for _, rec := range m.Source.Errs.Records() {
			file, line, col := m.Path, uint32(0), uint16(0)
			if lines != nil {
				file, line, col = lines.Position(rec.Span.First, text)
			}
			fmt.Fprintln(stderr, hkerrors.FormatRecord(rec, file, line, col))
		}
	}

	return hkcli.ExitCode(highest)
}

// stderrSink implements hkrepo.ErrorSink, printing module-level errors
// (ones not naturally attached to a parsed source's own error list)
// directly to stderr and tracking the worst severity seen.
type stderrSink struct {
	out     *os.File
	highest hkerrors.Severity
}

func (s *stderrSink) Add(path string, code hkerrors.Code, detail string) {
	msg := hkerrors.DefaultMessage(code)
	if detail != "" {
		msg += ": " + detail
	}
	sev := hkerrors.SeverityOf(code)
	fmt.Fprintf(s.out, "%s: [%s] %s\n", path, sev, msg)
	if sev > s.highest {
		s.highest = sev
	}
}
