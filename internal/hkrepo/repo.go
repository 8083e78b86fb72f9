// Package hkrepo implements the repository model and resolver of
// spec.md §4.K: gathering every .hkm file under a root directory into a
// module set, fanning prologue parsing out across them, evaluating
// import build guards, and fixed-point resolving transitive remote
// (git/zip) imports into a deterministically-named _hkdeps tree with
// mark-and-sweep pruning of anything no longer reachable.
//
// Grounded on internal/gps's solver.go (the same fixed-point "keep
// resolving newly-discovered imports until a pass adds nothing" shape)
// and on golang-dep's directory-gather pass in internal/importers, here
// rebuilt on github.com/karrick/godirwalk (the pack's directory-walk
// dependency) instead of filepath.Walk, and guarded by
// github.com/theckman/go-flock so two `hkc` invocations never resolve
// the same _hkdeps tree concurrently.
package hkrepo

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	flock "github.com/theckman/go-flock"

	"github.com/hikoworks/hkc/internal/hkast"
	"github.com/hikoworks/hkc/internal/hkdatum"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hkpath"
	"github.com/hikoworks/hkc/internal/hkpool"
	"github.com/hikoworks/hkc/internal/hkremote"
	"github.com/hikoworks/hkc/internal/hksource"
	"github.com/hikoworks/hkc/internal/hkutil"
)

// Module is one discovered .hkm file together with its parsed prologue.
type Module struct {
	Path   string
	Name   string
	Source *hksource.Source
}

// Repository holds every module found under Root, indexed both by
// filesystem path and by declared module name (spec.md §4.K's two
// required orderings: "by path" and "by module name").
type Repository struct {
	Root      string
	DepsDir   string
	Interner  *hkpath.Interner
	Flags     ResolveFlags
	Namespace *hkdatum.Namespace // build-guard value environment; never nil

	byPath map[string]*Module
	byName map[string]*Module

	lock *Lock
	lck  *flock.Flock
}

// New returns a Repository rooted at root, with remote imports
// materialized under root/_hkdeps. ns is the build-guard value
// environment (spec.md §6); pass hkdatum.NewNamespace() for an empty one.
func New(root string, flags ResolveFlags, ns *hkdatum.Namespace) *Repository {
	if ns == nil {
		ns = hkdatum.NewNamespace()
	}
	return &Repository{
		Root:      root,
		DepsDir:   filepath.Join(root, "_hkdeps"),
		Interner:  hkpath.New(),
		Flags:     flags,
		Namespace: ns,
		byPath:    map[string]*Module{},
		byName:    map[string]*Module{},
	}
}

// Gather walks Root collecting every *.hkm file into the module set,
// skipping any directory or file whose base name starts with '.' or
// '_' (so _hkdeps itself is never rescanned), and detecting symlink
// cycles via a set of canonicalized directory paths already visited.
func (r *Repository) Gather() error {
	seen := map[string]bool{}
	return godirwalk.Walk(r.Root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			base := filepath.Base(path)
			if path != r.Root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
				if de.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if de.IsDir() {
				canon, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil
				}
				if seen[canon] {
					return filepath.SkipDir
				}
				seen[canon] = true
				return nil
			}
			if strings.HasSuffix(path, ".hkm") {
				r.addModulePath(path)
			}
			return nil
		},
		Unsorted: true,
	})
}

func (r *Repository) addModulePath(path string) {
	if _, ok := r.byPath[path]; ok {
		return
	}
	r.byPath[path] = &Module{Path: path, Source: hksource.New(path, r.Interner)}
}

// ParseAll fans prologue parsing out across every gathered module with
// bounded concurrency, then indexes the results by declared module name.
// A name collision between two modules is reported via errs rather than
// silently picking one (spec.md's DuplicateModule).
func (r *Repository) ParseAll(ctx context.Context, concurrency int, errs ErrorSink) error {
	mods := r.ModulesByPath()
	pool := hkpool.New(concurrency)
	fns := make([]func(context.Context) error, len(mods))
	for i, m := range mods {
		m := m
		fns[i] = func(ctx context.Context) error {
			return m.Source.EnsurePrologue()
		}
	}
	if err := pool.Run(ctx, fns); err != nil {
		return err
	}
	byName := map[string][]*Module{}
	for _, m := range mods {
		top := m.Source.Top()
		if top == nil {
			continue
		}
		top.EvaluateBuildGuards(r.Namespace, m.Source.Errs)
		m.Name = top.Declaration.FQName
		if m.Name == "" {
			continue
		}
		byName[m.Name] = append(byName[m.Name], m)
	}

	// Resolve duplicates per spec.md §4.K step 4/§7: among the modules
	// declaring the same name, a non-fallback module that evaluated
	// enabled wins; more than one such winner is DuplicateModule. With no
	// enabled non-fallback candidate, a single enabled fallback module
	// wins instead; more than one is DuplicateFallbackModule.
	for name, candidates := range byName {
		var primary, fallback []*Module
		for _, m := range candidates {
			top := m.Source.Top()
			if !top.Enabled() {
				continue
			}
			if top.Declaration.Fallback {
				fallback = append(fallback, m)
			} else {
				primary = append(primary, m)
			}
		}
		switch {
		case len(primary) == 1:
			r.byName[name] = primary[0]
		case len(primary) > 1:
			r.byName[name] = primary[0]
			for _, m := range primary[1:] {
				errs.Add(m.Path, hkerrors.DuplicateModule, name)
			}
		case len(fallback) == 1:
			r.byName[name] = fallback[0]
		case len(fallback) > 1:
			r.byName[name] = fallback[0]
			for _, m := range fallback[1:] {
				errs.Add(m.Path, hkerrors.DuplicateFallbackModule, name)
			}
		}
	}
	return nil
}

// ErrorSink is the minimal interface ParseAll/Resolve need to report
// module-level errors that aren't naturally attached to a source span
// (e.g. a name collision between two different files).
type ErrorSink interface {
	Add(path string, code hkerrors.Code, detail string)
}

// ModulesByPath returns every gathered module sorted by filesystem path.
func (r *Repository) ModulesByPath() []*Module {
	out := make([]*Module, 0, len(r.byPath))
	for _, m := range r.byPath {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ModulesByName returns every named module sorted by declared name.
func (r *Repository) ModulesByName() []*Module {
	out := make([]*Module, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByName looks up a module by its declared fully-qualified name.
func (r *Repository) ByName(name string) (*Module, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// lockPath returns the hkc.lock path for this repository.
func (r *Repository) lockPath() string { return filepath.Join(r.Root, "hkc.lock") }

// Resolve implements the fixed-point transitive-import resolve loop:
// repeatedly scan every currently-known module's imports, materialize
// any remote import not yet on disk (unless Flags.Offline), parse any
// newly-materialized module, and repeat until a pass adds nothing.
// Directories under _hkdeps no resolved module ultimately references are
// then pruned, unless Flags.NoPrune is set.
func (r *Repository) Resolve(ctx context.Context, errs ErrorSink) error {
	if err := os.MkdirAll(r.DepsDir, 0o755); err != nil {
		return err
	}
	r.lck = flock.New(filepath.Join(r.DepsDir, ".hkc.lock.flock"))
	locked, err := r.lck.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("hkrepo: another hkc process is resolving this repository's dependencies")
	}
	defer r.lck.Unlock()

	lock, err := LoadLock(r.lockPath())
	if err != nil {
		return err
	}
	r.lock = lock

	client := hkremote.New(r.DepsDir)
	referenced := map[string]bool{}

	for {
		added := false
		for _, m := range r.ModulesByPath() {
			top := m.Source.Top()
			if top == nil || !top.Enabled() {
				continue
			}
			for _, imp := range top.RepositoryImports() {
				if !imp.Enabled {
					continue
				}
				dir, isNew, err := r.materialize(ctx, client, imp, errs, m.Path)
				if err != nil {
					return err
				}
				referenced[dir] = true
				if isNew {
					r.addModulePathsUnder(dir)
					added = true
				}
			}
		}
		if !added {
			break
		}
		if err := r.ParseAll(ctx, 8, errs); err != nil {
			return err
		}
	}

	if err := r.lock.Save(r.lockPath()); err != nil {
		return err
	}
	if !r.Flags.NoPrune {
		return r.prune(referenced)
	}
	return nil
}

func (r *Repository) materialize(ctx context.Context, client *hkremote.Client, imp hkast.Import, errs ErrorSink, fromPath string) (dir string, isNew bool, err error) {
	var spec hkremote.Spec
	var dirName string
	if imp.GitURL != "" {
		spec = hkremote.Spec{Kind: hkremote.Git, URL: imp.GitURL, Rev: imp.GitRev}
		dirName = hkutil.RemoteDirName("git", imp.GitURL, imp.GitRev)
	} else {
		spec = hkremote.Spec{Kind: hkremote.Zip, Path: imp.ZipPath}
		dirName = hkutil.RemoteDirName("zip", imp.ZipPath, "")
	}
	dest := filepath.Join(r.DepsDir, dirName)

	if _, ok := r.lock.Entries[dirName]; !ok {
		if r.Flags.FrozenLock {
			errs.Add(fromPath, hkerrors.ImportedModuleNotFound, dirName)
			return dest, false, nil
		}
		r.lock.Entries[dirName] = LockEntry{Dir: dirName, Kind: kindName(spec.Kind), URL: imp.GitURL, Rev: imp.GitRev, Path: imp.ZipPath}
	}

	if _, statErr := os.Stat(dest); statErr == nil {
		return dest, false, nil
	}
	if r.Flags.Offline {
		errs.Add(fromPath, hkerrors.CouldNotCloneRepository, dirName+" (offline)")
		return dest, false, nil
	}
	if err := client.Clone(spec, dest); err != nil {
		if remErr, ok := err.(*hkremote.Error); ok {
			errs.Add(fromPath, remErr.Code, remErr.Detail)
			return dest, false, nil
		}
		return dest, false, err
	}
	return dest, true, nil
}

func kindName(k hkremote.Kind) string {
	if k == hkremote.Git {
		return "git"
	}
	return "zip"
}

func (r *Repository) addModulePathsUnder(dir string) {
	_ = godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() && strings.HasSuffix(path, ".hkm") {
				r.addModulePath(path)
			}
			return nil
		},
		Unsorted: true,
	})
}

// prune removes every directory directly under DepsDir that isn't in
// referenced, and drops its lock entry, implementing the mark-and-sweep
// spec.md §4.K describes.
func (r *Repository) prune(referenced map[string]bool) error {
	entries, err := os.ReadDir(r.DepsDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		full := filepath.Join(r.DepsDir, e.Name())
		if referenced[full] {
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return err
		}
		delete(r.lock.Entries, e.Name())
	}
	return r.lock.Save(r.lockPath())
}
