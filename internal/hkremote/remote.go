// Package hkremote implements the git/zip remote-import client of
// spec.md §4.L's five named operations — list_refs, clone, checkout,
// fetch, fetch_and_update — cloning or fetching a remote repository into
// a deterministically-named local directory, verifying it against the
// URL/rev the importing module recorded, and guarding every extracted
// path against escaping the working directory. Clone and FetchAndUpdate
// compose Checkout/Fetch rather than duplicating their logic.
//
// Git transport is github.com/Masterminds/vcs, the dependency-resolution
// example pack's own git client (its vcs_repo.go wraps the exact same
// Repo interface this package drives). ListRefs shells out to `git
// ls-remote` directly, grounded on golang-dep's gitSource.doListVersions,
// since vcs.Repo exposes no ref-listing method of its own. Zip extraction
// has no analogous third-party archive-with-path-containment helper in
// the retrieved pack, so it is built on the standard library's
// archive/zip — see DESIGN.md. The final copy-into-place step
// (materializing a verified checkout into its _hkdeps directory) uses
// github.com/termie/go-shutil, a Python shutil.copytree port the pack
// carries for exactly this.
package hkremote

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"

	"github.com/hikoworks/hkc/internal/hkerrors"
)

// Kind discriminates the two remote-import transports spec.md §5 names.
type Kind int

const (
	Git Kind = iota
	Zip
)

// Spec describes one remote import's source: for Git, URL and Rev; for
// Zip, just Path (a local zip archive file; http(s) locations are not
// fetched).
type Spec struct {
	Kind Kind
	URL  string
	Rev  string
	Path string
}

// Client resolves Specs into local directories under workDir, verifying
// every checkout stays inside it.
type Client struct {
	workDir string
}

// New returns a client that extracts/clones everything under workDir.
func New(workDir string) *Client {
	return &Client{workDir: workDir}
}

// Clone fetches spec fresh into destDir (which must not yet exist), then
// checks out spec.Rev: spec.md §4.L's `clone` composed with `checkout`.
func (c *Client) Clone(spec Spec, destDir string) error {
	if err := c.checkContainment(destDir); err != nil {
		return err
	}
	switch spec.Kind {
	case Git:
		if err := c.cloneGit(spec, destDir); err != nil {
			return err
		}
		return c.Checkout(spec, destDir)
	case Zip:
		return c.extractZip(spec, destDir)
	default:
		return errors.New("hkremote: unknown spec kind")
	}
}

// Checkout switches an existing git working copy at destDir to spec.Rev,
// spec.md §4.L's standalone `checkout` operation. A no-op for Zip, whose
// archive carries no separate revision concept.
func (c *Client) Checkout(spec Spec, destDir string) error {
	if spec.Kind != Git || spec.Rev == "" {
		return nil
	}
	repo, err := vcs.NewGitRepo(spec.URL, destDir)
	if err != nil {
		return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
	}
	if err := repo.UpdateVersion(spec.Rev); err != nil {
		return &Error{Code: hkerrors.RevNotFound, Detail: spec.Rev, Cause: err}
	}
	return nil
}

// Fetch updates an existing git working copy at destDir from its remote:
// vcs's Update fetches and, when a branch rather than a detached commit is
// checked out, pulls that branch forward. A destDir with no checkout yet
// is cloned; for Zip the archive is re-extracted. spec.md §4.L's `fetch`.
func (c *Client) Fetch(spec Spec, destDir string) error {
	if err := c.checkContainment(destDir); err != nil {
		return err
	}
	switch spec.Kind {
	case Git:
		return c.fetchGit(spec, destDir)
	case Zip:
		return c.extractZip(spec, destDir)
	}
	return errors.New("hkremote: unknown spec kind")
}

// FetchAndUpdate re-verifies an existing checkout at destDir against
// spec: for git, it confirms the remote URL hasn't drifted, fetches, then
// checks out spec.Rev; for zip, re-extraction is the update. This is
// spec.md §4.L's `fetch_and_update`, composed from `fetch` + `checkout`.
func (c *Client) FetchAndUpdate(spec Spec, destDir string) error {
	if err := c.Fetch(spec, destDir); err != nil {
		return err
	}
	return c.Checkout(spec, destDir)
}

// ListRefs reports every branch and tag url advertises, keyed by ref name
// ("refs/heads/main", "refs/tags/v1.0", ...) to its object id, without
// cloning or checking out anything: spec.md §4.L's `list_refs`. Grounded
// on golang-dep's gitSource.doListVersions, which shells out to `git
// ls-remote` rather than going through vcs.Repo (whose Repo interface has
// no ref-listing method of its own).
func (c *Client) ListRefs(url string) (map[string]string, error) {
	cmd := exec.Command("git", "ls-remote", url)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &Error{Code: hkerrors.CouldNotCloneRepository, Detail: strings.TrimSpace(string(out)), Cause: err}
	}

	refs := make(map[string]string)
	for _, line := range bytes.Split(bytes.TrimSpace(out), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.Fields(line)
		if len(fields) != 2 {
			continue
		}
		refs[string(fields[1])] = string(fields[0])
	}
	return refs, nil
}

func (c *Client) checkContainment(destDir string) error {
	abs, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(c.workDir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &Error{Code: hkerrors.FileOutsideWorkdir, Detail: destDir}
	}
	return nil
}

func (c *Client) cloneGit(spec Spec, destDir string) error {
	repo, err := vcs.NewGitRepo(spec.URL, destDir)
	if err != nil {
		return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
	}
	if err := repo.Get(); err != nil {
		return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
	}
	return nil
}

func (c *Client) fetchGit(spec Spec, destDir string) error {
	repo, err := vcs.NewGitRepo(spec.URL, destDir)
	if err != nil {
		return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
	}
	if repo.CheckLocal() {
		remote, err := remoteURL(repo)
		if err == nil && remote != "" && !sameRemote(remote, spec.URL) {
			return &Error{Code: hkerrors.RemoteURLMismatch, Detail: remote}
		}
		if err := repo.Update(); err != nil {
			return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
		}
	} else {
		if err := repo.Get(); err != nil {
			return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
		}
	}
	return nil
}

func remoteURL(repo vcs.Repo) (string, error) {
	return repo.Remote(), nil
}

func sameRemote(a, b string) bool {
	return strings.TrimSuffix(strings.TrimSuffix(a, "/"), ".git") ==
		strings.TrimSuffix(strings.TrimSuffix(b, "/"), ".git")
}

// extractZip unpacks spec.Path (a local archive) into a staging
// directory then moves it into destDir via go-shutil's copytree, so a
// partially-extracted archive never leaves a half-populated destDir
// behind on failure.
func (c *Client) extractZip(spec Spec, destDir string) error {
	r, err := zip.OpenReader(spec.Path)
	if err != nil {
		return &Error{Code: hkerrors.CouldNotCloneRepository, Detail: err.Error(), Cause: err}
	}
	defer r.Close()

	staging, err := os.MkdirTemp("", "hkc-zip-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	for _, f := range r.File {
		target := filepath.Join(staging, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(staging)+string(filepath.Separator)) {
			return &Error{Code: hkerrors.FileOutsideWorkdir, Detail: f.Name}
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipEntry(f, target); err != nil {
			return err
		}
	}

	if _, err := os.Stat(destDir); err == nil {
		if err := os.RemoveAll(destDir); err != nil {
			return err
		}
	}
	return shutil.CopyTree(staging, destDir, nil)
}

func extractZipEntry(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// Error is the typed error hkremote returns, carrying the hkerrors.Code
// its caller should record against the importing statement's span.
type Error struct {
	Code   hkerrors.Code
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := hkerrors.DefaultMessage(e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }
