// Package repo implements the repository value: layout discovery, config,
// refs, the staged index, the working copy, and the command-level
// operations composed from them.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/object"
)

// MetaDirName is the repository metadata directory inside a working copy.
const MetaDirName = ".enkelgit"

// DefaultBranch is the branch HEAD points at in a fresh repository unless
// the caller overrides it.
const DefaultBranch = "master"

var (
	// ErrNotARepository reports that discovery found no repository.
	ErrNotARepository = errors.New("not an enkelgit repository")
	// ErrBare reports a working-copy operation attempted in a bare repository.
	ErrBare = errors.New("this operation must be run in a work tree")
)

// Repository is an opened enkelgit repository. A bare repository has no
// working copy: WorkDir is empty and MetaDir is the repository root itself.
type Repository struct {
	WorkDir string // working copy root, empty when bare
	MetaDir string // metadata directory (WorkDir/.enkelgit, or the root when bare)
	Store   *object.Store
}

// Init creates a new repository at path and returns it opened. With bare
// set, the metadata sits at path directly and no working copy exists.
// Returns an error when path is already inside a repository.
func Init(path string, bare bool, defaultBranch string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	if _, err := discover(abs); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", abs)
	}
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}

	metaDir := filepath.Join(abs, MetaDirName)
	if bare {
		metaDir = abs
	}
	for _, d := range []string{
		filepath.Join(metaDir, "objects"),
		filepath.Join(metaDir, "refs", "heads"),
		filepath.Join(metaDir, "refs", "remotes"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	head := "ref: refs/heads/" + defaultBranch + "\n"
	if err := os.WriteFile(filepath.Join(metaDir, "HEAD"), []byte(head), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}
	if err := writeConfigFile(filepath.Join(metaDir, "config"), &Config{Bare: bare, Remotes: map[string]string{}}); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r := &Repository{MetaDir: metaDir, Store: object.NewStore(metaDir)}
	if !bare {
		r.WorkDir = abs
	}
	return r, nil
}

// Open searches upward from path for a repository and opens it. A directory
// containing a .enkelgit/ subdirectory is a working copy; a directory whose
// config file declares [core] and which holds an objects/ directory is a
// bare repository root.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	metaDir, err := discover(abs)
	if err != nil {
		return nil, err
	}

	r := &Repository{MetaDir: metaDir, Store: object.NewStore(metaDir)}
	if filepath.Base(metaDir) == MetaDirName {
		r.WorkDir = filepath.Dir(metaDir)
	}
	return r, nil
}

// discover walks upward from abs looking for the repository metadata
// directory.
func discover(abs string) (string, error) {
	cur := abs
	for {
		candidate := filepath.Join(cur, MetaDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		if looksBare(cur) {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", ErrNotARepository
		}
		cur = parent
	}
}

// looksBare reports whether dir is itself a repository metadata directory:
// it has a config file declaring [core] and an object store.
func looksBare(dir string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "config"))
	if err != nil || !strings.Contains(string(data), "[core]") {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, "objects"))
	return err == nil && info.IsDir()
}

// metaPath returns the path of a file under the metadata directory. parts
// use forward slashes.
func (r *Repository) metaPath(parts ...string) string {
	elems := append([]string{r.MetaDir}, parts...)
	return filepath.Join(elems...)
}

// workPath returns the absolute path of a repo-relative working copy file.
func (r *Repository) workPath(rel string) string {
	return filepath.Join(r.WorkDir, filepath.FromSlash(rel))
}

// pathFromRoot resolves a path given on the command line (absolute, or
// relative to the current directory) into a repo-root-relative slash path.
// A relative path that does not land inside the repository via the current
// directory is assumed to already be repo-root-relative. "." resolves to
// the empty prefix.
func (r *Repository) pathFromRoot(p string) (string, error) {
	if r.WorkDir == "" {
		return "", ErrBare
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.WorkDir, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("path %q is outside the repository", p)
		}
		return rootRel(rel), nil
	}

	if abs, err := filepath.Abs(p); err == nil {
		if rel, err := filepath.Rel(r.WorkDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return rootRel(rel), nil
		}
	}
	return rootRel(p), nil
}

func rootRel(p string) string {
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == "." {
		return ""
	}
	return clean
}
