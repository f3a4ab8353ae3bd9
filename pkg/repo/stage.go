package repo

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/index"
	"github.com/odvcencio/enkelgit/pkg/object"
)

func (r *Repository) indexPath() string {
	return r.metaPath("index")
}

// ReadIndex loads the staged table.
func (r *Repository) ReadIndex() (index.Index, error) {
	return index.Read(r.indexPath())
}

// WriteIndex persists the staged table as a whole.
func (r *Repository) WriteIndex(idx index.Index) error {
	return index.Write(r.indexPath(), idx)
}

// WriteNonConflict stages content for path as a normal entry: the content
// is written to the object store, any existing stage entries for the path
// are dropped, and a stage-0 entry takes their place.
func (r *Repository) WriteNonConflict(path string, content []byte) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	h, err := r.Store.Write(content)
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	idx.RemovePath(path)
	idx[index.Key{Path: path, Stage: index.StageNormal}] = h
	return r.WriteIndex(idx)
}

// WriteConflict stages an unresolved three-way conflict for path: receiver
// at stage 2, giver at stage 3, and the base at stage 1 when present. Any
// stage-0 entry for the path is removed first.
func (r *Repository) WriteConflict(path string, receiver, giver, base []byte) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	delete(idx, index.Key{Path: path, Stage: index.StageNormal})

	if base != nil {
		h, err := r.Store.Write(base)
		if err != nil {
			return fmt.Errorf("stage %s: %w", path, err)
		}
		idx[index.Key{Path: path, Stage: index.StageBase}] = h
	}
	rh, err := r.Store.Write(receiver)
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	idx[index.Key{Path: path, Stage: index.StageReceiver}] = rh
	gh, err := r.Store.Write(giver)
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	idx[index.Key{Path: path, Stage: index.StageGiver}] = gh
	return r.WriteIndex(idx)
}

// WriteRm drops every stage entry for path.
func (r *Repository) WriteRm(path string) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	idx.RemovePath(path)
	return r.WriteIndex(idx)
}

// MatchingFiles returns the indexed paths under the given path spec. The
// spec is resolved against the current directory into a repo-root-relative
// prefix; matching is prefix-based, not glob-based.
func (r *Repository) MatchingFiles(pathSpec string) ([]string, error) {
	prefix, err := r.pathFromRoot(pathSpec)
	if err != nil {
		return nil, err
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, p := range idx.Paths() {
		if strings.HasPrefix(p, prefix) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Add stages every file on disk under pathSpec.
func (r *Repository) Add(pathSpec string) error {
	if r.IsBare() {
		return ErrBare
	}
	rel, err := r.pathFromRoot(pathSpec)
	if err != nil {
		return err
	}
	files, err := r.lsRecursive(rel)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s did not match any files", pathSpec)
	}
	for _, f := range files {
		content, err := os.ReadFile(r.workPath(f))
		if err != nil {
			return fmt.Errorf("add %s: %w", f, err)
		}
		if err := r.WriteNonConflict(f, content); err != nil {
			return err
		}
	}
	return nil
}

// Rm unstages the indexed files under pathSpec and deletes them from the
// working copy. Directories need recursive; files whose working copy
// content differs from HEAD (staged or not) and conflicted files are
// refused; force is deliberately unsupported.
func (r *Repository) Rm(pathSpec string, recursive, force bool) error {
	if r.IsBare() {
		return ErrBare
	}
	if force {
		return fmt.Errorf("unsupported")
	}

	filesToRm, err := r.MatchingFiles(pathSpec)
	if err != nil {
		return err
	}
	if len(filesToRm) == 0 {
		return fmt.Errorf("%s did not match any files", pathSpec)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	for _, f := range filesToRm {
		if idx.IsFileInConflict(f) {
			return fmt.Errorf("unsupported")
		}
	}

	rel, err := r.pathFromRoot(pathSpec)
	if err != nil {
		return err
	}
	if info, err := os.Stat(r.workPath(rel)); err == nil && info.IsDir() && !recursive {
		return fmt.Errorf("not removing %s recursively without -r", pathSpec)
	}

	changed, err := r.AddedOrModifiedFiles()
	if err != nil {
		return err
	}
	changesToRm := intersect(changed, filesToRm)
	if len(changesToRm) > 0 {
		return fmt.Errorf("these files have changes:\n%s\n", strings.Join(changesToRm, "\n"))
	}

	for _, f := range filesToRm {
		if err := os.Remove(r.workPath(f)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rm %s: %w", f, err)
		}
		if err := r.WriteRm(f); err != nil {
			return err
		}
	}
	r.removeEmptyDirs()
	return nil
}

// intersect returns the sorted elements present in both slices.
func intersect(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, s := range a {
		inA[s] = true
	}
	var out []string
	for _, s := range b {
		if inA[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// TOCToIndex converts a table of contents into a staged table of normal
// entries.
func TOCToIndex(toc object.TOC) index.Index {
	return index.FromTOC(toc)
}
