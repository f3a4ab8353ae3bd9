package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/enkelgit/pkg/diff"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// WorkingCopyTOC reports the current on-disk hash of every indexed path
// still present in the working copy. Untracked files are intentionally not
// listed.
func (r *Repository) WorkingCopyTOC() (object.TOC, error) {
	if r.WorkDir == "" {
		return object.TOC{}, nil
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	toc := make(object.TOC)
	for _, p := range idx.Paths() {
		content, err := os.ReadFile(r.workPath(p))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("working copy toc: %w", err)
		}
		toc[p] = object.HashBytes(content)
	}
	return toc, nil
}

// lsRecursive lists the repo-relative paths of all files under the given
// repo-relative directory (or the single file itself), excluding the
// repository metadata directory. A missing path yields no files.
func (r *Repository) lsRecursive(rel string) ([]string, error) {
	root := r.workPath(rel)
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if !info.IsDir() {
		return []string{rel}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == MetaDirName {
				return filepath.SkipDir
			}
			return nil
		}
		relPath, err := filepath.Rel(r.WorkDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// UntrackedFiles lists the top-level working copy entries that the index
// does not track.
func (r *Repository) UntrackedFiles() ([]string, error) {
	if r.WorkDir == "" {
		return nil, nil
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	toc := idx.TOC()

	entries, err := os.ReadDir(r.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("untracked: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if name == MetaDirName {
			continue
		}
		if _, tracked := toc[name]; !tracked {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ApplyDiff materializes a diff in the working copy: adds write the
// receiver (or giver) blob, modifies overwrite with the giver, deletes
// unlink, and conflicts write a conflict-marker artifact holding both
// sides. Empty directories left behind are removed afterwards.
func (r *Repository) ApplyDiff(d diff.Diff) error {
	if r.WorkDir == "" {
		return ErrBare
	}
	for p, fd := range d {
		switch fd.Status {
		case diff.StatusAdd:
			h := fd.Receiver
			if h == "" {
				h = fd.Giver
			}
			if err := r.writeBlobToWorkingCopy(p, h); err != nil {
				return err
			}
		case diff.StatusModify:
			if err := r.writeBlobToWorkingCopy(p, fd.Giver); err != nil {
				return err
			}
		case diff.StatusDelete:
			if err := os.Remove(r.workPath(p)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("apply diff: remove %s: %w", p, err)
			}
		case diff.StatusConflict:
			receiver, err := r.Store.Read(fd.Receiver)
			if err != nil {
				return err
			}
			giver, err := r.Store.Read(fd.Giver)
			if err != nil {
				return err
			}
			if err := r.writeWorkingCopyFile(p, composeConflict(receiver, giver)); err != nil {
				return err
			}
		}
	}
	r.removeEmptyDirs()
	return nil
}

func (r *Repository) writeBlobToWorkingCopy(p string, h object.Hash) error {
	content, err := r.Store.Read(h)
	if err != nil {
		return err
	}
	return r.writeWorkingCopyFile(p, content)
}

func (r *Repository) writeWorkingCopyFile(p string, content []byte) error {
	abs := r.workPath(p)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("apply diff: mkdir for %s: %w", p, err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("apply diff: write %s: %w", p, err)
	}
	return nil
}

// composeConflict renders the whole-file conflict artifact around the
// receiver and giver contents.
func composeConflict(receiver, giver []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<\n")
	buf.Write(receiver)
	buf.WriteString("\n======\n")
	buf.Write(giver)
	buf.WriteString("\n>>>>>>\n")
	return buf.Bytes()
}

// removeEmptyDirs removes empty directories inside the working copy,
// excluding the repository metadata directory.
func (r *Repository) removeEmptyDirs() {
	entries, err := os.ReadDir(r.WorkDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == MetaDirName {
			continue
		}
		removeDirIfEmpty(filepath.Join(r.WorkDir, e.Name()))
	}
}

// removeDirIfEmpty prunes a directory tree bottom-up, removing every
// directory that ends up empty.
func removeDirIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	empty := true
	for _, e := range entries {
		if e.IsDir() {
			if !removeDirIfEmpty(filepath.Join(dir, e.Name())) {
				empty = false
			}
			continue
		}
		empty = false
	}
	if !empty {
		return false
	}
	return os.Remove(dir) == nil
}
