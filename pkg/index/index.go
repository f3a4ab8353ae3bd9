// Package index implements the staged snapshot: a table keyed by
// (path, stage) holding blob hashes. Stage 0 is a normal entry; stages
// 1/2/3 hold base/receiver/giver during an unresolved merge. A path has
// either one stage-0 entry or a subset of stages 1-3, never both.
package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/object"
)

const (
	StageNormal   = 0
	StageBase     = 1
	StageReceiver = 2
	StageGiver    = 3
)

// Key identifies one index entry.
type Key struct {
	Path  string
	Stage int
}

// Index is the in-memory staged table. Mutations read the whole table,
// edit it, and rewrite it as a whole.
type Index map[Key]object.Hash

// Read loads an index file. A missing or empty file yields an empty index.
func Read(path string) (Index, error) {
	idx := make(Index)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) != 3 {
			return nil, fmt.Errorf("read index: malformed record %q", line)
		}
		stage, err := strconv.Atoi(parts[1])
		if err != nil || stage < StageNormal || stage > StageGiver {
			return nil, fmt.Errorf("read index: bad stage in record %q", line)
		}
		idx[Key{Path: parts[0], Stage: stage}] = object.Hash(parts[2])
	}
	return idx, nil
}

// Write persists the index as one "<path> <stage> <hash>" record per line,
// sorted for stable output. An empty index is a single newline.
func Write(path string, idx Index) error {
	keys := make([]Key, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Stage < keys[j].Stage
	})

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s %d %s\n", k.Path, k.Stage, idx[k])
	}
	if len(keys) == 0 {
		buf.WriteByte('\n')
	}

	// Whole-file rewrite via temp + rename.
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

// TOC projects the stage-0 entries into a flat path -> hash table.
func (idx Index) TOC() object.TOC {
	toc := make(object.TOC)
	for k, h := range idx {
		if k.Stage == StageNormal {
			toc[k.Path] = h
		}
	}
	return toc
}

// FromTOC builds an index of stage-0 entries from a table of contents.
func FromTOC(toc object.TOC) Index {
	idx := make(Index, len(toc))
	for p, h := range toc {
		idx[Key{Path: p, Stage: StageNormal}] = h
	}
	return idx
}

// HasFile reports whether the path is present at the given stage.
func (idx Index) HasFile(path string, stage int) bool {
	_, ok := idx[Key{Path: path, Stage: stage}]
	return ok
}

// IsFileInConflict reports whether the path has a stage-2 (receiver) entry,
// which every conflict written by a merge carries. Stage-1 or stage-3
// entries alone do not count.
func (idx Index) IsFileInConflict(path string) bool {
	return idx.HasFile(path, StageReceiver)
}

// ConflictedPaths lists the paths that have a stage-2 (receiver) entry,
// sorted.
func (idx Index) ConflictedPaths() []string {
	seen := make(map[string]bool)
	for k := range idx {
		if k.Stage == StageReceiver {
			seen[k.Path] = true
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Paths lists every indexed path at any stage, sorted and deduplicated.
func (idx Index) Paths() []string {
	seen := make(map[string]bool)
	for k := range idx {
		seen[k.Path] = true
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RemovePath deletes every stage entry for the path.
func (idx Index) RemovePath(path string) {
	for stage := StageNormal; stage <= StageGiver; stage++ {
		delete(idx, Key{Path: path, Stage: stage})
	}
}
