package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/enkelgit/pkg/diff"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// diffFromHashes computes the two-way diff between two snapshots. An empty
// h1 selects the index; an empty h2 selects the working copy. With no base
// given, two-way diffs never report conflicts.
func (r *Repository) diffFromHashes(h1, h2 object.Hash) (diff.Diff, error) {
	var versionA object.TOC
	if h1 != "" {
		toc, err := r.Store.CommitTOC(h1)
		if err != nil {
			return nil, err
		}
		versionA = toc
	} else {
		idx, err := r.ReadIndex()
		if err != nil {
			return nil, err
		}
		versionA = idx.TOC()
	}

	var versionB object.TOC
	if h2 != "" {
		toc, err := r.Store.CommitTOC(h2)
		if err != nil {
			return nil, err
		}
		versionB = toc
	} else {
		toc, err := r.WorkingCopyTOC()
		if err != nil {
			return nil, err
		}
		versionB = toc
	}

	return diff.TOCDiff(versionA, versionB, nil), nil
}

// DiffRange diffs two revisions given by name. Either may be empty: the
// first falls back to the index, the second to the working copy. Unknown
// revisions are rejected.
func (r *Repository) DiffRange(ref1, ref2 string) (diff.Diff, error) {
	if r.IsBare() {
		return nil, ErrBare
	}
	var h1, h2 object.Hash
	if ref1 != "" {
		h1 = r.RefHash(ref1)
		if h1 == "" {
			return nil, fmt.Errorf("ambiguous argument %s: unknown revision", ref1)
		}
	}
	if ref2 != "" {
		h2 = r.RefHash(ref2)
		if h2 == "" {
			return nil, fmt.Errorf("ambiguous argument %s: unknown revision", ref2)
		}
	}
	return r.diffFromHashes(h1, h2)
}

// ChangedFilesCommitWouldOverwrite lists the paths changed both between
// HEAD and the working copy and between HEAD and the given commit. Checking
// out or merging that commit would destroy uncommitted work on them.
func (r *Repository) ChangedFilesCommitWouldOverwrite(h object.Hash) ([]string, error) {
	headHash := r.RefHash("HEAD")

	localChanges, err := r.diffFromHashes(headHash, "")
	if err != nil {
		return nil, err
	}
	incomingChanges, err := r.diffFromHashes(headHash, h)
	if err != nil {
		return nil, err
	}

	local := diff.NameStatus(localChanges)
	var out []string
	for p := range diff.NameStatus(incomingChanges) {
		if _, ok := local[p]; ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AddedOrModifiedFiles lists the paths whose working copy content differs
// from HEAD, excluding deletions.
func (r *Repository) AddedOrModifiedFiles() ([]string, error) {
	headTOC := object.TOC{}
	if headHash := r.RefHash("HEAD"); headHash != "" {
		var err error
		headTOC, err = r.Store.CommitTOC(headHash)
		if err != nil {
			return nil, err
		}
	}
	wcTOC, err := r.WorkingCopyTOC()
	if err != nil {
		return nil, err
	}

	ns := diff.NameStatus(diff.TOCDiff(headTOC, wcTOC, nil))
	var out []string
	for p, status := range ns {
		if status != diff.StatusDelete {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}
