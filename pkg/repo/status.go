package repo

import (
	"sort"

	"github.com/odvcencio/enkelgit/pkg/diff"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// StatusReport is the snapshot the status command renders: the HEAD
// position and each non-empty section as sorted "<status> <path>" or bare
// path lines.
type StatusReport struct {
	Branch    string // attached branch name, "" when detached
	Detached  bool
	Untracked []string
	Unmerged  []string
	ToCommit  []string // "<status> <path>", HEAD vs index
	NotStaged []string // "<status> <path>", index vs working copy
}

// Status assembles the status report.
func (r *Repository) Status() (*StatusReport, error) {
	if r.IsBare() {
		return nil, ErrBare
	}

	report := &StatusReport{
		Branch:   r.HeadBranchName(),
		Detached: r.IsHeadDetached(),
	}

	untracked, err := r.UntrackedFiles()
	if err != nil {
		return nil, err
	}
	report.Untracked = untracked

	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	report.Unmerged = idx.ConflictedPaths()

	headTOC := object.TOC{}
	if headHash := r.RefHash("HEAD"); headHash != "" {
		headTOC, err = r.Store.CommitTOC(headHash)
		if err != nil {
			return nil, err
		}
	}
	report.ToCommit = nameStatusLines(diff.NameStatus(diff.TOCDiff(headTOC, idx.TOC(), nil)))

	wcDiff, err := r.diffFromHashes("", "")
	if err != nil {
		return nil, err
	}
	report.NotStaged = nameStatusLines(diff.NameStatus(wcDiff))

	return report, nil
}

func nameStatusLines(ns map[string]diff.Status) []string {
	paths := make([]string, 0, len(ns))
	for p := range ns {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		lines = append(lines, string(ns[p])+" "+p)
	}
	return lines
}
