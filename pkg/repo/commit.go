package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/object"
)

// headDescription names the commit target for user-facing output: the
// attached branch, or "detached HEAD".
func (r *Repository) headDescription() string {
	if r.IsHeadDetached() {
		return "detached HEAD"
	}
	return r.HeadBranchName()
}

// Commit writes the staged snapshot as a commit and advances HEAD. During
// a merge the prewritten merge message and both parents are used, and
// MERGE_HEAD/MERGE_MSG are removed on success. The returned string is the
// user-facing report line.
func (r *Repository) Commit(message string) (string, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}
	treeHash, err := r.Store.WriteTree(object.NestedFromTOC(idx.TOC()))
	if err != nil {
		return "", err
	}

	headDesc := r.headDescription()
	headHash := r.RefHash("HEAD")
	if headHash != "" {
		headData, err := r.Store.Read(headHash)
		if err != nil {
			return "", err
		}
		if treeHash == object.TreeHashOf(headData) {
			return "", fmt.Errorf("# On %s\nnothing to commit, working directory clean", headDesc)
		}
	}

	mergeInProgress := r.IsMergeInProgress()
	if conflicted := idx.ConflictedPaths(); mergeInProgress && len(conflicted) > 0 {
		var lines []string
		for _, p := range conflicted {
			lines = append(lines, "U "+p)
		}
		return "", fmt.Errorf("%s\ncannot commit because you have unmerged files", strings.Join(lines, "\n"))
	}

	if mergeInProgress {
		data, err := os.ReadFile(r.metaPath("MERGE_MSG"))
		if err != nil {
			return "", fmt.Errorf("commit: read MERGE_MSG: %w", err)
		}
		message = string(data)
	}

	commitHash, err := r.Store.WriteCommit(treeHash, message, r.CommitParentHashes())
	if err != nil {
		return "", err
	}
	if err := r.UpdateRef("HEAD", string(commitHash)); err != nil {
		return "", err
	}

	if mergeInProgress {
		if err := os.Remove(r.metaPath("MERGE_MSG")); err != nil {
			return "", fmt.Errorf("commit: remove MERGE_MSG: %w", err)
		}
		if err := r.RemoveRef("MERGE_HEAD"); err != nil {
			return "", err
		}
		return "Merge made by the three-way strategy", nil
	}
	return fmt.Sprintf("[%s %s] %s", headDesc, commitHash, message), nil
}
