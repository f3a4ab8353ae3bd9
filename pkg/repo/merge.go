package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/diff"
	"github.com/odvcencio/enkelgit/pkg/index"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// CommonAncestor picks a shared ancestor of two commits. The two input
// hashes are sorted lexicographically and each prepended to its own
// ancestor list; the result is the first element of the first list also
// present in the second. Sorting makes the pick deterministic among
// equally eligible ancestors.
func (r *Repository) CommonAncestor(a, b object.Hash) object.Hash {
	if a > b {
		a, b = b, a
	}
	aLine := append([]object.Hash{a}, r.Store.Ancestors(a)...)
	bLine := append([]object.Hash{b}, r.Store.Ancestors(b)...)

	inB := make(map[object.Hash]bool, len(bLine))
	for _, h := range bLine {
		inB[h] = true
	}
	for _, h := range aLine {
		if inB[h] {
			return h
		}
	}
	return ""
}

// CanFastForward reports whether moving the receiver to the giver needs no
// merge commit: the receiver is undefined or already an ancestor of the
// giver.
func (r *Repository) CanFastForward(receiver, giver object.Hash) bool {
	return receiver == "" || r.Store.IsAncestor(giver, receiver)
}

// IsAForceFetch reports whether replacing receiver with giver would rewind
// history: the receiver is defined and not an ancestor of the giver.
func (r *Repository) IsAForceFetch(receiver, giver object.Hash) bool {
	return receiver != "" && !r.Store.IsAncestor(giver, receiver)
}

// IsMergeInProgress reports whether a non-fast-forward merge awaits its
// completing commit.
func (r *Repository) IsMergeInProgress() bool {
	return r.RefHash("MERGE_HEAD") != ""
}

// MergeDiff is the three-way diff between receiver and giver with their
// common ancestor as base. It surfaces CONFLICT where both sides changed
// the same path to different contents.
func (r *Repository) MergeDiff(receiver, giver object.Hash) (diff.Diff, error) {
	receiverTOC, err := r.Store.CommitTOC(receiver)
	if err != nil {
		return nil, err
	}
	giverTOC, err := r.Store.CommitTOC(giver)
	if err != nil {
		return nil, err
	}
	baseTOC, err := r.Store.CommitTOC(r.CommonAncestor(receiver, giver))
	if err != nil {
		return nil, err
	}
	return diff.TOCDiff(receiverTOC, giverTOC, baseTOC), nil
}

// HasConflicts reports whether merging giver into receiver would conflict.
func (r *Repository) HasConflicts(receiver, giver object.Hash) (bool, error) {
	d, err := r.MergeDiff(receiver, giver)
	if err != nil {
		return false, err
	}
	return len(diff.ConflictedPaths(d)) > 0, nil
}

// WriteFastForwardMerge moves the current branch to the giver: the branch
// ref is written, the index is replaced with the giver's tree, and (when a
// working copy exists) the diff from receiver to giver is applied to it.
// No commit is created. An empty receiver means the branch had no commits.
func (r *Repository) WriteFastForwardMerge(receiver, giver object.Hash) error {
	if err := r.WriteRef(ToLocalRef(r.HeadBranchName()), string(giver)); err != nil {
		return err
	}

	giverTOC, err := r.Store.CommitTOC(giver)
	if err != nil {
		return err
	}
	if err := r.WriteIndex(index.FromTOC(giverTOC)); err != nil {
		return err
	}

	if !r.IsBare() {
		receiverTOC := object.TOC{}
		if receiver != "" {
			receiverTOC, err = r.Store.CommitTOC(receiver)
			if err != nil {
				return err
			}
		}
		return r.ApplyDiff(diff.TOCDiff(receiverTOC, giverTOC, nil))
	}
	return nil
}

// WriteNonFastForwardMerge begins a merge that needs a commit: MERGE_HEAD
// and MERGE_MSG are written, the index is rebuilt from the merge diff with
// conflict stages where both sides changed a path, and (when a working copy
// exists) the merge diff is applied to the working copy. The merge is
// completed by a later commit.
func (r *Repository) WriteNonFastForwardMerge(receiver, giver object.Hash, giverRef string) error {
	if err := r.WriteRef("MERGE_HEAD", string(giver)); err != nil {
		return err
	}

	d, err := r.MergeDiff(receiver, giver)
	if err != nil {
		return err
	}
	if err := r.writeMergeMsg(d, giverRef); err != nil {
		return err
	}
	if err := r.writeMergeIndex(d); err != nil {
		return err
	}

	if !r.IsBare() {
		return r.ApplyDiff(d)
	}
	return nil
}

// writeMergeMsg composes the prewritten message for the merge commit,
// appending a conflicts section when the merge diff has conflicts.
func (r *Repository) writeMergeMsg(d diff.Diff, giverRef string) error {
	msg := "Merge " + giverRef + " into " + r.HeadBranchName()
	if conflicted := diff.ConflictedPaths(d); len(conflicted) > 0 {
		msg += "\nConflicts:\n" + strings.Join(conflicted, "\n")
	}
	if err := os.WriteFile(r.metaPath("MERGE_MSG"), []byte(msg), 0o644); err != nil {
		return fmt.Errorf("write merge msg: %w", err)
	}
	return nil
}

// writeMergeIndex clears the index and refills it from the merge diff:
// conflicts as stages 1/2/3, everything the merged tree keeps as stage 0,
// deletions omitted.
func (r *Repository) writeMergeIndex(d diff.Diff) error {
	if err := r.WriteIndex(index.Index{}); err != nil {
		return err
	}
	for p, fd := range d {
		switch fd.Status {
		case diff.StatusConflict:
			receiver, err := r.Store.Read(fd.Receiver)
			if err != nil {
				return err
			}
			giver, err := r.Store.Read(fd.Giver)
			if err != nil {
				return err
			}
			var base []byte
			if fd.Base != "" {
				base, err = r.Store.Read(fd.Base)
				if err != nil {
					return err
				}
			}
			if err := r.WriteConflict(p, receiver, giver, base); err != nil {
				return err
			}
		case diff.StatusModify:
			content, err := r.Store.Read(fd.Giver)
			if err != nil {
				return err
			}
			if err := r.WriteNonConflict(p, content); err != nil {
				return err
			}
		case diff.StatusAdd, diff.StatusSame:
			h := fd.Receiver
			if h == "" {
				h = fd.Giver
			}
			if h == "" {
				// Absent on both sides (deleted against the base).
				continue
			}
			content, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if err := r.WriteNonConflict(p, content); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merge merges the given ref into HEAD. It returns the user-facing outcome
// line: already up to date, fast-forward, a conflict notice, or the
// completing commit's report when a clean non-fast-forward merge
// auto-commits.
func (r *Repository) Merge(ref string) (string, error) {
	if r.IsBare() {
		return "", ErrBare
	}
	receiverHash := r.RefHash("HEAD")
	giverHash := r.RefHash(ref)

	if r.IsHeadDetached() {
		return "", fmt.Errorf("unsupported")
	}
	giverData, err := r.Store.Read(giverHash)
	if err != nil {
		return "", err
	}
	if giverHash == "" || object.KindOf(giverData) != object.KindCommit {
		return "", fmt.Errorf("%s: expected commit type", ref)
	}
	if r.Store.IsUpToDate(receiverHash, giverHash) {
		return "Already up-to-date", nil
	}

	paths, err := r.ChangedFilesCommitWouldOverwrite(giverHash)
	if err != nil {
		return "", err
	}
	if len(paths) > 0 {
		return "", fmt.Errorf("local changes would be lost\n%s\n", strings.Join(paths, "\n"))
	}

	if r.CanFastForward(receiverHash, giverHash) {
		if err := r.WriteFastForwardMerge(receiverHash, giverHash); err != nil {
			return "", err
		}
		return "Fast-forward", nil
	}

	if err := r.WriteNonFastForwardMerge(receiverHash, giverHash, ref); err != nil {
		return "", err
	}
	hasConflicts, err := r.HasConflicts(receiverHash, giverHash)
	if err != nil {
		return "", err
	}
	if hasConflicts {
		return "Automatic merge failed. Fix conflicts and commit the result.", nil
	}
	return r.Commit("")
}
