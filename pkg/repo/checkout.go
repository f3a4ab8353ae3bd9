package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/index"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// Checkout switches the working copy, index, and HEAD to the given ref. A
// branch name attaches HEAD; a raw commit hash detaches it. The returned
// string is the user-facing report line.
func (r *Repository) Checkout(ref string) (string, error) {
	if r.IsBare() {
		return "", ErrBare
	}

	toHash := r.RefHash(ref)
	if toHash == "" || !r.Store.Exists(toHash) {
		return "", fmt.Errorf("%s did not match any file(s) known to enkelgit", ref)
	}
	data, err := r.Store.Read(toHash)
	if err != nil {
		return "", err
	}
	if object.KindOf(data) != object.KindCommit {
		return "", fmt.Errorf("reference is not a tree: %s", ref)
	}

	if ref == r.HeadBranchName() || (r.IsHeadDetached() && object.Hash(ref) == r.RefHash("HEAD")) {
		return "Already on " + ref, nil
	}

	paths, err := r.ChangedFilesCommitWouldOverwrite(toHash)
	if err != nil {
		return "", err
	}
	if len(paths) > 0 {
		return "", fmt.Errorf("local changes would be lost\n%s\n", strings.Join(paths, "\n"))
	}

	// Checking out a raw commit hash detaches HEAD; a branch name attaches.
	isDetaching := r.Store.Exists(object.Hash(ref))

	d, err := r.diffFromHashes(r.RefHash("HEAD"), toHash)
	if err != nil {
		return "", err
	}
	if err := r.ApplyDiff(d); err != nil {
		return "", err
	}

	headContent := "ref: " + ToLocalRef(ref)
	if isDetaching {
		headContent = string(toHash)
	}
	if err := r.WriteRef("HEAD", headContent); err != nil {
		return "", err
	}

	toc, err := r.Store.CommitTOC(toHash)
	if err != nil {
		return "", err
	}
	if err := r.WriteIndex(index.FromTOC(toc)); err != nil {
		return "", err
	}

	if isDetaching {
		return fmt.Sprintf("Note: checking out %s\nYou are in detached HEAD state.", toHash), nil
	}
	return "Switched to branch " + ref, nil
}
