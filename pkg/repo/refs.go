package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/object"
)

// Branch names are deliberately restricted: letters and dashes only.
var branchNameRE = regexp.MustCompile(`^[A-Za-z-]+$`)

var (
	localRefRE  = regexp.MustCompile(`^refs/heads/[A-Za-z-]+$`)
	remoteRefRE = regexp.MustCompile(`^refs/remotes/[A-Za-z-]+/[A-Za-z-]+$`)
)

// IsBranchName reports whether name is a syntactically valid branch name.
func IsBranchName(name string) bool {
	return branchNameRE.MatchString(name)
}

// IsRef reports whether s is a qualified ref: a local branch ref, a
// remote-tracking ref, or one of the top-level refs.
func IsRef(s string) bool {
	switch s {
	case "HEAD", "FETCH_HEAD", "MERGE_HEAD":
		return true
	}
	return localRefRE.MatchString(s) || remoteRefRE.MatchString(s)
}

// ToLocalRef qualifies a branch name as a local branch ref.
func ToLocalRef(name string) string {
	return "refs/heads/" + name
}

// ToRemoteRef qualifies a branch name as a remote-tracking ref.
func ToRemoteRef(remote, name string) string {
	return "refs/remotes/" + remote + "/" + name
}

// TerminalRef resolves a ref one symbolic hop. Attached HEAD resolves to
// the branch it points at; any qualified ref is returned as-is; a bare name
// is assumed to be a local branch. HEAD is the only symbolic ref, so there
// is no multi-hop chasing.
func (r *Repository) TerminalRef(ref string) string {
	if ref == "HEAD" && !r.IsHeadDetached() {
		content, err := os.ReadFile(r.metaPath("HEAD"))
		if err == nil {
			target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(content)), "ref:"))
			if strings.HasPrefix(target, "refs/heads/") {
				return target
			}
		}
		return ref
	}
	if IsRef(ref) {
		return ref
	}
	return ToLocalRef(ref)
}

// RefHash resolves a ref name or raw hash to a commit hash. Resolution
// order: an existing object hash wins; FETCH_HEAD resolves through its
// recorded branch line; otherwise the terminal ref file is read. The empty
// hash means not found.
func (r *Repository) RefHash(refOrHash string) object.Hash {
	if r.Store.Exists(object.Hash(refOrHash)) {
		return object.Hash(refOrHash)
	}
	terminal := r.TerminalRef(refOrHash)
	if terminal == "FETCH_HEAD" {
		return r.fetchHeadBranchToMerge(r.HeadBranchName())
	}
	if r.RefExists(terminal) {
		content, err := os.ReadFile(r.metaPath(filepath.FromSlash(terminal)))
		if err != nil {
			return ""
		}
		return object.Hash(strings.TrimSpace(string(content)))
	}
	return ""
}

// RefExists reports whether the qualified ref has a ref file.
func (r *Repository) RefExists(ref string) bool {
	if !IsRef(ref) {
		return false
	}
	info, err := os.Stat(r.metaPath(filepath.FromSlash(ref)))
	return err == nil && !info.IsDir()
}

// WriteRef writes raw content to the named ref file. Parent directories are
// created as needed. Content that does not end in a newline gets one.
func (r *Repository) WriteRef(ref, content string) error {
	if !IsRef(ref) {
		return fmt.Errorf("cannot lock the ref %s", ref)
	}
	path := r.metaPath(filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write ref %s: mkdir: %w", ref, err)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write ref %s: %w", ref, err)
	}
	return nil
}

// RemoveRef deletes the named ref file. Removing an absent ref is a no-op.
func (r *Repository) RemoveRef(ref string) error {
	err := os.Remove(r.metaPath(filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove ref %s: %w", ref, err)
	}
	return nil
}

// IsHeadDetached reports whether HEAD holds a raw hash rather than a
// symbolic branch pointer.
func (r *Repository) IsHeadDetached() bool {
	content, err := os.ReadFile(r.metaPath("HEAD"))
	if err != nil {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(string(content)), "ref:")
}

// HeadBranchName returns the branch HEAD is attached to, or "" when
// detached.
func (r *Repository) HeadBranchName() string {
	if r.IsHeadDetached() {
		return ""
	}
	return strings.TrimPrefix(r.TerminalRef("HEAD"), "refs/heads/")
}

// LocalHeads maps each local branch name to its hash.
func (r *Repository) LocalHeads() (map[string]object.Hash, error) {
	heads := make(map[string]object.Hash)
	dir := r.metaPath("refs", "heads")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return heads, nil
	}
	if err != nil {
		return nil, fmt.Errorf("local heads: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("local heads: %w", err)
		}
		heads[e.Name()] = object.Hash(strings.TrimSpace(string(content)))
	}
	return heads, nil
}

// BranchNames lists local branch names, sorted.
func (r *Repository) BranchNames() ([]string, error) {
	heads, err := r.LocalHeads()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(heads))
	for name := range heads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsCheckedOut reports whether the branch is the one HEAD is attached to.
// Nothing is ever checked out in a bare repository.
func (r *Repository) IsCheckedOut(branch string) bool {
	return !r.IsBare() && r.HeadBranchName() == branch
}

// CommitParentHashes determines the parents of the next commit: none for
// the initial commit, HEAD plus MERGE_HEAD during a merge, HEAD otherwise.
func (r *Repository) CommitParentHashes() []object.Hash {
	headHash := r.RefHash("HEAD")
	if r.IsMergeInProgress() {
		return []object.Hash{headHash, r.RefHash("MERGE_HEAD")}
	}
	if headHash == "" {
		return nil
	}
	return []object.Hash{headHash}
}

// fetchHeadBranchToMerge parses FETCH_HEAD and returns the hash recorded
// for the given branch, or "" when absent.
func (r *Repository) fetchHeadBranchToMerge(branch string) object.Hash {
	data, err := os.ReadFile(r.metaPath("FETCH_HEAD"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 4 && fields[1] == "branch" && fields[2] == branch && fields[3] == "of" {
			return object.Hash(fields[0])
		}
	}
	return ""
}

// UpdateRef points refToUpdate at the commit refToUpdateTo resolves to.
// Every object referenced by a ref write is already durable in the object
// store by the time the ref file changes.
func (r *Repository) UpdateRef(refToUpdate, refToUpdateTo string) error {
	hash := r.RefHash(refToUpdateTo)
	if hash == "" {
		return fmt.Errorf("ambiguous argument %s: unknown revision", refToUpdateTo)
	}
	if !IsRef(refToUpdate) {
		return fmt.Errorf("cannot lock the ref %s", refToUpdate)
	}
	data, err := r.Store.Read(hash)
	if err != nil {
		return err
	}
	if object.KindOf(data) != object.KindCommit {
		return fmt.Errorf("%s cannot refer to non-commit object %s", r.TerminalRef(refToUpdate), hash)
	}
	return r.WriteRef(r.TerminalRef(refToUpdate), string(hash))
}
