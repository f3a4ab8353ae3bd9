package repo

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/odvcencio/enkelgit/pkg/index"
	"github.com/odvcencio/enkelgit/pkg/object"
)

// setupDivergedRepo builds a repository where master and feature both
// modified "a" from its shared base: master holds "y", feature holds "z".
// The repository is left on master.
func setupDivergedRepo(t *testing.T) *Repository {
	t.Helper()
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "x", "base")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	stageAndCommit(t, r, "a", "y", "ours")
	if _, err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	stageAndCommit(t, r, "a", "z", "theirs")
	if _, err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}
	return r
}

func TestCommonAncestor(t *testing.T) {
	r := setupDivergedRepo(t)
	masterHash := r.RefHash("master")
	featureHash := r.RefHash("feature")

	base := r.CommonAncestor(masterHash, featureHash)
	if base == "" {
		t.Fatal("no common ancestor found")
	}
	// Deterministic regardless of argument order.
	if got := r.CommonAncestor(featureHash, masterHash); got != base {
		t.Errorf("ancestor depends on argument order: %s vs %s", got, base)
	}
	// The base is the shared root commit.
	if !r.Store.IsAncestor(masterHash, base) || !r.Store.IsAncestor(featureHash, base) {
		t.Errorf("common ancestor %s is not shared", base)
	}
}

func TestMergeAlreadyUpToDate(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "x", "base")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	stageAndCommit(t, r, "a", "y", "more")

	out, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Already up-to-date" {
		t.Errorf("merge report = %q", out)
	}
}

func TestMergeFastForward(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "hi", "first")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if _, err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	stageAndCommit(t, r, "a", "hi2", "two")
	c2 := r.RefHash("HEAD")

	if _, err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}
	out, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Fast-forward" {
		t.Errorf("merge report = %q", out)
	}

	if got := r.RefHash("master"); got != c2 {
		t.Errorf("master = %s, want %s", got, c2)
	}
	// Fast-forward correctness: index and working copy match the giver tree.
	giverTOC, err := r.Store.CommitTOC(c2)
	if err != nil {
		t.Fatalf("CommitTOC: %v", err)
	}
	idx, _ := r.ReadIndex()
	if !reflect.DeepEqual(idx.TOC(), giverTOC) {
		t.Errorf("index TOC = %v, want %v", idx.TOC(), giverTOC)
	}
	wcTOC, err := r.WorkingCopyTOC()
	if err != nil {
		t.Fatalf("WorkingCopyTOC: %v", err)
	}
	if !reflect.DeepEqual(wcTOC, giverTOC) {
		t.Errorf("working copy TOC = %v, want %v", wcTOC, giverTOC)
	}
	// No merge commit was created.
	if r.IsMergeInProgress() {
		t.Error("fast-forward left MERGE_HEAD behind")
	}
}

func TestMergeConflictLifecycle(t *testing.T) {
	r := setupDivergedRepo(t)
	masterHash := r.RefHash("master")
	featureHash := r.RefHash("feature")

	out, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Automatic merge failed. Fix conflicts and commit the result." {
		t.Errorf("merge report = %q", out)
	}

	// MERGE_HEAD marks the merge in progress.
	if !r.IsMergeInProgress() {
		t.Fatal("MERGE_HEAD missing after conflicted merge")
	}
	if got := r.RefHash("MERGE_HEAD"); got != featureHash {
		t.Errorf("MERGE_HEAD = %s, want %s", got, featureHash)
	}

	// The index holds all three conflict stages and no stage-0 entry.
	idx, _ := r.ReadIndex()
	if idx.HasFile("a", index.StageNormal) {
		t.Error("conflicted path kept a stage-0 entry")
	}
	for stage, content := range map[int]string{
		index.StageBase:     "x",
		index.StageReceiver: "y",
		index.StageGiver:    "z",
	} {
		if got := idx[index.Key{Path: "a", Stage: stage}]; got != object.HashBytes([]byte(content)) {
			t.Errorf("stage %d = %q, want hash of %q", stage, got, content)
		}
	}

	// The working copy holds the conflict artifact.
	artifact := readWorkFile(t, r, "a")
	if artifact != "<<<<<<\ny\n======\nz\n>>>>>>\n" {
		t.Errorf("conflict artifact = %q", artifact)
	}

	// Status reports the path as unmerged.
	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !reflect.DeepEqual(report.Unmerged, []string{"a"}) {
		t.Errorf("unmerged = %v", report.Unmerged)
	}

	// Committing with unresolved conflicts is refused.
	if _, err := r.Commit("done"); err == nil || !strings.Contains(err.Error(), "unmerged files") {
		t.Errorf("commit with conflicts: err = %v", err)
	}

	// Resolve, stage, and complete the merge.
	writeWorkFile(t, r, "a", "resolved")
	if err := r.Add("a"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out, err = r.Commit("")
	if err != nil {
		t.Fatalf("completing commit: %v", err)
	}
	if out != "Merge made by the three-way strategy" {
		t.Errorf("completing commit report = %q", out)
	}

	// The merge commit has both parents; merge state is gone.
	mergeHash := r.RefHash("HEAD")
	data, err := r.Store.Read(mergeHash)
	if err != nil {
		t.Fatalf("read merge commit: %v", err)
	}
	commit, err := object.UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if want := []object.Hash{masterHash, featureHash}; !reflect.DeepEqual(commit.Parents, want) {
		t.Errorf("merge parents = %v, want %v", commit.Parents, want)
	}
	if !strings.HasPrefix(commit.Message, "Merge feature into master") {
		t.Errorf("merge message = %q", commit.Message)
	}
	if !strings.Contains(commit.Message, "Conflicts:\na") {
		t.Errorf("merge message missing conflicts section: %q", commit.Message)
	}
	if r.IsMergeInProgress() {
		t.Error("MERGE_HEAD survived the completing commit")
	}
	if _, err := os.Stat(r.metaPath("MERGE_MSG")); !os.IsNotExist(err) {
		t.Error("MERGE_MSG survived the completing commit")
	}
	idx, _ = r.ReadIndex()
	if len(idx.ConflictedPaths()) != 0 {
		t.Errorf("conflict stages survived the completing commit: %v", idx)
	}
}

func TestMergeRefusesOverwritingLocalChanges(t *testing.T) {
	r := setupDivergedRepo(t)
	writeWorkFile(t, r, "a", "dirty")

	_, err := r.Merge("feature")
	if err == nil || !strings.Contains(err.Error(), "local changes would be lost") {
		t.Fatalf("merge over dirty file: err = %v", err)
	}
	// Repository unchanged.
	if r.IsMergeInProgress() {
		t.Error("refused merge wrote MERGE_HEAD")
	}
	if got := readWorkFile(t, r, "a"); got != "dirty" {
		t.Errorf("a = %q after refused merge", got)
	}
}

func TestMergeDetachedHeadUnsupported(t *testing.T) {
	r := setupDivergedRepo(t)
	if _, err := r.Checkout(string(r.RefHash("master"))); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if _, err := r.Merge("feature"); err == nil {
		t.Error("expected merge into detached HEAD to be unsupported")
	}
}

func TestMergeUnknownRef(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "x", "base")
	_, err := r.Merge("ghost")
	if err == nil || !strings.Contains(err.Error(), "expected commit type") {
		t.Errorf("merge of unknown ref: err = %v", err)
	}
}

func TestMergeCleanNonFastForwardAutoCommits(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "x", "base")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	// Divergent but touching different files.
	stageAndCommit(t, r, "b", "ours", "ours")
	if _, err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	stageAndCommit(t, r, "c", "theirs", "theirs")
	if _, err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}

	out, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Merge made by the three-way strategy" {
		t.Errorf("merge report = %q", out)
	}

	// Both sides' files are present and a two-parent commit exists.
	if got := readWorkFile(t, r, "b"); got != "ours" {
		t.Errorf("b = %q", got)
	}
	if got := readWorkFile(t, r, "c"); got != "theirs" {
		t.Errorf("c = %q", got)
	}
	data, _ := r.Store.Read(r.RefHash("HEAD"))
	commit, err := object.UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if len(commit.Parents) != 2 {
		t.Errorf("merge commit parents = %v", commit.Parents)
	}
	if r.IsMergeInProgress() {
		t.Error("MERGE_HEAD survived the auto-committed merge")
	}
}
