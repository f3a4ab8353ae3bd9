package repo

import (
	"reflect"
	"strings"
	"testing"

	"github.com/odvcencio/enkelgit/pkg/diff"
)

// Two commits where a is modified, b deleted, and c added between them.
func TestDiffRangeBetweenCommits(t *testing.T) {
	r := initTestRepo(t)
	writeWorkFile(t, r, "a", "X")
	writeWorkFile(t, r, "b", "Y")
	if err := r.Add("."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("one"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c1 := r.RefHash("HEAD")

	writeWorkFile(t, r, "a", "X2")
	writeWorkFile(t, r, "c", "Z")
	if err := r.Add("."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Rm("b", false, false); err != nil {
		t.Fatalf("Rm: %v", err)
	}
	if _, err := r.Commit("two"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c2 := r.RefHash("HEAD")

	d, err := r.DiffRange(string(c1), string(c2))
	if err != nil {
		t.Fatalf("DiffRange: %v", err)
	}
	want := map[string]diff.Status{
		"a": diff.StatusModify,
		"b": diff.StatusDelete,
		"c": diff.StatusAdd,
	}
	if got := diff.NameStatus(d); !reflect.DeepEqual(got, want) {
		t.Errorf("NameStatus = %v, want %v", got, want)
	}
}

func TestDiffRangeUnknownRevision(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "hi", "first")

	_, err := r.DiffRange("ghost", "")
	if err == nil || !strings.Contains(err.Error(), "unknown revision") {
		t.Errorf("diff of unknown ref: err = %v", err)
	}
}

func TestDiffDefaultsIndexAgainstWorkingCopy(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "hi", "first")
	writeWorkFile(t, r, "a", "edited")

	d, err := r.DiffRange("", "")
	if err != nil {
		t.Fatalf("DiffRange: %v", err)
	}
	if got := diff.NameStatus(d); !reflect.DeepEqual(got, map[string]diff.Status{"a": diff.StatusModify}) {
		t.Errorf("NameStatus = %v", got)
	}
}

func TestChangedFilesCommitWouldOverwrite(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "one", "first")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	stageAndCommit(t, r, "a", "two", "second")
	featureHash := r.RefHash("feature")

	// Clean working copy: nothing would be overwritten.
	paths, err := r.ChangedFilesCommitWouldOverwrite(featureHash)
	if err != nil {
		t.Fatalf("ChangedFilesCommitWouldOverwrite: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("clean working copy: paths = %v", paths)
	}

	// A dirty file that also differs against the target is flagged.
	writeWorkFile(t, r, "a", "dirty")
	paths, err = r.ChangedFilesCommitWouldOverwrite(featureHash)
	if err != nil {
		t.Fatalf("ChangedFilesCommitWouldOverwrite: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"a"}) {
		t.Errorf("paths = %v, want [a]", paths)
	}
}

func TestAddedOrModifiedFiles(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "one", "first")
	stageAndCommit(t, r, "gone", "g", "second")

	writeWorkFile(t, r, "a", "edited")
	if err := r.Rm("gone", false, false); err != nil {
		t.Fatalf("Rm: %v", err)
	}

	got, err := r.AddedOrModifiedFiles()
	if err != nil {
		t.Fatalf("AddedOrModifiedFiles: %v", err)
	}
	// The deletion is excluded; the edit is reported.
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("AddedOrModifiedFiles = %v, want [a]", got)
	}
}
