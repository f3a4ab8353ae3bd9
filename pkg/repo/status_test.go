package repo

import (
	"reflect"
	"testing"
)

func TestStatusSections(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "committed.txt", "c", "first")

	// Staged but not committed.
	writeWorkFile(t, r, "staged.txt", "s")
	if err := r.Add("staged.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Tracked with an unstaged edit.
	writeWorkFile(t, r, "committed.txt", "edited")
	// Untracked.
	writeWorkFile(t, r, "loose.txt", "l")

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if report.Detached || report.Branch != "master" {
		t.Errorf("head = %q detached=%t", report.Branch, report.Detached)
	}
	if !reflect.DeepEqual(report.Untracked, []string{"loose.txt"}) {
		t.Errorf("untracked = %v", report.Untracked)
	}
	if len(report.Unmerged) != 0 {
		t.Errorf("unmerged = %v", report.Unmerged)
	}
	if !reflect.DeepEqual(report.ToCommit, []string{"A staged.txt"}) {
		t.Errorf("to commit = %v", report.ToCommit)
	}
	if !reflect.DeepEqual(report.NotStaged, []string{"M committed.txt"}) {
		t.Errorf("not staged = %v", report.NotStaged)
	}
}

func TestStatusCleanRepository(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "a", "hi", "first")

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Untracked)+len(report.Unmerged)+len(report.ToCommit)+len(report.NotStaged) != 0 {
		t.Errorf("clean repo reported changes: %+v", report)
	}
}
