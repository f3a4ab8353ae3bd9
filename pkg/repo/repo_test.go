package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// initTestRepo creates a fresh non-bare repository in a temp directory.
func initTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Init(t.TempDir(), false, "master")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

// writeWorkFile writes content to a repo-relative path in the working copy.
func writeWorkFile(t *testing.T, r *Repository, rel, content string) {
	t.Helper()
	abs := filepath.Join(r.WorkDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// stageAndCommit writes, stages, and commits a single file.
func stageAndCommit(t *testing.T, r *Repository, rel, content, msg string) {
	t.Helper()
	writeWorkFile(t, r, rel, content)
	if err := r.Add(rel); err != nil {
		t.Fatalf("Add(%s): %v", rel, err)
	}
	if _, err := r.Commit(msg); err != nil {
		t.Fatalf("Commit(%s): %v", msg, err)
	}
}

func TestInitLayout(t *testing.T) {
	r := initTestRepo(t)

	for _, rel := range []string{"HEAD", "config", "objects", "refs/heads"} {
		if _, err := os.Stat(filepath.Join(r.MetaDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s after init: %v", rel, err)
		}
	}

	head, err := os.ReadFile(filepath.Join(r.MetaDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/master\n" {
		t.Errorf("HEAD = %q", head)
	}
	if r.IsBare() {
		t.Error("fresh working repository reported bare")
	}
}

func TestInitRefusesExistingRepository(t *testing.T) {
	r := initTestRepo(t)
	if _, err := Init(r.WorkDir, false, "master"); err == nil {
		t.Error("expected error initializing inside an existing repository")
	}
}

func TestInitBare(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, true, "master")
	if err != nil {
		t.Fatalf("Init bare: %v", err)
	}
	if r.MetaDir != dir {
		t.Errorf("bare MetaDir = %s, want %s", r.MetaDir, dir)
	}
	if !r.IsBare() {
		t.Error("bare repository not reported bare")
	}

	opened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open bare: %v", err)
	}
	if !opened.IsBare() || opened.WorkDir != "" {
		t.Errorf("opened bare repo: bare=%t workdir=%q", opened.IsBare(), opened.WorkDir)
	}
}

func TestOpenDiscoversUpward(t *testing.T) {
	r := initTestRepo(t)
	sub := filepath.Join(r.WorkDir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	opened, err := Open(sub)
	if err != nil {
		t.Fatalf("Open from subdirectory: %v", err)
	}
	if opened.WorkDir != r.WorkDir {
		t.Errorf("discovered root = %s, want %s", opened.WorkDir, r.WorkDir)
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening outside any repository")
	}
}

func TestConfigRemotes(t *testing.T) {
	r := initTestRepo(t)

	if err := r.AddRemote("origin", "/srv/repos/x"); err != nil {
		t.Fatalf("AddRemote: %v", err)
	}
	if err := r.AddRemote("origin", "/elsewhere"); err == nil {
		t.Error("expected error adding duplicate remote")
	}

	url, err := r.RemoteURL("origin")
	if err != nil {
		t.Fatalf("RemoteURL: %v", err)
	}
	if url != "/srv/repos/x" {
		t.Errorf("RemoteURL = %q", url)
	}
	if _, err := r.RemoteURL("nowhere"); err == nil {
		t.Error("expected error for unconfigured remote")
	}

	data, err := os.ReadFile(filepath.Join(r.MetaDir, "config"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `[remote "origin"]`) {
		t.Errorf("config missing remote section:\n%s", data)
	}
	if !strings.Contains(string(data), "[core]") {
		t.Errorf("config missing core section:\n%s", data)
	}
}
