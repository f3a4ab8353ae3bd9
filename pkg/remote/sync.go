// Package remote exchanges commits with other repositories on the local
// filesystem. A remote operation never changes the process working
// directory: it constructs a second Repository handle rooted at the remote
// path and runs against both.
package remote

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/enkelgit/pkg/object"
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/rs/zerolog"
)

// Syncer runs fetch/push/pull for one local repository.
type Syncer struct {
	Local *repo.Repository
	Log   zerolog.Logger
}

// NewSyncer creates a Syncer around the local repository.
func NewSyncer(local *repo.Repository, log zerolog.Logger) *Syncer {
	return &Syncer{Local: local, Log: log}
}

// FetchResult reports what a fetch did.
type FetchResult struct {
	From   string // remote URL
	Branch string
	Remote string
	Hash   object.Hash
	Count  int  // objects transferred
	Forced bool // the remote-tracking ref was rewound
}

// PushResult reports what a push did.
type PushResult struct {
	To       string
	Branch   string
	Hash     object.Hash
	Count    int
	UpToDate bool
}

// openRemote resolves the configured URL of a named remote and opens the
// repository behind it.
func (s *Syncer) openRemote(remoteName string) (*repo.Repository, string, error) {
	url, err := s.Local.RemoteURL(remoteName)
	if err != nil {
		return nil, "", err
	}
	abs, err := filepath.Abs(url)
	if err != nil {
		return nil, "", fmt.Errorf("resolve remote %s: %w", remoteName, err)
	}
	remoteRepo, err := repo.Open(abs)
	if err != nil {
		return nil, "", fmt.Errorf("repository %s does not exist", url)
	}
	return remoteRepo, url, nil
}

// Fetch copies the named branch's objects from the remote into the local
// store, updates the remote-tracking ref, and records the fetched head in
// FETCH_HEAD.
func (s *Syncer) Fetch(remoteName, branch string) (*FetchResult, error) {
	remoteRepo, url, err := s.openRemote(remoteName)
	if err != nil {
		return nil, err
	}

	remoteHash := remoteRepo.RefHash(branch)
	if remoteHash == "" {
		return nil, fmt.Errorf("couldn't find remote ref %s", branch)
	}

	trackingRef := repo.ToRemoteRef(remoteName, branch)
	oldHash := s.Local.RefHash(trackingRef)

	count, err := transferObjects(remoteRepo.Store, s.Local.Store, s.Log)
	if err != nil {
		return nil, err
	}

	if err := s.Local.UpdateRef(trackingRef, string(remoteHash)); err != nil {
		return nil, err
	}
	fetchHead := fmt.Sprintf("%s branch %s of %s", remoteHash, branch, url)
	if err := s.Local.WriteRef("FETCH_HEAD", fetchHead); err != nil {
		return nil, err
	}

	result := &FetchResult{
		From:   url,
		Branch: branch,
		Remote: remoteName,
		Hash:   remoteHash,
		Count:  count,
		Forced: s.Local.IsAForceFetch(oldHash, remoteHash),
	}
	s.Log.Info().
		Str("remote", remoteName).
		Str("branch", branch).
		Str("hash", string(remoteHash)).
		Int("objects", count).
		Bool("forced", result.Forced).
		Msg("fetched")
	return result, nil
}

// Push updates the named branch on the remote to the local branch's hash.
// It refuses the remote's checked-out branch and, without force, any update
// that is not a fast-forward.
func (s *Syncer) Push(remoteName, branch string, force bool) (*PushResult, error) {
	remoteRepo, url, err := s.openRemote(remoteName)
	if err != nil {
		return nil, err
	}

	if remoteRepo.IsCheckedOut(branch) {
		return nil, fmt.Errorf("refusing to update checked out branch %s", branch)
	}

	receiverHash := remoteRepo.RefHash(branch)
	giverHash := s.Local.RefHash(branch)
	if giverHash == "" {
		return nil, fmt.Errorf("ambiguous argument %s: unknown revision", branch)
	}

	if s.Local.Store.IsUpToDate(receiverHash, giverHash) {
		return &PushResult{To: url, Branch: branch, Hash: giverHash, UpToDate: true}, nil
	}
	if !force && !s.Local.CanFastForward(receiverHash, giverHash) {
		return nil, fmt.Errorf("failed to push some refs to %s", url)
	}

	count, err := transferObjects(s.Local.Store, remoteRepo.Store, s.Log)
	if err != nil {
		return nil, err
	}

	if err := remoteRepo.UpdateRef(repo.ToLocalRef(branch), string(giverHash)); err != nil {
		return nil, err
	}
	if err := s.Local.UpdateRef(repo.ToRemoteRef(remoteName, branch), string(giverHash)); err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("remote", remoteName).
		Str("branch", branch).
		Str("hash", string(giverHash)).
		Int("objects", count).
		Msg("pushed")
	return &PushResult{To: url, Branch: branch, Hash: giverHash, Count: count}, nil
}

// Pull fetches the named branch and merges FETCH_HEAD into the current
// branch, returning the merge's report line.
func (s *Syncer) Pull(remoteName, branch string) (string, error) {
	if _, err := s.Fetch(remoteName, branch); err != nil {
		return "", err
	}
	return s.Local.Merge("FETCH_HEAD")
}
