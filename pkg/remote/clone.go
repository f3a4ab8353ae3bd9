package remote

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/rs/zerolog"
)

// Clone copies a repository on the local filesystem into dst: a fresh
// repository with the source recorded as the "origin" remote, the source's
// head branch fetched, and (non-bare) the working copy materialized.
func Clone(src, dst string, bare bool, log zerolog.Logger) (*repo.Repository, error) {
	if src == "" || dst == "" {
		return nil, fmt.Errorf("you must specify remote path and target path")
	}

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("clone: resolve source: %w", err)
	}
	srcRepo, err := repo.Open(srcAbs)
	if err != nil {
		return nil, fmt.Errorf("repository %s does not exist", src)
	}

	if entries, err := os.ReadDir(dst); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("repository %s already exists", dst)
	}

	// The clone's branch follows the source's current branch.
	branch := srcRepo.HeadBranchName()
	if branch == "" {
		branch = repo.DefaultBranch
	}

	dstRepo, err := repo.Init(dst, bare, branch)
	if err != nil {
		return nil, err
	}
	if err := dstRepo.AddRemote("origin", srcAbs); err != nil {
		return nil, err
	}

	// An empty source clones to an empty repository.
	if srcRepo.RefHash(branch) == "" {
		log.Info().Str("src", srcAbs).Str("dst", dst).Msg("cloned empty repository")
		return dstRepo, nil
	}

	syncer := NewSyncer(dstRepo, log)
	result, err := syncer.Fetch("origin", branch)
	if err != nil {
		return nil, err
	}
	if err := dstRepo.WriteFastForwardMerge("", result.Hash); err != nil {
		return nil, err
	}

	log.Info().
		Str("src", srcAbs).
		Str("dst", dst).
		Str("branch", branch).
		Int("objects", result.Count).
		Msg("cloned")
	return dstRepo, nil
}
