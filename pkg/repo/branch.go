package repo

import "fmt"

// BranchInfo is one row of the branch listing.
type BranchInfo struct {
	Name    string
	Current bool
}

// Branches lists local branches, sorted, marking the one HEAD is attached
// to.
func (r *Repository) Branches() ([]BranchInfo, error) {
	names, err := r.BranchNames()
	if err != nil {
		return nil, err
	}
	current := r.HeadBranchName()
	infos := make([]BranchInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, BranchInfo{Name: name, Current: name == current})
	}
	return infos, nil
}

// CreateBranch creates a branch at the current HEAD commit. It fails
// before the first commit, on an existing name, and on a syntactically
// invalid name.
func (r *Repository) CreateBranch(name string) error {
	headHash := r.RefHash("HEAD")
	if headHash == "" {
		return fmt.Errorf("%s not a valid object name", r.HeadBranchName())
	}
	if r.RefExists(ToLocalRef(name)) {
		return fmt.Errorf("A branch named %s already exists", name)
	}
	return r.UpdateRef(ToLocalRef(name), string(headHash))
}
