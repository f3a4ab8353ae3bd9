package object

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store is a content-addressed object store with one file per object under
// objects/<hash>. Objects are created by Write, never mutated, never
// deleted.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the repository metadata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h))
}

// Exists reports whether the store contains an object with the given hash.
func (s *Store) Exists(h Hash) bool {
	if h == "" {
		return false
	}
	info, err := os.Stat(s.objectPath(h))
	return err == nil && !info.IsDir()
}

// Write stores serialized object bytes and returns their content hash.
// Writing the same bytes twice is a no-op returning the same hash. Writes
// are atomic: data goes to a temp file and is renamed into place.
func (s *Store) Write(data []byte) (Hash, error) {
	h := HashBytes(data)
	if s.Exists(h) {
		return h, nil
	}

	dir := filepath.Join(s.root, "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}
	return h, nil
}

// Read retrieves an object's serialized bytes by hash. An unknown hash
// yields (nil, nil), not an error.
func (s *Store) Read(h Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.objectPath(h))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return data, nil
}

// AllHashes lists the hashes of every object in the store.
func (s *Store) AllHashes() ([]Hash, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "objects"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("object list: %w", err)
	}
	var hashes []Hash
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		hashes = append(hashes, Hash(e.Name()))
	}
	return hashes, nil
}

// ---------------------------------------------------------------------------
// Trees
// ---------------------------------------------------------------------------

// WriteTree writes a nested tree of blobs to the store, leaves first, and
// returns the root tree hash.
func (s *Store) WriteTree(n *Node) (Hash, error) {
	var entries []TreeEntry
	for name, child := range n.Children {
		if child.IsLeaf() {
			entries = append(entries, TreeEntry{Kind: KindBlob, Hash: child.Blob, Name: name})
			continue
		}
		subHash, err := s.WriteTree(child)
		if err != nil {
			return "", err
		}
		entries = append(entries, TreeEntry{Kind: KindTree, Hash: subHash, Name: name})
	}
	h, err := s.Write(MarshalTree(entries))
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return h, nil
}

// ReadTree reads a tree object recursively into its nested form.
func (s *Store) ReadTree(h Hash) (*Node, error) {
	data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("read tree: unknown object %s", h)
	}
	entries, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", h, err)
	}

	n := &Node{Children: make(map[string]*Node)}
	for _, e := range entries {
		switch e.Kind {
		case KindBlob:
			n.Children[e.Name] = &Node{Blob: e.Hash}
		case KindTree:
			child, err := s.ReadTree(e.Hash)
			if err != nil {
				return nil, err
			}
			n.Children[e.Name] = child
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Commits
// ---------------------------------------------------------------------------

// WriteCommit writes a commit object pointing at treeHash with the given
// message and parents, dated now, and returns its hash.
func (s *Store) WriteCommit(treeHash Hash, message string, parents []Hash) (Hash, error) {
	c := &Commit{
		Tree:    treeHash,
		Parents: parents,
		Date:    time.Now().Format("Mon Jan 2 15:04:05 2006 -0700"),
		Message: message,
	}
	h, err := s.Write(MarshalCommit(c))
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	return h, nil
}

// CommitTOC flattens the tree of the given commit into a table of contents.
// An unknown or non-commit hash yields an empty TOC.
func (s *Store) CommitTOC(commitHash Hash) (TOC, error) {
	data, err := s.Read(commitHash)
	if err != nil {
		return nil, err
	}
	treeHash := TreeHashOf(data)
	if treeHash == "" {
		return TOC{}, nil
	}
	n, err := s.ReadTree(treeHash)
	if err != nil {
		return nil, fmt.Errorf("commit toc %s: %w", commitHash, err)
	}
	return FlattenTree(n), nil
}
