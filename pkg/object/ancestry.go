package object

// Ancestors returns the recursive closure over parent links starting from
// (but excluding) the given commit. Duplicates reachable along multiple
// paths are preserved in walk order; callers that need set membership must
// deduplicate or use IsAncestor.
func (s *Store) Ancestors(h Hash) []Hash {
	data, err := s.Read(h)
	if err != nil || data == nil {
		return nil
	}
	var out []Hash
	for _, p := range ParentHashesOf(data) {
		out = append(out, p)
		out = append(out, s.Ancestors(p)...)
	}
	return out
}

// IsAncestor reports whether candidate appears in the ancestor closure of
// descendant.
func (s *Store) IsAncestor(descendant, candidate Hash) bool {
	for _, h := range s.Ancestors(descendant) {
		if h == candidate {
			return true
		}
	}
	return false
}

// IsUpToDate reports whether the giver adds nothing to the receiver: the
// receiver is defined and either equals the giver or already contains it as
// an ancestor.
func (s *Store) IsUpToDate(receiver, giver Hash) bool {
	if receiver == "" {
		return false
	}
	return receiver == giver || s.IsAncestor(receiver, giver)
}
