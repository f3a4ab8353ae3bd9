// Package diff computes tables-of-contents diffs with three-way status
// classification. It is pure: callers supply the snapshots.
package diff

import (
	"sort"

	"github.com/odvcencio/enkelgit/pkg/object"
)

// Status classifies one path in a diff.
type Status string

const (
	StatusAdd      Status = "A"
	StatusModify   Status = "M"
	StatusDelete   Status = "D"
	StatusSame     Status = "SAME"
	StatusConflict Status = "CONFLICT"
)

// FileDiff records the per-path evidence: the receiver, base, and giver
// hashes (any may be absent) and the resulting status.
type FileDiff struct {
	Status   Status
	Receiver object.Hash
	Base     object.Hash
	Giver    object.Hash
}

// Diff maps paths to their classification.
type Diff map[string]FileDiff

// TOCDiff diffs the receiver and giver snapshots against a base. A nil base
// falls back to the receiver, which collapses the conflict row out: with no
// three-way evidence, a two-way diff never reports conflicts.
func TOCDiff(receiver, giver, base object.TOC) Diff {
	if base == nil {
		base = receiver
	}

	paths := make(map[string]bool)
	for p := range receiver {
		paths[p] = true
	}
	for p := range giver {
		paths[p] = true
	}
	for p := range base {
		paths[p] = true
	}

	d := make(Diff, len(paths))
	for p := range paths {
		r, b, g := receiver[p], base[p], giver[p]
		d[p] = FileDiff{
			Status:   classify(r, b, g),
			Receiver: r,
			Base:     b,
			Giver:    g,
		}
	}
	return d
}

// classify is the sole source of truth for status classification. An empty
// hash means the path is absent from that snapshot.
func classify(r, b, g object.Hash) Status {
	rPresent, bPresent, gPresent := r != "", b != "", g != ""
	switch {
	case rPresent && gPresent && r != g:
		if r != b && g != b {
			return StatusConflict
		}
		return StatusModify
	case r == g:
		return StatusSame
	case (!rPresent && !bPresent && gPresent) || (rPresent && !bPresent && !gPresent):
		return StatusAdd
	default:
		// (rPresent && bPresent && !gPresent) || (!rPresent && bPresent && gPresent)
		return StatusDelete
	}
}

// NameStatus reduces a diff to the changed paths and their statuses,
// dropping SAME entries.
func NameStatus(d Diff) map[string]Status {
	out := make(map[string]Status)
	for p, fd := range d {
		if fd.Status != StatusSame {
			out[p] = fd.Status
		}
	}
	return out
}

// ChangedPaths lists the non-SAME paths of a diff, sorted.
func ChangedPaths(d Diff) []string {
	var paths []string
	for p, fd := range d {
		if fd.Status != StatusSame {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// ConflictedPaths lists the CONFLICT paths of a diff, sorted.
func ConflictedPaths(d Diff) []string {
	var paths []string
	for p, fd := range d {
		if fd.Status == StatusConflict {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}
