package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Kind detection
// ---------------------------------------------------------------------------

// KindOf classifies serialized object bytes by their first whitespace
// delimited token. "commit" and "tree" name themselves; anything else is
// blob content.
func KindOf(data []byte) Kind {
	token := firstToken(data)
	switch token {
	case "commit":
		return KindCommit
	case "tree":
		return KindTree
	default:
		return KindBlob
	}
}

func firstToken(data []byte) string {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes tree entries as newline-terminated records of the
// form "kind hash name". Entries are sorted by name so the same tree always
// serializes to the same bytes.
func MarshalTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Kind, e.Hash, e.Name)
	}
	if len(sorted) == 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalTree parses serialized tree bytes into entries.
func UnmarshalTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: malformed record %q", line)
		}
		kind := Kind(parts[0])
		if kind != KindBlob && kind != KindTree {
			return nil, fmt.Errorf("unmarshal tree: unknown entry kind %q", parts[0])
		}
		entries = append(entries, TreeEntry{Kind: kind, Hash: Hash(parts[1]), Name: parts[2]})
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a commit with the fixed header layout:
//
//	commit <tree>
//	parent <hash>      (zero or more)
//	Date:  <date>
//
//	    <message>
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "commit %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "Date:  %s\n", c.Date)
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "    %s\n", c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses serialized commit bytes. It returns an error when
// the bytes are not a commit.
func UnmarshalCommit(data []byte) (*Commit, error) {
	if KindOf(data) != KindCommit {
		return nil, fmt.Errorf("unmarshal commit: not a commit object")
	}

	c := &Commit{}
	text := string(data)
	header, body, found := strings.Cut(text, "\n\n")
	if !found {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}

	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "commit "):
			c.Tree = Hash(strings.TrimPrefix(line, "commit "))
		case strings.HasPrefix(line, "parent "):
			c.Parents = append(c.Parents, Hash(strings.TrimPrefix(line, "parent ")))
		case strings.HasPrefix(line, "Date:"):
			c.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header line %q", line)
		}
	}
	if c.Tree == "" {
		return nil, fmt.Errorf("unmarshal commit: missing tree header")
	}

	c.Message = strings.TrimSuffix(strings.TrimPrefix(body, "    "), "\n")
	return c, nil
}

// TreeHashOf extracts the tree hash from serialized commit bytes. It returns
// the empty hash when the bytes are not a commit.
func TreeHashOf(data []byte) Hash {
	if KindOf(data) != KindCommit {
		return ""
	}
	first, _, _ := strings.Cut(string(data), "\n")
	return Hash(strings.TrimPrefix(first, "commit "))
}

// ParentHashesOf extracts the parent hashes from serialized commit bytes, in
// header order. It returns nil when the bytes are not a commit.
func ParentHashesOf(data []byte) []Hash {
	if KindOf(data) != KindCommit {
		return nil
	}
	var parents []Hash
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "parent ") {
			parents = append(parents, Hash(strings.TrimPrefix(line, "parent ")))
		}
	}
	return parents
}
