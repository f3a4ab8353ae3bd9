package object

import "strings"

// NestedFromTOC converts a flat table of contents into a nested tree whose
// leaves carry the blob hashes.
func NestedFromTOC(toc TOC) *Node {
	root := &Node{Children: make(map[string]*Node)}
	for p, blobHash := range toc {
		cur := root
		segments := strings.Split(p, "/")
		for _, seg := range segments[:len(segments)-1] {
			child, ok := cur.Children[seg]
			if !ok || child.IsLeaf() {
				child = &Node{Children: make(map[string]*Node)}
				cur.Children[seg] = child
			}
			cur = child
		}
		cur.Children[segments[len(segments)-1]] = &Node{Blob: blobHash}
	}
	return root
}

// FlattenTree converts a nested tree back into a flat table of contents.
func FlattenTree(n *Node) TOC {
	toc := make(TOC)
	flattenInto(n, "", toc)
	return toc
}

func flattenInto(n *Node, prefix string, toc TOC) {
	for name, child := range n.Children {
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		if child.IsLeaf() {
			toc[p] = child.Blob
		} else {
			flattenInto(child, p, toc)
		}
	}
}
