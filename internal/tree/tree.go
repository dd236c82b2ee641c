// Package tree links a flat comment batch into a newest-first forest.
package tree

import (
	"sort"

	"github.com/fragmede/quibble/internal/api"
)

// Node wraps one comment and owns its reply list.
type Node struct {
	Comment  api.Comment
	Children []*Node
}

// Build converts flat records into a forest. It is total: any input yields
// a forest, never an error.
//
// Pass one indexes every record by id before any linking, since a reply can
// precede its parent in the batch. Pass two attaches each node to its
// parent when the parent id resolves within the batch; anything else —
// empty parent id, or a parent outside the batch — becomes a root. That
// orphan policy is deliberate: a partial fetch must still render.
//
// The root list and every reply list are sorted newest first by the parsed
// createdAt, stably, so equal timestamps keep their batch order.
func Build(records []api.Comment) []*Node {
	byID := make(map[string]*Node, len(records))
	nodes := make([]*Node, 0, len(records))
	for _, rec := range records {
		n := &Node{Comment: rec}
		byID[rec.ID] = n
		nodes = append(nodes, n)
	}

	var roots []*Node
	for _, n := range nodes {
		parent, ok := byID[n.Comment.ParentID]
		if n.Comment.IsReply() && ok {
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}

	sortNewestFirst(roots)
	for _, n := range nodes {
		sortNewestFirst(n.Children)
	}
	return roots
}

func sortNewestFirst(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Comment.CreatedAtMillis() > nodes[j].Comment.CreatedAtMillis()
	})
}

// Size returns the number of nodes reachable from the roots. With cyclic
// input this can be less than the batch size, since a cycle has no root.
func Size(roots []*Node) int {
	total := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		total++
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return total
}
