package commentview

import "github.com/fragmede/quibble/internal/tree"

// CollapseState tracks collapsed comment IDs. It is rebuilt from scratch
// whenever a new forest arrives; nothing survives a refresh.
type CollapseState map[string]bool

// FlattenForest converts the forest into a flat list for display, skipping
// the descendants of collapsed nodes. Traversal only ever descends through
// children lists, so cyclic batches (which have no roots) cannot loop it.
func FlattenForest(roots []*tree.Node, cs CollapseState) []FlatComment {
	var result []FlatComment

	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		collapsed := cs[n.Comment.ID]
		result = append(result, FlatComment{
			Node:        n,
			Depth:       depth,
			IsCollapsed: collapsed,
		})
		if !collapsed {
			for _, child := range n.Children {
				walk(child, depth+1)
			}
		}
	}

	for _, root := range roots {
		walk(root, 0)
	}
	return result
}

// FindParentIndex returns the index of the parent comment in the flat list.
func FindParentIndex(comments []FlatComment, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(comments) {
		return -1
	}
	parentID := comments[currentIdx].Node.Comment.ParentID
	if parentID == "" {
		return -1
	}
	for i := currentIdx - 1; i >= 0; i-- {
		if comments[i].Node.Comment.ID == parentID {
			return i
		}
	}
	return -1
}

// FindNextSiblingIndex returns the index of the next comment at the same depth.
func FindNextSiblingIndex(comments []FlatComment, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(comments) {
		return -1
	}
	depth := comments[currentIdx].Depth
	for i := currentIdx + 1; i < len(comments); i++ {
		if comments[i].Depth < depth {
			return -1 // Went up in tree, no more siblings.
		}
		if comments[i].Depth == depth {
			return i
		}
	}
	return -1
}
