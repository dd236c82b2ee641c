package commentview

import "github.com/fragmede/quibble/internal/tree"

// FlatComment is a comment flattened from the forest for display.
type FlatComment struct {
	Node        *tree.Node
	Depth       int
	IsCollapsed bool
}
