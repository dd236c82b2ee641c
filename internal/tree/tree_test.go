package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fragmede/quibble/internal/api"
)

func rec(id, parentID, createdAt string) api.Comment {
	return api.Comment{ID: id, ParentID: parentID, CreatedAt: createdAt}
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]api.Comment{}))
}

func TestBuildFlat(t *testing.T) {
	roots := Build([]api.Comment{
		rec("a", "", "100"),
		rec("b", "", "300"),
		rec("c", "", "200"),
	})

	require.Len(t, roots, 3)
	assert.Equal(t, "b", roots[0].Comment.ID)
	assert.Equal(t, "c", roots[1].Comment.ID)
	assert.Equal(t, "a", roots[2].Comment.ID)
}

// The worked example: newest root first, reply nested under its parent.
func TestBuildNesting(t *testing.T) {
	roots := Build([]api.Comment{
		rec("1", "", "100"),
		rec("2", "1", "200"),
		rec("3", "", "300"),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "3", roots[0].Comment.ID)
	assert.Equal(t, "1", roots[1].Comment.ID)
	require.Len(t, roots[1].Children, 1)
	assert.Equal(t, "2", roots[1].Children[0].Comment.ID)
	assert.Empty(t, roots[0].Children)
}

// A reply can precede its parent in the batch; the index pass must see the
// whole batch before any linking happens.
func TestBuildChildBeforeParent(t *testing.T) {
	roots := Build([]api.Comment{
		rec("reply", "root", "200"),
		rec("root", "", "100"),
	})

	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].Comment.ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "reply", roots[0].Children[0].Comment.ID)
}

// A parent id that doesn't resolve within the batch makes the record a
// root, not an error and not a drop.
func TestBuildUnresolvableParentBecomesRoot(t *testing.T) {
	roots := Build([]api.Comment{
		rec("a", "not-fetched", "100"),
		rec("b", "", "200"),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "b", roots[0].Comment.ID)
	assert.Equal(t, "a", roots[1].Comment.ID)
}

func TestBuildChildrenSortedNewestFirst(t *testing.T) {
	roots := Build([]api.Comment{
		rec("root", "", "50"),
		rec("old", "root", "100"),
		rec("new", "root", "300"),
		rec("mid", "root", "200"),
	})

	require.Len(t, roots, 1)
	kids := roots[0].Children
	require.Len(t, kids, 3)
	assert.Equal(t, "new", kids[0].Comment.ID)
	assert.Equal(t, "mid", kids[1].Comment.ID)
	assert.Equal(t, "old", kids[2].Comment.ID)
}

// Equal timestamps keep their batch order at every level.
func TestBuildSortStability(t *testing.T) {
	roots := Build([]api.Comment{
		rec("r1", "", "100"),
		rec("r2", "", "100"),
		rec("r3", "", "100"),
		rec("c1", "r1", "100"),
		rec("c2", "r1", "100"),
	})

	require.Len(t, roots, 3)
	assert.Equal(t, "r1", roots[0].Comment.ID)
	assert.Equal(t, "r2", roots[1].Comment.ID)
	assert.Equal(t, "r3", roots[2].Comment.ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "c1", roots[0].Children[0].Comment.ID)
	assert.Equal(t, "c2", roots[0].Children[1].Comment.ID)
}

// Timestamps compare numerically, never lexicographically: "900" < "1000".
func TestBuildNumericTimestampOrder(t *testing.T) {
	roots := Build([]api.Comment{
		rec("short", "", "900"),
		rec("long", "", "1000"),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "long", roots[0].Comment.ID)
	assert.Equal(t, "short", roots[1].Comment.ID)
}

func TestBuildMalformedTimestampSortsLast(t *testing.T) {
	roots := Build([]api.Comment{
		rec("bad", "", "not-a-number"),
		rec("good", "", "100"),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "good", roots[0].Comment.ID)
	assert.Equal(t, "bad", roots[1].Comment.ID)
}

// A mutual cycle links each node under the other and leaves no root. The
// build must terminate and the forest is simply empty.
func TestBuildMutualCycleHasNoRoots(t *testing.T) {
	roots := Build([]api.Comment{
		rec("a", "b", "100"),
		rec("b", "a", "200"),
	})

	assert.Empty(t, roots)
}

func TestBuildSelfReferenceHasNoRoot(t *testing.T) {
	roots := Build([]api.Comment{
		rec("a", "a", "100"),
	})

	assert.Empty(t, roots)
}

// Every record with an acyclic parent reference lands in the forest exactly
// once, whatever the batch order and parent arrangement.
func TestBuildCountPreserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		records := make([]api.Comment, n)
		for i := range records {
			id := fmt.Sprintf("c%d", i)
			parent := ""
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("kind%d", i)) {
			case 1:
				if i > 0 {
					// Earlier record: resolvable and acyclic by construction.
					parent = fmt.Sprintf("c%d", rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("p%d", i)))
				}
			case 2:
				parent = "outside-the-batch"
			}
			ts := rapid.Int64Range(0, 1_000_000).Draw(t, fmt.Sprintf("ts%d", i))
			records[i] = rec(id, parent, fmt.Sprintf("%d", ts))
		}

		roots := Build(records)
		if got := Size(roots); got != n {
			t.Fatalf("forest has %d nodes, want %d", got, n)
		}
	})
}

func TestBuildOrderingInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		records := make([]api.Comment, n)
		for i := range records {
			parent := ""
			if i > 0 && rapid.Bool().Draw(t, fmt.Sprintf("hasParent%d", i)) {
				parent = fmt.Sprintf("c%d", rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("p%d", i)))
			}
			ts := rapid.Int64Range(0, 1000).Draw(t, fmt.Sprintf("ts%d", i))
			records[i] = rec(fmt.Sprintf("c%d", i), parent, fmt.Sprintf("%d", ts))
		}

		roots := Build(records)
		var checkSorted func(nodes []*Node)
		checkSorted = func(nodes []*Node) {
			for i := 1; i < len(nodes); i++ {
				if nodes[i-1].Comment.CreatedAtMillis() < nodes[i].Comment.CreatedAtMillis() {
					t.Fatalf("nodes out of order: %s before %s",
						nodes[i-1].Comment.ID, nodes[i].Comment.ID)
				}
			}
			for _, n := range nodes {
				checkSorted(n.Children)
			}
		}
		checkSorted(roots)
	})
}
