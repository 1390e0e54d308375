package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTree_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		tree := NewTree(
			&Node{ID: "root", ChildIDs: []string{"a", "b"}},
			&Node{ID: "a", ParentID: "root"},
			&Node{ID: "b", ParentID: "root", ChildIDs: []string{"c"}},
			&Node{ID: "c", ParentID: "b"},
		)
		assert.NoError(t, tree.Validate())
		assert.Equal(t, []string{"root"}, tree.Roots())
	})

	t.Run("Over Limit Is Legal", func(t *testing.T) {
		tree := NewTree(
			&Node{ID: "root", ChildIDs: []string{"a", "b"}, Plugin: &Plugin{Name: "x", ChildConstraints: MaxChildren(1)}},
			&Node{ID: "a", ParentID: "root"},
			&Node{ID: "b", ParentID: "root"},
		)
		assert.NoError(t, tree.Validate())
	})

	t.Run("Dangling Child", func(t *testing.T) {
		tree := NewTree(&Node{ID: "root", ChildIDs: []string{"ghost"}})
		assert.ErrorIs(t, tree.Validate(), ErrDanglingChild)
	})

	t.Run("Parent Mismatch", func(t *testing.T) {
		tree := NewTree(
			&Node{ID: "root", ChildIDs: []string{"a"}},
			&Node{ID: "other"},
			&Node{ID: "a", ParentID: "other"},
		)
		assert.ErrorIs(t, tree.Validate(), ErrParentMismatch)
	})

	t.Run("Multiple Parents", func(t *testing.T) {
		tree := NewTree(
			&Node{ID: "p1", ChildIDs: []string{"a"}},
			&Node{ID: "p2", ChildIDs: []string{"a"}},
			&Node{ID: "a"},
		)
		assert.ErrorIs(t, tree.Validate(), ErrMultipleParents)
	})

	t.Run("Cycle", func(t *testing.T) {
		tree := NewTree(
			&Node{ID: "a", ParentID: "b", ChildIDs: []string{"b"}},
			&Node{ID: "b", ParentID: "a", ChildIDs: []string{"a"}},
		)
		assert.ErrorIs(t, tree.Validate(), ErrCycle)
		assert.Empty(t, tree.Roots())
	})

	t.Run("Self Loop", func(t *testing.T) {
		tree := NewTree(&Node{ID: "a", ChildIDs: []string{"a"}})
		assert.ErrorIs(t, tree.Validate(), ErrCycle)
	})

	t.Run("Missing Parent", func(t *testing.T) {
		tree := NewTree(&Node{ID: "a", ParentID: "ghost"})
		assert.ErrorIs(t, tree.Validate(), ErrNodeNotFound)
	})
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}

	assert.True(t, r.Contains(Point{X: 10, Y: 10}), "top-left edge is inside")
	assert.True(t, r.Contains(Point{X: 29.9, Y: 19.9}))
	assert.False(t, r.Contains(Point{X: 30, Y: 15}), "right edge is outside")
	assert.False(t, r.Contains(Point{X: 15, Y: 20}), "bottom edge is outside")
	assert.False(t, Rect{X: 0, Y: 0, W: 0, H: 5}.Contains(Point{}))
}

func TestView_Find(t *testing.T) {
	v := &View{NodeID: "root", Children: []*View{
		{NodeID: "a", Classes: []string{"x"}},
		{NodeID: "b", Children: []*View{{NodeID: "c"}}},
	}}

	assert.Equal(t, "c", v.Find("c").NodeID)
	assert.Nil(t, v.Find("zz"))
	assert.True(t, v.Find("a").HasClass("x"))
	assert.False(t, v.Find("b").HasClass("x"))
}
