package layout

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView() *domain.View {
	return &domain.View{
		NodeID: "root", Kind: domain.ViewCell, Insert: true,
		Children: []*domain.View{
			{NodeID: "row", Kind: domain.ViewContainer, Children: []*domain.View{
				{NodeID: "a", Kind: domain.ViewCell},
				{NodeID: "b", Kind: domain.ViewFallback},
			}},
		},
	}
}

func TestStack_Place(t *testing.T) {
	s := Stack{Width: 100, Padding: 10, ContentHeight: 20, InsertHeight: 5}
	l := s.Place(testView())

	assert.Equal(t, []string{"root", "row", "a", "b"}, l.Order)
	assert.Equal(t, domain.Rect{X: 20, Y: 40, W: 60, H: 40}, l.Rects["a"])
	assert.Equal(t, domain.Rect{X: 20, Y: 90, W: 60, H: 40}, l.Rects["b"])
	assert.Equal(t, domain.Rect{X: 10, Y: 30, W: 80, H: 110}, l.Rects["row"])
	assert.Equal(t, domain.Rect{X: 0, Y: 0, W: 100, H: 155}, l.Rects["root"])

	for _, child := range []string{"row", "a", "b"} {
		parent := l.Rects["root"]
		r := l.Rects[child]
		assert.True(t, parent.Contains(domain.Point{X: r.X, Y: r.Y}), child)
	}
}

func TestStack_OwnPointAndInnermost(t *testing.T) {
	l := DefaultStack.Place(testView())

	for _, id := range []string{"root", "row", "a", "b"} {
		p, ok := l.OwnPoint(id)
		require.True(t, ok, id)
		got, ok := l.Innermost(p)
		require.True(t, ok, id)
		assert.Equal(t, id, got)
	}

	_, ok := l.OwnPoint("zzz")
	assert.False(t, ok)
	_, ok = l.Innermost(domain.Point{X: -1, Y: -1})
	assert.False(t, ok)
}

func TestStack_DuplicateIdsKeepFirstPlacement(t *testing.T) {
	v := &domain.View{NodeID: "a", Kind: domain.ViewCell, Children: []*domain.View{
		{NodeID: "b", Kind: domain.ViewCell, Children: []*domain.View{
			{NodeID: "a", Kind: domain.ViewFallback},
		}},
	}}
	l := DefaultStack.Place(v)

	assert.Equal(t, []string{"a", "b"}, l.Order)
	assert.Equal(t, float64(0), l.Rects["a"].Y)
	p, _ := l.OwnPoint("b")
	got, _ := l.Innermost(p)
	assert.Equal(t, "b", got)
}

func TestStack_Empty(t *testing.T) {
	assert.Empty(t, DefaultStack.Place(nil).Rects)
	assert.Empty(t, DefaultStack.Place(&domain.View{NodeID: "x", Kind: domain.ViewEmpty}).Rects)
}
