package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Page(t *testing.T) {
	b := New()

	b.Add("page").
		Plugin("markdown", "# Welcome").
		Children("intro", "gallery")

	b.Add("intro").
		Plugin("text", "Hello").
		Style("padding", "8px").
		Size(6).
		Inline(domain.InlineLeft).
		DraftIn("de", true).
		Add("gallery").
		Plugin("text", "").
		MaxChildren(1).
		InlineNeighbour().
		Children("photo")

	b.Add("photo").Draft()

	tree, err := b.Build()
	require.NoError(t, err)
	require.Len(t, tree, 4)
	assert.Equal(t, []string{"page"}, tree.Roots())

	intro := tree["intro"]
	assert.Equal(t, "page", intro.ParentID)
	assert.Equal(t, 6, intro.Size)
	assert.Equal(t, "8px", intro.Plugin.Style["padding"])
	assert.True(t, intro.Props().DraftIn("de"))
	assert.False(t, intro.Props().DraftIn("en"))

	gallery := tree["gallery"]
	max, ok := gallery.Plugin.MaxChildren()
	assert.True(t, ok)
	assert.Equal(t, 1, max)
	assert.True(t, gallery.HasInlineNeighbour)

	photo := tree["photo"]
	assert.Equal(t, "gallery", photo.ParentID)
	assert.Nil(t, photo.Plugin)
	assert.True(t, photo.IsDraft)
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	first := b.Add("a")
	assert.Same(t, first, b.Add("a"))
}

func TestBuilder_StyleWithoutPlugin(t *testing.T) {
	b := New()
	b.Add("a").Style("color", "red").MaxChildren(2)

	tree, err := b.Build()
	require.NoError(t, err)
	assert.Nil(t, tree["a"].Plugin)
}

func TestBuilder_Invalid(t *testing.T) {
	b := New()
	b.Add("a").Children("ghost")

	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrDanglingChild)
}

func TestBuilder_BuildIsolated(t *testing.T) {
	b := New()
	b.Add("a").Plugin("text", "one")

	tree, err := b.LoadTree(context.Background())
	require.NoError(t, err)
	tree["a"].Plugin.Body = "changed"

	again, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "one", again["a"].Plugin.Body)
}
