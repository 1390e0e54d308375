package lattice_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/internal/testutils"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageYAML = `
root: page
language: en
cells:
  - id: page
    children: [intro, row]
    plugin: {name: text, body: Title}
  - id: intro
    plugin: {name: text, body: Hello}
  - id: row
    children: [draft]
  - id: draft
    draft: true
    plugin: {name: text, body: Hidden}
`

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_File(t *testing.T) {
	page, err := lattice.New(writePage(t, pageYAML))
	require.NoError(t, err)
	assert.Equal(t, "page.yaml", page.Name)
	assert.Equal(t, "page", page.Root())

	view, err := page.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCell, view.Kind)
	require.Len(t, view.Children, 2)
	assert.Equal(t, "Hello", view.Children[0].Content.Body)
	assert.Equal(t, domain.ViewContainer, view.Children[1].Kind)

	snap, err := page.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEdit, snap.Mode())
	assert.Equal(t, "en", snap.Language())
}

func TestNew_Errors(t *testing.T) {
	_, err := lattice.New("")
	assert.Error(t, err)

	_, err = lattice.New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = lattice.New(writePage(t, pageYAML), lattice.WithRoot("ghost"))
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = lattice.New(writePage(t, `
cells:
  - id: a
    children: [b]
  - id: b
    children: [a]
`))
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestPage_InteractFocusesNestedCell(t *testing.T) {
	ctx := context.Background()
	page, err := lattice.New(writePage(t, pageYAML))
	require.NoError(t, err)

	view, err := page.Render(ctx)
	require.NoError(t, err)
	placed := layout.DefaultStack.Place(view)
	require.NoError(t, page.Place(ctx, placed.Rects))

	origin, ok := placed.OwnPoint("intro")
	require.True(t, ok)

	// Delivered to the ancestor first: it must defer to the nested cell.
	decision, err := page.Interact(ctx, domain.Interaction{NodeID: "page", Origin: origin})
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, domain.RejectDescendant, decision.Reason)

	decision, err = page.Interact(ctx, domain.Interaction{NodeID: "intro", Origin: origin})
	require.NoError(t, err)
	assert.True(t, decision.Accepted)

	snap, err := page.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "intro", snap.State.FocusedNodeID)
	assert.True(t, page.Last().Find("intro").HasClass("lattice-cell-focused"))
}

func TestPage_SetMode(t *testing.T) {
	ctx := context.Background()
	page, err := lattice.New(writePage(t, pageYAML))
	require.NoError(t, err)

	view, err := page.Render(ctx)
	require.NoError(t, err)
	require.NotNil(t, view.Find("draft"), "drafts render while editing")

	view, err = page.SetMode(ctx, domain.ModePreview)
	require.NoError(t, err)
	assert.Nil(t, view.Find("draft"), "drafts are hidden in preview")
	assert.False(t, view.Interactive)
}

func TestPage_Reload(t *testing.T) {
	ctx := context.Background()
	path := writePage(t, pageYAML)
	page, err := lattice.New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`
root: page
cells:
  - id: page
    plugin: {name: text, body: Changed}
`), 0644))

	view, err := page.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Changed", view.Content.Body)
	assert.Empty(t, view.Children)
}

func TestPage_FaultAndRemount(t *testing.T) {
	ctx := context.Background()
	page, err := lattice.New(writePage(t, `
root: page
cells:
  - id: page
    children: [bad, good]
  - id: bad
    plugin: {name: missing}
  - id: good
    plugin: {name: text, body: ok}
`))
	require.NoError(t, err)

	view, err := page.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewFallback, view.Find("bad").Kind)
	assert.Equal(t, "ok", view.Find("good").Content.Body)

	fault := page.Fault("bad")
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, domain.ErrPluginNotRegistered)

	_, err = page.Remount(ctx, "bad")
	require.NoError(t, err)
	assert.NotNil(t, page.Fault("bad"), "the plugin is still missing after a remount")
}

func TestNew_WithStore(t *testing.T) {
	store := memory.NewFromNodes(
		&domain.Node{ID: "root", ChildIDs: []string{"a"}},
		&domain.Node{ID: "a", ParentID: "root", Plugin: &domain.Plugin{Name: "text", Body: "A"}},
	)
	page, err := lattice.New("", lattice.WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, "root", page.Root())

	view, err := page.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", view.Find("a").Content.Body)

	_, err = page.Reload(context.Background())
	assert.Error(t, err, "no tree source")
}

func TestNew_LoamDirectory(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"page.md": "---\nchildren: [intro]\n---\n",
		"intro.md": "---\nplugin: text\n---\nHello from loam\n",
	})

	page, err := lattice.New(dir)
	require.NoError(t, err)
	assert.Equal(t, "page", page.Root())

	view, err := page.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ViewContainer, view.Kind)
	assert.Equal(t, "Hello from loam", view.Find("intro").Content.Body)
}

type offsetScroller struct {
	offsets []float64
}

func (s *offsetScroller) ScrollIntoView(_ context.Context, _ string, _ domain.Rect, offset float64) error {
	s.offsets = append(s.offsets, offset)
	return nil
}

func TestPage_ScrollOffset(t *testing.T) {
	tests := []struct {
		name string
		opts []lattice.Option
		want float64
	}{
		{"Default", nil, runtime.DefaultScrollOffset},
		{"Custom", []lattice.Option{lattice.WithScrollOffset(40)}, 40},
		{"Zero", []lattice.Option{lattice.WithScrollOffset(0)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			scroller := &offsetScroller{}
			store := memory.NewFromNodes(
				&domain.Node{ID: "page", ChildIDs: []string{"intro"}, Plugin: &domain.Plugin{Name: "text", Body: "Title"}},
				&domain.Node{ID: "intro", ParentID: "page", Plugin: &domain.Plugin{Name: "text", Body: "Hello"}},
			)
			opts := append([]lattice.Option{lattice.WithStore(store), lattice.WithScroller(scroller)}, tt.opts...)
			page, err := lattice.New("", opts...)
			require.NoError(t, err)

			view, err := page.Render(ctx)
			require.NoError(t, err)
			require.NoError(t, page.Place(ctx, layout.DefaultStack.Place(view).Rects))
			require.NoError(t, page.RequestScroll(ctx, "intro"))

			require.Len(t, scroller.offsets, 1)
			assert.Equal(t, tt.want, scroller.offsets[0])
		})
	}
}
