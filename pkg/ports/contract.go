package ports

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractStore is a Store that can be seeded, which the contract needs.
type ContractStore interface {
	Store
	TreeWriter
}

func contractTree() domain.Tree {
	return domain.NewTree(
		&domain.Node{ID: "root", ChildIDs: []string{"a", "b"}},
		&domain.Node{ID: "a", ParentID: "root", Plugin: &domain.Plugin{Name: "text", Body: "hello"}, Size: 6},
		&domain.Node{
			ID:          "b",
			ParentID:    "root",
			IsDraftI18n: map[string]bool{"de": true},
			Plugin:      &domain.Plugin{Name: "text", ChildConstraints: domain.MaxChildren(1)},
		},
	)
}

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store ContractStore) {
	ctx := context.Background()

	t.Run("Replace and Snapshot", func(t *testing.T) {
		require.NoError(t, store.ReplaceTree(ctx, contractTree()))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, snap.ChildrenOf("root"))
		assert.Equal(t, 6, snap.PropsOf("a").Size)
		assert.Equal(t, "hello", snap.PluginOf("a").Body)
		assert.True(t, snap.PropsOf("b").DraftIn("de"))

		max, ok := snap.PluginOf("b").MaxChildren()
		assert.True(t, ok)
		assert.Equal(t, 1, max)
	})

	t.Run("Snapshot Isolation", func(t *testing.T) {
		require.NoError(t, store.ReplaceTree(ctx, contractTree()))

		first, err := store.Snapshot(ctx)
		require.NoError(t, err)
		first.Tree["a"].Size = 1
		first.State.FocusedNodeID = "b"

		second, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, second.PropsOf("a").Size)
		assert.Empty(t, second.State.FocusedNodeID)

		require.NoError(t, store.SetFocus(ctx, "a", false, domain.FocusReasonClick))
		assert.Empty(t, second.State.FocusedNodeID, "earlier snapshots must not change")
	})

	t.Run("Single Focus", func(t *testing.T) {
		require.NoError(t, store.SetFocus(ctx, "a", false, domain.FocusReasonClick))
		require.NoError(t, store.SetFocus(ctx, "b", false, domain.FocusReasonClick))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.True(t, snap.IsFocused("b"))
		assert.False(t, snap.IsFocused("a"))
	})

	t.Run("Edit Mode", func(t *testing.T) {
		if w, ok := store.(StateWriter); ok {
			require.NoError(t, w.SetMode(ctx, domain.ModePreview))
			snap, err := store.Snapshot(ctx)
			require.NoError(t, err)
			assert.True(t, snap.IsPreview())

			require.NoError(t, w.SetLanguage(ctx, "de"))
		}

		require.NoError(t, store.SetEditMode(ctx))
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.True(t, snap.IsEdit())

		if _, ok := store.(StateWriter); ok {
			assert.Equal(t, "de", snap.Language())
		}
	})

	t.Run("Scroll Triggers", func(t *testing.T) {
		req, ok := store.(ScrollRequester)
		if !ok {
			t.Skip("store cannot fire scroll triggers")
		}

		var hitsA, hitsB atomic.Int32
		unsubA := store.RegisterScrollTrigger("a", func() { hitsA.Add(1) })
		unsubB := store.RegisterScrollTrigger("b", func() { hitsB.Add(1) })
		defer unsubB()

		require.NoError(t, req.RequestScroll(ctx, "a"))
		assert.Eventually(t, func() bool { return hitsA.Load() == 1 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, int32(0), hitsB.Load(), "only the requested cell is triggered")

		unsubA()
		require.NoError(t, req.RequestScroll(ctx, "a"))
		require.NoError(t, req.RequestScroll(ctx, "b"))
		assert.Eventually(t, func() bool { return hitsB.Load() == 1 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, int32(1), hitsA.Load(), "unsubscribed trigger must not fire")
	})
}
