package runtime

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// focusFixture renders
//
//	root (0,0 200x200)
//	└── row (container, 0,0 200x100)
//	    ├── b (10,10 80x40), leaf
//	    └── c (100,10 80x80)
//	        └── d (110,20 40x30)
func focusFixture(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	e, store := setup(t,
		cell("root", "", "row"),
		container("row", "root", "b", "c"),
		cell("b", "row"),
		cell("c", "row", "d"),
		cell("d", "c"),
	)
	mustRender(t, e, "root")
	require.NoError(t, e.PlaceAll(context.Background(), map[string]domain.Rect{
		"root": {X: 0, Y: 0, W: 200, H: 200},
		"row":  {X: 0, Y: 0, W: 200, H: 100},
		"b":    {X: 10, Y: 10, W: 80, H: 40},
		"c":    {X: 100, Y: 10, W: 80, H: 80},
		"d":    {X: 110, Y: 20, W: 40, H: 30},
	}))
	return e, store
}

func focused(t *testing.T, store *memory.Store) string {
	t.Helper()
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	return snap.State.FocusedNodeID
}

func TestInteract_OwnSurfaceFocuses(t *testing.T) {
	ctx := context.Background()
	e, store := focusFixture(t)

	d, err := e.Interact(ctx, domain.Interaction{NodeID: "b", Origin: domain.Point{X: 20, Y: 20}})
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, domain.RejectNone, d.Reason)
	assert.Equal(t, "b", focused(t, store))

	snap, _ := store.Snapshot(ctx)
	assert.Equal(t, domain.ModeEdit, snap.Mode())
}

func TestInteract_DescendantSurfaceDoesNotFocus(t *testing.T) {
	ctx := context.Background()
	e, store := focusFixture(t)

	// The click on d bubbles to c and root; both must leave it to d.
	for _, id := range []string{"c", "root"} {
		d, err := e.Interact(ctx, domain.Interaction{NodeID: id, Origin: domain.Point{X: 120, Y: 30}})
		require.NoError(t, err)
		assert.False(t, d.Accepted, id)
		assert.Equal(t, domain.RejectDescendant, d.Reason, id)
		assert.Equal(t, "d", d.Claimant, id)
	}
	assert.Empty(t, focused(t, store))

	d, err := e.Interact(ctx, domain.Interaction{NodeID: "d", Origin: domain.Point{X: 120, Y: 30}})
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, "d", focused(t, store))

	// A pass-through container never claims: the click on the row's bare
	// area belongs to root.
	d, err = e.Interact(ctx, domain.Interaction{NodeID: "root", Origin: domain.Point{X: 95, Y: 95}})
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, "root", focused(t, store))
}

func TestInteract_Rejections(t *testing.T) {
	ctx := context.Background()
	inB := domain.Point{X: 20, Y: 20}

	tests := []struct {
		name    string
		prepare func(t *testing.T, e *Engine, store *memory.Store)
		in      domain.Interaction
		want    domain.RejectReason
	}{
		{
			name: "Unknown Node",
			in:   domain.Interaction{NodeID: "zzz", Origin: inB},
			want: domain.RejectUnknownNode,
		},
		{
			name: "Container Has No Handler",
			in:   domain.Interaction{NodeID: "row", Origin: domain.Point{X: 95, Y: 95}},
			want: domain.RejectNoHandler,
		},
		{
			name:    "Preview",
			prepare: func(t *testing.T, _ *Engine, store *memory.Store) { setMode(t, store, domain.ModePreview) },
			in:      domain.Interaction{NodeID: "b", Origin: inB},
			want:    domain.RejectPreview,
		},
		{
			name:    "Resize",
			prepare: func(t *testing.T, _ *Engine, store *memory.Store) { setMode(t, store, domain.ModeResize) },
			in:      domain.Interaction{NodeID: "b", Origin: inB},
			want:    domain.RejectNotEditing,
		},
		{
			name:    "Layout",
			prepare: func(t *testing.T, _ *Engine, store *memory.Store) { setMode(t, store, domain.ModeLayout) },
			in:      domain.Interaction{NodeID: "b", Origin: inB},
			want:    domain.RejectNotEditing,
		},
		{
			name: "Already Focused",
			prepare: func(t *testing.T, _ *Engine, store *memory.Store) {
				require.NoError(t, store.SetFocus(ctx, "b", false, "test"))
			},
			in:   domain.Interaction{NodeID: "b", Origin: inB},
			want: domain.RejectAlreadyFocused,
		},
		{
			name: "Row Resize Gesture",
			in:   domain.Interaction{NodeID: "b", Origin: inB, Source: domain.SourceRowResize},
			want: domain.RejectResizeGesture,
		},
		{
			name: "Not Placed",
			prepare: func(t *testing.T, e *Engine, _ *memory.Store) {
				require.NoError(t, e.Remount("b"))
				mustRender(t, e, "root")
			},
			in:   domain.Interaction{NodeID: "b", Origin: inB},
			want: domain.RejectNoBoundary,
		},
		{
			name: "Outside Own Surface",
			in:   domain.Interaction{NodeID: "b", Origin: domain.Point{X: 150, Y: 150}},
			want: domain.RejectDescendant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := focusFixture(t)
			if tt.prepare != nil {
				tt.prepare(t, e, store)
			}
			before, _ := store.Snapshot(ctx)

			d, err := e.Interact(ctx, tt.in)
			require.NoError(t, err)
			assert.False(t, d.Accepted)
			assert.Equal(t, tt.want, d.Reason)

			after, _ := store.Snapshot(ctx)
			assert.Equal(t, before.State, after.State, "rejections never touch the state")
		})
	}
}

func TestInteract_FaultedDescendantIsAmbiguous(t *testing.T) {
	ctx := context.Background()
	bad := cell("bad", "root")
	bad.Plugin.Name = "panic"
	e, store := setup(t, cell("root", "", "bad"), bad)
	mustRender(t, e, "root")
	require.NoError(t, e.PlaceAll(ctx, map[string]domain.Rect{
		"root": {W: 100, H: 100},
		"bad":  {X: 10, Y: 10, W: 20, H: 20},
	}))

	d, err := e.Interact(ctx, domain.Interaction{NodeID: "root", Origin: domain.Point{X: 15, Y: 15}})
	require.NoError(t, err)
	assert.False(t, d.Accepted)
	assert.Equal(t, domain.RejectAmbiguous, d.Reason)
	assert.Equal(t, "bad", d.Claimant)
	assert.Empty(t, focused(t, store))

	d, err = e.Interact(ctx, domain.Interaction{NodeID: "bad", Origin: domain.Point{X: 15, Y: 15}})
	require.NoError(t, err)
	assert.Equal(t, domain.RejectNoHandler, d.Reason, "a fallback has no handler")
}

func TestInteract_OverlappingSiblingsTopmostWins(t *testing.T) {
	ctx := context.Background()
	e, _ := setup(t, cell("root", "", "a", "b"), cell("a", "root"), cell("b", "root"))
	mustRender(t, e, "root")
	require.NoError(t, e.PlaceAll(ctx, map[string]domain.Rect{
		"root": {W: 100, H: 100},
		"a":    {X: 0, Y: 0, W: 60, H: 50},
		"b":    {X: 40, Y: 0, W: 60, H: 50},
	}))

	d, err := e.Interact(ctx, domain.Interaction{NodeID: "a", Origin: domain.Point{X: 50, Y: 10}})
	require.NoError(t, err)
	assert.Equal(t, domain.RejectDescendant, d.Reason)
	assert.Equal(t, "b", d.Claimant)
}

func TestInteract_FocusHook(t *testing.T) {
	ctx := context.Background()
	e, _ := focusFixture(t)

	var decisions []domain.FocusDecision
	e.hooks.OnFocus = func(_ context.Context, ev *domain.FocusEvent) { decisions = append(decisions, ev.Decision) }

	_, err := e.Interact(ctx, domain.Interaction{NodeID: "root", Origin: domain.Point{X: 20, Y: 20}})
	require.NoError(t, err)
	_, err = e.Interact(ctx, domain.Interaction{NodeID: "b", Origin: domain.Point{X: 20, Y: 20}})
	require.NoError(t, err)

	require.Len(t, decisions, 2)
	assert.False(t, decisions[0].Accepted)
	assert.True(t, decisions[1].Accepted)
}

func TestInteract_FocusReRendersClasses(t *testing.T) {
	ctx := context.Background()
	e, _ := focusFixture(t)

	_, err := e.Interact(ctx, domain.Interaction{NodeID: "b", Origin: domain.Point{X: 20, Y: 20}})
	require.NoError(t, err)

	v := mustRender(t, e, "root")
	assert.True(t, v.Find("b").HasClass(ClassFocused))
	assert.False(t, v.Find("c").HasClass(ClassFocused))
}
