package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// UnsubscribeFunc removes a previously registered callback.
type UnsubscribeFunc func()

// TreeReader provides consistent reads of the tree and the interaction state.
type TreeReader interface {
	// Snapshot returns a copy of the tree and state as of one instant.
	// Callers may keep and read it freely; later commands do not alter it.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// Commander accepts the commands the interaction core issues.
type Commander interface {
	// SetFocus moves the focus to nodeID. Exclusive focus requests replace any
	// multi-selection the host keeps; the core always sends exclusive=false.
	SetFocus(ctx context.Context, nodeID string, exclusive bool, reason string) error

	// SetEditMode switches the editor to domain.ModeEdit.
	SetEditMode(ctx context.Context) error
}

// ScrollTriggers lets a cell subscribe to "scroll me into view" requests.
type ScrollTriggers interface {
	RegisterScrollTrigger(nodeID string, fn func()) UnsubscribeFunc
}

// Store is everything the rendering core needs from the tree owner.
type Store interface {
	TreeReader
	Commander
	ScrollTriggers
}

// StateWriter is implemented by stores that let hosts (drag/drop, toolbars)
// change the interaction state directly.
type StateWriter interface {
	SetMode(ctx context.Context, mode domain.Mode) error
	SetLanguage(ctx context.Context, lang string) error
}

// ScrollRequester is implemented by stores that can fire scroll triggers.
type ScrollRequester interface {
	RequestScroll(ctx context.Context, nodeID string) error
}

// TreeWriter is implemented by stores that can be seeded with a whole tree.
type TreeWriter interface {
	ReplaceTree(ctx context.Context, tree domain.Tree) error
}
