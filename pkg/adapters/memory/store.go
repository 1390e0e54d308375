package memory

import (
	"context"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/google/uuid"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	tree  domain.Tree
	state domain.InteractionState

	subMu sync.Mutex
	subs  map[string]map[string]func() // nodeID -> subscription id -> callback
}

// NewStore creates a new in-memory store holding a copy of tree.
func NewStore(tree domain.Tree, state domain.InteractionState) *Store {
	if tree == nil {
		tree = domain.Tree{}
	}
	return &Store{
		tree:  tree.Clone(),
		state: state,
		subs:  make(map[string]map[string]func()),
	}
}

// NewFromNodes creates an edit-mode store from domain objects.
// This improves DX for tests.
func NewFromNodes(nodes ...*domain.Node) *Store {
	return NewStore(domain.NewTree(nodes...), domain.NewInteractionState(""))
}

// Snapshot returns a deep copy of the tree and the state.
func (s *Store) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewSnapshot(s.tree, s.state), nil
}

// ReplaceTree swaps the whole tree. The interaction state is kept.
func (s *Store) ReplaceTree(ctx context.Context, tree domain.Tree) error {
	c := tree.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = c
	return nil
}

// SetFocus moves the focus to nodeID.
func (s *Store) SetFocus(ctx context.Context, nodeID string, exclusive bool, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FocusedNodeID = nodeID
	return nil
}

// SetEditMode switches to edit mode.
func (s *Store) SetEditMode(ctx context.Context) error {
	return s.SetMode(ctx, domain.ModeEdit)
}

// SetMode implements ports.StateWriter.
func (s *Store) SetMode(ctx context.Context, mode domain.Mode) error {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = mode
	return nil
}

// SetLanguage implements ports.StateWriter.
func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Language = lang
	return nil
}

// RegisterScrollTrigger subscribes fn to scroll requests for nodeID.
func (s *Store) RegisterScrollTrigger(nodeID string, fn func()) ports.UnsubscribeFunc {
	id := uuid.NewString()

	s.subMu.Lock()
	if s.subs[nodeID] == nil {
		s.subs[nodeID] = make(map[string]func())
	}
	s.subs[nodeID][id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[nodeID], id)
		if len(s.subs[nodeID]) == 0 {
			delete(s.subs, nodeID)
		}
	}
}

// RequestScroll fires the scroll triggers of nodeID synchronously.
func (s *Store) RequestScroll(ctx context.Context, nodeID string) error {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs[nodeID]))
	for _, fn := range s.subs[nodeID] {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	// Callbacks run outside the lock so they may unsubscribe.
	for _, fn := range fns {
		fn()
	}
	return nil
}

// Subscribers returns the number of active scroll subscriptions for nodeID.
func (s *Store) Subscribers(nodeID string) int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs[nodeID])
}
