package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Engine renders a cell tree from a store and resolves the interactions
// routed to the rendered cells.
//
// Render passes, interactions, placement and remounts are serialised. Plugin
// renderers and lifecycle hooks run while the engine is busy and must not
// call back into it.
type Engine struct {
	mu sync.Mutex

	store    ports.Store
	plugins  ports.PluginResolver
	dragDrop ports.DragDrop
	scroller ports.Scroller
	offset   float64
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	boundaries *boundaryTable
	memo       *classMemo
	layout     *Layout
	resolver   *Resolver
	scroll     *Coordinator

	root string
	last *domain.View
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDragDrop sets the collaborator producing drag and drop handles.
func WithDragDrop(dd ports.DragDrop) EngineOption {
	return func(e *Engine) {
		e.dragDrop = dd
	}
}

// WithScroller sets the host scroll container.
func WithScroller(s ports.Scroller) EngineOption {
	return func(e *Engine) {
		e.scroller = s
	}
}

// WithScrollOffset overrides DefaultScrollOffset.
func WithScrollOffset(offset float64) EngineOption {
	return func(e *Engine) {
		e.offset = offset
	}
}

func NewEngine(store ports.Store, plugins ports.PluginResolver, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      store,
		plugins:    plugins,
		offset:     DefaultScrollOffset,
		boundaries: newBoundaryTable(),
		memo:       newClassMemo(),
		layout:     NewLayout(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.dragDrop == nil {
		e.dragDrop = PlainDragDrop{}
	}
	if e.plugins == nil {
		e.plugins = noPlugins{}
	}
	e.resolver = NewResolver(store, e.layout, e.logger)
	e.scroll = NewCoordinator(store, e.scroller, e.layout, e.offset, e.logger)
	e.scroll.onScroll = e.hooks.OnScroll
	return e
}

// Render runs one render pass from rootID over a single store snapshot and
// commits it: cells absent from the result are unmounted, cells rendered for
// the first time are mounted.
//
// Only one tree is mounted at a time; rendering another root unmounts the
// cells of the previous one.
func (e *Engine) Render(ctx context.Context, rootID string) (*domain.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if _, ok := snap.Node(rootID); !ok {
		return nil, fmt.Errorf("%w: root %q", domain.ErrNodeNotFound, rootID)
	}

	pass := newRenderPass(ctx, e, snap)
	view := pass.node(rootID, "", 0)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render of %q aborted: %w", rootID, err)
	}
	e.commit(ctx, pass)

	e.root = rootID
	e.last = view
	return view, nil
}

func (e *Engine) commit(ctx context.Context, pass *renderPass) {
	added, removed := e.boundaries.commit(pass.mounted)
	e.layout.sync(pass.entries)
	e.memo.retain(func(id string) bool {
		_, ok := pass.mounted[id]
		return ok
	})

	e.scroll.unmount(removed)
	e.scroll.mount(added)
	if len(added) > 0 || len(removed) > 0 {
		e.logger.Debug("render committed", "root", pass.root(), "mounted", len(added), "unmounted", len(removed))
	}
	if err := e.scroll.Settle(ctx); err != nil {
		e.logger.Warn("scroll failed", "err", err)
	}
}

// Rerender renders the last rendered root again.
func (e *Engine) Rerender(ctx context.Context) (*domain.View, error) {
	e.mu.Lock()
	root := e.root
	e.mu.Unlock()

	if root == "" {
		return nil, errors.New("nothing rendered yet")
	}
	return e.Render(ctx, root)
}

// Last returns the view of the last committed pass.
func (e *Engine) Last() *domain.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Interact routes a pointer interaction to the focus resolver.
func (e *Engine) Interact(ctx context.Context, in domain.Interaction) (domain.FocusDecision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return domain.FocusDecision{NodeID: in.NodeID}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	decision, err := e.resolver.Resolve(ctx, snap, in)
	if err != nil {
		return decision, err
	}

	if decision.Accepted {
		e.logger.Info("cell focused", "node_id", in.NodeID)
	} else {
		e.logger.Debug("interaction rejected", "node_id", in.NodeID, "reason", decision.Reason, "claimant", decision.Claimant)
	}
	if e.hooks.OnFocus != nil {
		e.hooks.OnFocus(ctx, &domain.FocusEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFocus},
			Decision:  decision,
		})
	}
	return decision, nil
}

// Place records where the host rendered a mounted cell.
func (e *Engine) Place(ctx context.Context, nodeID string, rect domain.Rect) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.layout.Place(nodeID, rect); err != nil {
		return err
	}
	return e.scroll.Settle(ctx)
}

// PlaceAll records a whole layout at once.
func (e *Engine) PlaceAll(ctx context.Context, rects map[string]domain.Rect) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for id, rect := range rects {
		if err := e.layout.Place(id, rect); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.scroll.Settle(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Remount discards the boundaries of nodeID and its mounted descendants.
// The next render pass mounts them afresh, which clears captured faults and
// gives them new generations.
func (e *Engine) Remount(nodeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.layout.Subtree(nodeID)
	if len(ids) == 0 {
		return fmt.Errorf("%w: %q is not mounted", domain.ErrNodeNotFound, nodeID)
	}
	e.boundaries.unmount(ids...)
	e.layout.remove(ids...)
	e.scroll.unmount(ids)
	e.logger.Debug("cells remounted", "node_id", nodeID, "count", len(ids))
	return nil
}

// Fault returns the fault captured by a mounted cell's boundary.
func (e *Engine) Fault(nodeID string) *domain.RenderFault {
	return e.boundaries.fault(nodeID)
}

// Bounds returns the last-known boundary of a mounted cell.
func (e *Engine) Bounds(nodeID string) (Boundary, bool) {
	return e.layout.Get(nodeID)
}

// Mounted reports whether nodeID belongs to the committed tree.
func (e *Engine) Mounted(nodeID string) bool {
	return e.boundaries.isMounted(nodeID)
}

// Scroll exposes the scroll coordinator.
func (e *Engine) Scroll() *Coordinator {
	return e.scroll
}

// ClassStats reports class memo hits and misses.
func (e *Engine) ClassStats() (hits, misses uint64) {
	return e.memo.stats()
}

type noPlugins struct{}

func (noPlugins) Lookup(string) (ports.PluginRenderer, bool) { return nil, false }
