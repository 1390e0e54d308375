package lattice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/adapters/file"
	loamAdapter "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/plugins"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/loam"
)

const defaultLockTTL = 10 * time.Second

// Page is the high-level entry point of the library. It binds a tree source,
// a store and the rendering engine for one page.
type Page struct {
	Name string

	runtime  *runtime.Engine
	store    ports.Store
	loader   ports.TreeLoader
	locker   ports.DistributedLocker
	plugins  ports.PluginResolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	scroller ports.Scroller
	dragDrop ports.DragDrop

	rootID   string
	mode     domain.Mode
	language string
	offset   *float64
	lockTTL  time.Duration
}

// Option defines a functional option for configuring the Page.
type Option func(*Page)

// WithStore uses store instead of an in-memory store seeded from the loader.
// When both a store and a tree source are given, the store is seeded if it
// implements ports.TreeWriter.
func WithStore(store ports.Store) Option {
	return func(p *Page) {
		p.store = store
	}
}

// WithLoader injects a custom TreeLoader, bypassing path detection.
func WithLoader(l ports.TreeLoader) Option {
	return func(p *Page) {
		p.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Page) {
		p.hooks = hooks
	}
}

// WithPlugins sets the plugin registry. Defaults to plugins.NewDefaultRegistry.
func WithPlugins(r ports.PluginResolver) Option {
	return func(p *Page) {
		p.plugins = r
	}
}

// WithLocker serializes tree reloads across processes sharing a store.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(p *Page) {
		p.locker = l
		if ttl > 0 {
			p.lockTTL = ttl
		}
	}
}

// WithScroller sets the host scroller used by the scroll coordinator.
func WithScroller(s ports.Scroller) Option {
	return func(p *Page) {
		p.scroller = s
	}
}

// WithDragDrop sets the drag and drop collaborator.
func WithDragDrop(dd ports.DragDrop) Option {
	return func(p *Page) {
		p.dragDrop = dd
	}
}

// WithRoot sets the node a render pass starts from.
func WithRoot(nodeID string) Option {
	return func(p *Page) {
		p.rootID = nodeID
	}
}

// WithMode sets the initial mode of an in-memory store.
func WithMode(mode domain.Mode) Option {
	return func(p *Page) {
		p.mode = mode
	}
}

// WithLanguage sets the initial language of an in-memory store.
func WithLanguage(lang string) Option {
	return func(p *Page) {
		p.language = lang
	}
}

// WithScrollOffset sets the distance kept between a scrolled cell and the edge.
// Zero is a valid offset; without this option runtime.DefaultScrollOffset applies.
func WithScrollOffset(offset float64) Option {
	return func(p *Page) {
		p.offset = &offset
	}
}

// New opens the page at path. A directory is read as a Loam repository with
// one document per cell; a file is read as a YAML or JSON page.
// If WithLoader or WithStore is provided, path may be empty.
func New(path string, opts ...Option) (*Page, error) {
	p := &Page{lockTTL: defaultLockTTL}
	for _, opt := range opts {
		opt(p)
	}

	if p.loader == nil && path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		p.Name = filepath.Base(absPath)

		loader, err := openLoader(absPath)
		if err != nil {
			return nil, err
		}
		p.loader = loader
	} else if path != "" {
		p.Name = filepath.Base(path)
	}
	if p.loader == nil && p.store == nil {
		return nil, fmt.Errorf("path is required when no custom loader or store is provided")
	}

	if p.logger == nil {
		p.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if p.Name != "" {
		p.logger = p.logger.With("page", p.Name)
	}
	if p.plugins == nil {
		p.plugins = plugins.NewDefaultRegistry()
	}

	ctx := context.Background()
	if err := p.open(ctx); err != nil {
		return nil, err
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
	}
	if p.scroller != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithScroller(p.scroller))
	}
	if p.dragDrop != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithDragDrop(p.dragDrop))
	}
	if p.offset != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithScrollOffset(*p.offset))
	}
	p.runtime = runtime.NewEngine(p.store, p.plugins, runtimeOpts...)

	return p, nil
}

func openLoader(absPath string) (ports.TreeLoader, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if !info.IsDir() {
		return file.New(absPath), nil
	}

	// The engine never writes cells, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return loamAdapter.New(loam.NewTypedRepository[loamAdapter.CellMetadata](repo)), nil
}

// open loads the tree and prepares the store.
func (p *Page) open(ctx context.Context) error {
	if p.loader == nil {
		if p.rootID == "" {
			snap, err := p.store.Snapshot(ctx)
			if err != nil {
				return err
			}
			return p.pickRoot(snap.Tree)
		}
		return nil
	}

	// Page files carry their own root, mode and language defaults.
	if fl, ok := p.loader.(*file.Loader); ok {
		page, err := fl.Load(ctx)
		if err != nil {
			return err
		}
		if p.rootID == "" {
			p.rootID = page.Root
		}
		if p.mode == "" && page.Mode != "" {
			mode, err := domain.ParseMode(page.Mode)
			if err != nil {
				return err
			}
			p.mode = mode
		}
		if p.language == "" {
			p.language = page.Language
		}
	}

	tree, err := p.loadTree(ctx)
	if err != nil {
		return err
	}
	if p.rootID == "" {
		if err := p.pickRoot(tree); err != nil {
			return err
		}
	}
	if _, ok := tree[p.rootID]; !ok {
		return fmt.Errorf("root %q: %w", p.rootID, domain.ErrNodeNotFound)
	}

	if p.store == nil {
		state := domain.NewInteractionState(p.language)
		if p.mode != "" {
			state.Mode = p.mode
		}
		p.store = memory.NewStore(tree, state)
		return nil
	}
	return p.replaceTree(ctx, tree)
}

func (p *Page) pickRoot(tree domain.Tree) error {
	roots := tree.Roots()
	if len(roots) != 1 {
		return fmt.Errorf("page has %d root candidates, set one with WithRoot", len(roots))
	}
	p.rootID = roots[0]
	return nil
}

func (p *Page) loadTree(ctx context.Context) (domain.Tree, error) {
	tree, err := p.loader.LoadTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	return tree, nil
}

// replaceTree seeds a writable store, holding the distributed lock if any.
func (p *Page) replaceTree(ctx context.Context, tree domain.Tree) error {
	w, ok := p.store.(ports.TreeWriter)
	if !ok {
		return nil
	}
	if p.locker != nil {
		unlock, err := p.locker.Lock(ctx, "reload:"+p.Name, p.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire reload lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				p.logger.Warn("failed to release reload lock", "err", err)
			}
		}()
	}
	return w.ReplaceTree(ctx, tree)
}

// Root returns the id render passes start from.
func (p *Page) Root() string {
	return p.rootID
}

// Store returns the store backing the page.
func (p *Page) Store() ports.Store {
	return p.store
}

// Plugins returns the plugin registry.
func (p *Page) Plugins() ports.PluginResolver {
	return p.plugins
}

// Render runs a render pass from the page root.
func (p *Page) Render(ctx context.Context) (*domain.View, error) {
	return p.runtime.Render(ctx, p.rootID)
}

// Last returns the view of the latest render pass.
func (p *Page) Last() *domain.View {
	return p.runtime.Last()
}

// Snapshot returns the current tree and interaction state.
func (p *Page) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return p.store.Snapshot(ctx)
}

// Interact delivers a pointer interaction to the focus resolver and renders
// again when the focus changed.
func (p *Page) Interact(ctx context.Context, in domain.Interaction) (domain.FocusDecision, error) {
	decision, err := p.runtime.Interact(ctx, in)
	if err != nil || !decision.Accepted {
		return decision, err
	}
	if _, err := p.runtime.Rerender(ctx); err != nil {
		return decision, err
	}
	return decision, nil
}

// Place records on-screen rectangles for mounted cells. A pending scroll
// request runs as soon as its target is placed.
func (p *Page) Place(ctx context.Context, rects map[string]domain.Rect) error {
	return p.runtime.PlaceAll(ctx, rects)
}

// Bounds returns the placement record of a mounted cell.
func (p *Page) Bounds(nodeID string) (runtime.Boundary, bool) {
	return p.runtime.Bounds(nodeID)
}

// SetMode switches the editor mode and renders again.
func (p *Page) SetMode(ctx context.Context, mode domain.Mode) (*domain.View, error) {
	w, ok := p.store.(ports.StateWriter)
	if !ok {
		return nil, fmt.Errorf("store does not accept mode changes")
	}
	if err := w.SetMode(ctx, mode); err != nil {
		return nil, err
	}
	return p.Render(ctx)
}

// SetLanguage switches the active language and renders again.
func (p *Page) SetLanguage(ctx context.Context, lang string) (*domain.View, error) {
	w, ok := p.store.(ports.StateWriter)
	if !ok {
		return nil, fmt.Errorf("store does not accept language changes")
	}
	if err := w.SetLanguage(ctx, lang); err != nil {
		return nil, err
	}
	return p.Render(ctx)
}

// RequestScroll fires the scroll trigger of nodeID.
func (p *Page) RequestScroll(ctx context.Context, nodeID string) error {
	r, ok := p.store.(ports.ScrollRequester)
	if !ok {
		return fmt.Errorf("store does not support scroll requests")
	}
	if err := r.RequestScroll(ctx, nodeID); err != nil {
		return err
	}
	return p.runtime.Scroll().Settle(ctx)
}

// Remount discards the boundary of nodeID and its subtree, clearing faults,
// and renders again.
func (p *Page) Remount(ctx context.Context, nodeID string) (*domain.View, error) {
	if err := p.runtime.Remount(nodeID); err != nil {
		return nil, err
	}
	return p.Render(ctx)
}

// Fault returns the fault held by the boundary of nodeID, if any.
func (p *Page) Fault(nodeID string) *domain.RenderFault {
	return p.runtime.Fault(nodeID)
}

// Reload reads the tree source again, replaces the store's tree and renders.
func (p *Page) Reload(ctx context.Context) (*domain.View, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("page has no tree source to reload")
	}
	tree, err := p.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := p.store.(ports.TreeWriter); !ok {
		return nil, fmt.Errorf("store does not accept tree replacement")
	}
	if err := p.replaceTree(ctx, tree); err != nil {
		return nil, err
	}
	p.logger.Info("tree reloaded", "cells", len(tree))
	return p.Render(ctx)
}

// Watch returns a channel that signals when the tree source changes.
// Returns error if the loader does not support watching.
func (p *Page) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := p.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}
