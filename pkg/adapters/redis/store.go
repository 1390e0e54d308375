package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

const (
	fieldMode     = "mode"
	fieldFocus    = "focus"
	fieldLanguage = "language"
)

// Store implements ports.Store using Redis, so that several hosts can share
// one page. The tree lives in a hash (node id -> JSON node), the interaction
// state in another, and scroll requests travel over pub/sub.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger

	subMu  sync.Mutex
	subs   map[string]map[string]func()
	pubsub *backend.PubSub
}

type Option func(*Store)

// WithTTL sets the expiration of the page keys, refreshed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix of the page.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger used by the scroll subscription.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "lattice:page:",
		ttl:    0, // No expiration by default
		subs:   make(map[string]map[string]func()),
	}

	for _, opt := range opts {
		opt(store)
	}
	if store.logger == nil {
		store.logger = slog.New(slog.DiscardHandler)
	}

	return store
}

// Client returns the underlying Redis client.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) treeKey() string  { return s.prefix + "tree" }
func (s *Store) stateKey() string { return s.prefix + "state" }
func (s *Store) scrollChannel() string {
	return s.prefix + "scroll"
}

// Snapshot reads the tree and the state in one MULTI transaction.
func (s *Store) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	var treeCmd, stateCmd *backend.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		treeCmd = pipe.HGetAll(ctx, s.treeKey())
		stateCmd = pipe.HGetAll(ctx, s.stateKey())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read page from redis: %w", err)
	}

	tree := make(domain.Tree, len(treeCmd.Val()))
	for id, raw := range treeCmd.Val() {
		var n domain.Node
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal node %s: %w", id, err)
		}
		tree[id] = &n
	}

	fields := stateCmd.Val()
	state := domain.NewInteractionState(fields[fieldLanguage])
	if m, ok := fields[fieldMode]; ok {
		mode, err := domain.ParseMode(m)
		if err != nil {
			return nil, err
		}
		state.Mode = mode
	}
	state.FocusedNodeID = fields[fieldFocus]

	return &domain.Snapshot{Tree: tree, State: state}, nil
}

// ReplaceTree swaps the whole tree atomically. The interaction state is kept.
func (s *Store) ReplaceTree(ctx context.Context, tree domain.Tree) error {
	values := make(map[string]any, len(tree))
	for id, n := range tree {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to marshal node %s: %w", id, err)
		}
		values[id] = data
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.treeKey())
		if len(values) > 0 {
			pipe.HSet(ctx, s.treeKey(), values)
		}
		s.expire(ctx, pipe, s.treeKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save tree to redis: %w", err)
	}
	return nil
}

func (s *Store) setState(ctx context.Context, field, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.stateKey(), field, value)
		s.expire(ctx, pipe, s.stateKey())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save %s to redis: %w", field, err)
	}
	return nil
}

func (s *Store) expire(ctx context.Context, pipe backend.Pipeliner, key string) {
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}

func (s *Store) SetFocus(ctx context.Context, nodeID string, exclusive bool, reason string) error {
	return s.setState(ctx, fieldFocus, nodeID)
}

func (s *Store) SetEditMode(ctx context.Context) error {
	return s.setState(ctx, fieldMode, string(domain.ModeEdit))
}

// SetMode implements ports.StateWriter.
func (s *Store) SetMode(ctx context.Context, mode domain.Mode) error {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return err
	}
	return s.setState(ctx, fieldMode, string(mode))
}

// SetLanguage implements ports.StateWriter.
func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	return s.setState(ctx, fieldLanguage, lang)
}

// RegisterScrollTrigger subscribes fn to scroll requests for nodeID published
// by any host sharing the page.
func (s *Store) RegisterScrollTrigger(nodeID string, fn func()) ports.UnsubscribeFunc {
	id := uuid.NewString()

	s.subMu.Lock()
	if s.pubsub == nil {
		s.listen()
	}
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

// listen starts the scroll subscription. Caller holds subMu.
func (s *Store) listen() {
	ctx := context.Background()
	s.pubsub = s.client.Subscribe(ctx, s.scrollChannel())

	// Wait for the confirmation so that requests published right after the
	// first registration are not lost.
	if _, err := s.pubsub.Receive(ctx); err != nil {
		s.logger.Warn("scroll subscription failed", "err", err)
	}

	ch := s.pubsub.Channel()
	go func() {
		for msg := range ch {
			s.dispatch(msg.Payload)
		}
	}()
}

func (s *Store) dispatch(nodeID string) {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs[nodeID]))
	for _, fn := range s.subs[nodeID] {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// RequestScroll implements ports.ScrollRequester.
func (s *Store) RequestScroll(ctx context.Context, nodeID string) error {
	if err := s.client.Publish(ctx, s.scrollChannel(), nodeID).Err(); err != nil {
		return fmt.Errorf("failed to publish scroll request: %w", err)
	}
	return nil
}

// Close closes the subscription and the redis client.
func (s *Store) Close() error {
	s.subMu.Lock()
	ps := s.pubsub
	s.pubsub = nil
	s.subMu.Unlock()

	if ps != nil {
		_ = ps.Close()
	}
	return s.client.Close()
}
