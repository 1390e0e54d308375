package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/require"
)

type pluginMap map[string]ports.PluginRenderer

func (m pluginMap) Lookup(name string) (ports.PluginRenderer, bool) {
	r, ok := m[name]
	return r, ok
}

var errBoom = errors.New("boom")

// testPlugins renders "text" bodies verbatim, panics for "panic" and
// fails for "broken".
func testPlugins() pluginMap {
	return pluginMap{
		"text": ports.PluginRendererFunc(func(_ context.Context, props ports.PluginProps) (*domain.Content, error) {
			return &domain.Content{Format: "text", Body: props.Plugin.Body}, nil
		}),
		"panic": ports.PluginRendererFunc(func(context.Context, ports.PluginProps) (*domain.Content, error) {
			panic("plugin exploded")
		}),
		"broken": ports.PluginRendererFunc(func(context.Context, ports.PluginProps) (*domain.Content, error) {
			return nil, errBoom
		}),
	}
}

func cell(id, parent string, children ...string) *domain.Node {
	return &domain.Node{
		ID:       id,
		ParentID: parent,
		ChildIDs: children,
		Plugin:   &domain.Plugin{Name: "text", Body: id},
	}
}

func container(id, parent string, children ...string) *domain.Node {
	return &domain.Node{ID: id, ParentID: parent, ChildIDs: children}
}

type recordedScroll struct {
	NodeID string
	Bounds domain.Rect
	Offset float64
}

type recordingScroller struct {
	mu    sync.Mutex
	calls []recordedScroll
}

func (s *recordingScroller) ScrollIntoView(_ context.Context, nodeID string, bounds domain.Rect, offset float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, recordedScroll{NodeID: nodeID, Bounds: bounds, Offset: offset})
	return nil
}

func (s *recordingScroller) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func setup(t *testing.T, nodes ...*domain.Node) (*Engine, *memory.Store) {
	t.Helper()
	store := memory.NewFromNodes(nodes...)
	return NewEngine(store, testPlugins()), store
}

func mustRender(t *testing.T, e *Engine, root string) *domain.View {
	t.Helper()
	v, err := e.Render(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func setMode(t *testing.T, store *memory.Store, mode domain.Mode) {
	t.Helper()
	require.NoError(t, store.SetMode(context.Background(), mode))
}
