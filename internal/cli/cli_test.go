package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `
root: page
cells:
  - id: page
    children: [intro]
  - id: intro
    plugin: {name: text, body: Hello}
`

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))
	return path
}

func TestOpenPage_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Source = writeSource(t)
	cfg.Mode = "preview"

	session, err := OpenPage(cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	defer session.Close()

	snap, err := session.Page.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModePreview, snap.Mode())
}

func TestOpenPage_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Source = writeSource(t)
	cfg.Redis.Addr = mr.Addr()

	session, err := OpenPage(cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	defer session.Close()

	assert.True(t, mr.Exists("lattice:page:tree"), "the tree is seeded into redis")
	assert.False(t, mr.Exists("lattice:page:lock:reload:page.yaml"), "the reload lock is released")

	view, err := session.Page.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello", view.Find("intro").Content.Body)
}

func TestOpenPage_BadSource(t *testing.T) {
	cfg := config.Default()
	cfg.Source = filepath.Join(t.TempDir(), "nothing.yaml")

	_, err := OpenPage(cfg, logging.NewNop(), domain.LifecycleHooks{})
	assert.Error(t, err)
}

type fakeReloader struct {
	events  chan string
	reloads int
	fail    bool
}

func (f *fakeReloader) Watch(ctx context.Context) (<-chan string, error) {
	return f.events, nil
}

func (f *fakeReloader) Reload(ctx context.Context) (*domain.View, error) {
	f.reloads++
	if f.fail {
		return nil, errors.New("broken file")
	}
	return &domain.View{NodeID: "page"}, nil
}

func TestWatchAndReload(t *testing.T) {
	f := &fakeReloader{events: make(chan string, 4)}
	f.events <- "page.yaml"
	f.events <- "page.yaml"
	close(f.events)

	var views []*domain.View
	err := WatchAndReload(context.Background(), f, logging.NewNop(), func(v *domain.View) {
		views = append(views, v)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.reloads, "queued events collapse into one reload")
	assert.Len(t, views, 1)
}

func TestWatchAndReload_KeepsGoingOnFailure(t *testing.T) {
	f := &fakeReloader{events: make(chan string), fail: true}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- WatchAndReload(ctx, f, logging.NewNop(), nil)
	}()

	f.events <- "page.yaml"
	time.Sleep(2 * settleDelay)
	f.events <- "page.yaml"
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch loop did not stop")
	}
}
