package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

// settleDelay lets editors finish writing before the source is read again.
const settleDelay = 100 * time.Millisecond

// Reloader is the part of a page the watch loop drives.
type Reloader interface {
	Watch(ctx context.Context) (<-chan string, error)
	Reload(ctx context.Context) (*domain.View, error)
}

// WatchAndReload reloads the page on every tree source change until ctx is
// done or the watcher stops. Failed reloads are logged and the previous
// tree stays in place. onReload, if set, receives every reloaded view.
func WatchAndReload(ctx context.Context, page Reloader, logger *slog.Logger, onReload func(*domain.View)) error {
	events, err := page.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, triggering reload", "event", event)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}
			drain(events)

			view, err := page.Reload(ctx)
			if err != nil {
				logger.Error("Reload failed", "err", err)
				continue
			}
			if onReload != nil {
				onReload(view)
			}
		}
	}
}

// drain drops events queued while waiting, they are covered by one reload.
func drain(events <-chan string) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
