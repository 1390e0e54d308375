package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/config"
	latticeRedis "github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/domain"
)

// Session is an opened page plus what has to be released with it.
type Session struct {
	Page   *lattice.Page
	closer io.Closer
}

// Close releases the shared store connection, if any.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenPage opens the configured page with standard CLI conventions: an
// in-memory store by default, or a Redis store guarded by a Redis lock when
// cfg.Redis.Addr is set.
func OpenPage(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*Session, error) {
	opts := []lattice.Option{
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(hooks),
		lattice.WithScrollOffset(cfg.ScrollOffset),
	}
	if cfg.Root != "" {
		opts = append(opts, lattice.WithRoot(cfg.Root))
	}
	if m := cfg.InitialMode(); m != "" {
		opts = append(opts, lattice.WithMode(m))
	}
	if cfg.Language != "" {
		opts = append(opts, lattice.WithLanguage(cfg.Language))
	}

	session := &Session{}
	if cfg.Redis.Addr != "" {
		store := latticeRedis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			latticeRedis.WithPrefix(cfg.Redis.Prefix),
			latticeRedis.WithTTL(cfg.Redis.TTL),
			latticeRedis.WithLogger(logger),
		)
		session.closer = store
		opts = append(opts,
			lattice.WithStore(store),
			lattice.WithLocker(latticeRedis.NewLocker(store.Client(), cfg.Redis.Prefix), cfg.Redis.LockTTL),
		)
		logger.Info("Using Redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	page, err := lattice.New(cfg.Source, opts...)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("error initializing page: %w", err)
	}
	session.Page = page
	return session, nil
}
