package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// TreeLoader defines how a page's cell tree is read from its source.
// This allows the storage layer (Loam, YAML files, memory) to be decoupled.
type TreeLoader interface {
	LoadTree(ctx context.Context) (domain.Tree, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed source.
	Watch(ctx context.Context) (<-chan string, error)
}
