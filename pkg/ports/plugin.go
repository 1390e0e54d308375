package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// PluginProps is what a plugin renderer sees of its cell.
type PluginProps struct {
	NodeID      string
	HasChildren bool
	Plugin      domain.Plugin
	Language    string
	Mode        domain.Mode

	// Children holds the already-rendered child views the plugin embeds.
	Children []*domain.View
}

// PluginRenderer renders the content of a cell. It may fail by returning an
// error or by panicking; both are contained by the cell's fault boundary.
type PluginRenderer interface {
	RenderPlugin(ctx context.Context, props PluginProps) (*domain.Content, error)
}

// PluginRendererFunc adapts a function to PluginRenderer.
type PluginRendererFunc func(ctx context.Context, props PluginProps) (*domain.Content, error)

func (f PluginRendererFunc) RenderPlugin(ctx context.Context, props PluginProps) (*domain.Content, error) {
	return f(ctx, props)
}

// PluginResolver finds the renderer for a plugin name.
type PluginResolver interface {
	Lookup(name string) (PluginRenderer, bool)
}
