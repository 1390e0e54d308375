package plugins

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

const (
	TextName     = "text"
	FormatText   = "text"
	FormatANSI   = "ansi"
	MarkdownName = "markdown"
)

// Text returns the plugin body unchanged.
func Text() ports.PluginRenderer {
	return ports.PluginRendererFunc(func(_ context.Context, props ports.PluginProps) (*domain.Content, error) {
		return &domain.Content{Format: FormatText, Body: props.Plugin.Body}, nil
	})
}
