package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/charmbracelet/glamour"
)

// MarkdownOption configures the markdown plugin.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	style    string
	wordWrap int
}

// WithStyle selects a glamour standard style ("dark", "light", "notty", ...).
// The default detects the terminal background.
func WithStyle(style string) MarkdownOption {
	return func(c *markdownConfig) {
		c.style = style
	}
}

// WithWordWrap sets the wrap width. Zero keeps glamour's default.
func WithWordWrap(width int) MarkdownOption {
	return func(c *markdownConfig) {
		c.wordWrap = width
	}
}

type markdownRenderer struct {
	r *glamour.TermRenderer
}

// Markdown renders the plugin body as markdown for terminals. When the
// renderer cannot be built every render fails, which the fault boundary of
// the cell turns into a fallback.
func Markdown(opts ...MarkdownOption) ports.PluginRenderer {
	cfg := markdownConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	glamourOpts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if cfg.style != "" {
		glamourOpts = []glamour.TermRendererOption{glamour.WithStandardStyle(cfg.style)}
	}
	if cfg.wordWrap > 0 {
		glamourOpts = append(glamourOpts, glamour.WithWordWrap(cfg.wordWrap))
	}

	r, err := glamour.NewTermRenderer(glamourOpts...)
	if err != nil {
		return ports.PluginRendererFunc(func(context.Context, ports.PluginProps) (*domain.Content, error) {
			return nil, fmt.Errorf("markdown renderer unavailable: %w", err)
		})
	}
	return &markdownRenderer{r: r}
}

func (m *markdownRenderer) RenderPlugin(_ context.Context, props ports.PluginProps) (*domain.Content, error) {
	out, err := m.r.Render(props.Plugin.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown for %s: %w", props.NodeID, err)
	}
	return &domain.Content{Format: FormatANSI, Body: strings.TrimRight(out, "\n")}, nil
}
