package plugins

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{MarkdownName, TextName}, r.Names())

	_, ok := r.Lookup("video")
	assert.False(t, ok)

	custom := ports.PluginRendererFunc(func(context.Context, ports.PluginProps) (*domain.Content, error) {
		return &domain.Content{Body: "custom"}, nil
	})
	r.Register(TextName, custom)
	got, ok := r.Lookup(TextName)
	require.True(t, ok)

	c, err := got.RenderPlugin(context.Background(), ports.PluginProps{})
	require.NoError(t, err)
	assert.Equal(t, "custom", c.Body)
}

func TestText(t *testing.T) {
	c, err := Text().RenderPlugin(context.Background(), ports.PluginProps{
		NodeID: "a",
		Plugin: domain.Plugin{Name: TextName, Body: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, &domain.Content{Format: FormatText, Body: "hello"}, c)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(WithStyle("notty"), WithWordWrap(60))

	c, err := md.RenderPlugin(context.Background(), ports.PluginProps{
		NodeID: "intro",
		Plugin: domain.Plugin{Name: MarkdownName, Body: "# Welcome\n\nSome **bold** words."},
	})
	require.NoError(t, err)
	assert.Equal(t, FormatANSI, c.Format)
	assert.Contains(t, c.Body, "Welcome")
	assert.Contains(t, c.Body, "bold")
}

func TestMarkdown_UnknownStyleFailsEveryRender(t *testing.T) {
	md := Markdown(WithStyle("no-such-style"))
	_, err := md.RenderPlugin(context.Background(), ports.PluginProps{NodeID: "x"})
	assert.Error(t, err)
}
