package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	view := &domain.View{
		NodeID: "page", Kind: domain.ViewCell, Insert: true,
		Children: []*domain.View{
			{NodeID: "row-1", Kind: domain.ViewContainer, Children: []*domain.View{
				{NodeID: "intro.md", Kind: domain.ViewCell},
				{NodeID: "bad", Kind: domain.ViewFallback, Fault: &domain.RenderFault{NodeID: "bad", Message: `said "no"`}},
			}},
		},
	}

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes And Edges",
			contains: []string{
				"graph TD\n",
				"page[\"page <br/> ＋\"]",
				"row_1([\"row-1\"])",
				"intro_md[\"intro.md\"]",
				"bad{{\"bad <br/> ⚠ said 'no'\"}}",
				"page --> row_1",
				"row_1 --> intro_md",
				"row_1 --> bad",
				"class bad faulted;",
			},
			excludes: []string{"class page focused;"},
		},
		{
			name:     "Focus Overlay",
			overlay:  &graph.GraphOverlay{FocusedNode: "intro.md"},
			contains: []string{"class intro_md focused;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(view, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\nGot:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("expected output not to contain %q", bad)
				}
			}
		})
	}
}

func TestGenerateMermaid_DuplicateIDs(t *testing.T) {
	view := &domain.View{NodeID: "a", Kind: domain.ViewCell, Children: []*domain.View{
		{NodeID: "b", Kind: domain.ViewCell, Children: []*domain.View{
			{NodeID: "a", Kind: domain.ViewFallback},
		}},
	}}
	got := graph.GenerateMermaid(view, nil)
	if !strings.Contains(got, "b --> a_again") {
		t.Errorf("expected the repeated id to get its own vertex\nGot:\n%s", got)
	}
}

func TestGenerateMermaid_Empty(t *testing.T) {
	got := graph.GenerateMermaid(&domain.View{NodeID: "x", Kind: domain.ViewEmpty}, nil)
	if got != "graph TD\n" {
		t.Errorf("unexpected output %q", got)
	}
}
