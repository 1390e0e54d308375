package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// GraphOverlay contains interaction state to visualize on the graph.
type GraphOverlay struct {
	FocusedNode string
}

// GenerateMermaid produces a Mermaid flowchart of a rendered view.
// It applies semantic styling:
// - Cell (has plugin): [Rectangle]
// - Container (pass-through): ([Stadium])
// - Fallback (faulted subtree): {{Hexagon}}
// Suppressed cells are not part of a view and never appear.
// Faulted cells are always styled; the overlay adds the focused cell.
func GenerateMermaid(view *domain.View, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var faulted []string
	var walk func(v *domain.View, parent string, seen map[string]bool)
	walk = func(v *domain.View, parent string, seen map[string]bool) {
		if v == nil || v.Kind == domain.ViewEmpty {
			return
		}
		safeID := sanitizeMermaidID(v.NodeID)
		if seen[v.NodeID] {
			// Transient fallbacks repeat a mounted id; give them their own vertex.
			safeID += "_again"
		}
		seen[v.NodeID] = true

		opener, closer := "[", "]"
		label := v.NodeID
		switch v.Kind {
		case domain.ViewContainer:
			opener, closer = "([", "])"
		case domain.ViewFallback:
			opener, closer = "{{", "}}"
			faulted = append(faulted, safeID)
			if v.Fault != nil {
				label = fmt.Sprintf("%s <br/> ⚠ %s", v.NodeID, strings.ReplaceAll(v.Fault.Message, "\"", "'"))
			}
		}
		if v.Insert {
			label += " <br/> ＋"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if parent != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, safeID))
		}
		for _, c := range v.Children {
			walk(c, safeID, seen)
		}
	}
	walk(view, "", make(map[string]bool))

	if len(faulted) > 0 || (overlay != nil && overlay.FocusedNode != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef faulted fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range faulted {
			sb.WriteString(fmt.Sprintf("    class %s faulted;\n", id))
		}
		if overlay != nil && overlay.FocusedNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s focused;\n", sanitizeMermaidID(overlay.FocusedNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
