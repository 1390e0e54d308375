package loam

// CellMetadata is the frontmatter of a cell document. The document body is
// the plugin payload.
//
//	---
//	plugin: markdown
//	parent: page
//	size: 6
//	draft_i18n: {de: true}
//	---
//	# Hello
type CellMetadata struct {
	ID                 string          `json:"id" mapstructure:"id"`
	Parent             string          `json:"parent" mapstructure:"parent"`
	Children           []string        `json:"children" mapstructure:"children"`
	Size               int             `json:"size" mapstructure:"size"`
	Inline             string          `json:"inline" mapstructure:"inline"`
	HasInlineNeighbour bool            `json:"has_inline_neighbour" mapstructure:"has_inline_neighbour"`
	Draft              bool            `json:"draft" mapstructure:"draft"`
	DraftI18n          map[string]bool `json:"draft_i18n" mapstructure:"draft_i18n"`

	// Plugin names the content plugin. Cells without one are plain containers.
	Plugin      string            `json:"plugin" mapstructure:"plugin"`
	MaxChildren *int              `json:"max_children,omitempty" mapstructure:"max_children"`
	Style       map[string]string `json:"style" mapstructure:"style"`
}
