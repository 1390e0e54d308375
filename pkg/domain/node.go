package domain

// DefaultSize is the grid width used when a node does not declare one.
const DefaultSize = 12

// Inline positions a cell next to its neighbour instead of on its own row.
type Inline string

const (
	InlineNone  Inline = ""
	InlineLeft  Inline = "left"
	InlineRight Inline = "right"
)

// ChildConstraints limits the direct children a plugin accepts.
type ChildConstraints struct {
	// MaxChildren is nil when the plugin accepts any number of children.
	MaxChildren *int `json:"maxChildren,omitempty" yaml:"max_children,omitempty" mapstructure:"max_children"`
}

// Plugin describes the content plugin attached to a cell.
type Plugin struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Body is the plugin payload (e.g. markdown source for the markdown plugin).
	Body string `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`

	// Style is merged into the inner cell style, like a plugin-declared cellStyle.
	Style map[string]string `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`

	ChildConstraints *ChildConstraints `json:"childConstraints,omitempty" yaml:"child_constraints,omitempty" mapstructure:"child_constraints"`
}

// MaxChildren returns the declared child limit, if any.
func (p *Plugin) MaxChildren() (int, bool) {
	if p == nil || p.ChildConstraints == nil || p.ChildConstraints.MaxChildren == nil {
		return 0, false
	}
	return *p.ChildConstraints.MaxChildren, true
}

// Node is a single cell of the page tree.
type Node struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	ParentID string   `json:"parentId,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`
	ChildIDs []string `json:"childIds,omitempty" yaml:"children,omitempty" mapstructure:"children"`

	// Size is the relative width in grid units (out of 12). Zero means full width.
	Size int `json:"size,omitempty" yaml:"size,omitempty" mapstructure:"size"`

	Inline             Inline `json:"inline,omitempty" yaml:"inline,omitempty" mapstructure:"inline"`
	HasInlineNeighbour bool   `json:"hasInlineNeighbour,omitempty" yaml:"has_inline_neighbour,omitempty" mapstructure:"has_inline_neighbour"`

	IsDraft bool `json:"isDraft,omitempty" yaml:"draft,omitempty" mapstructure:"draft"`
	// IsDraftI18n overrides IsDraft for the languages it lists.
	IsDraftI18n map[string]bool `json:"isDraftI18n,omitempty" yaml:"draft_i18n,omitempty" mapstructure:"draft_i18n"`

	Plugin *Plugin `json:"plugin,omitempty" yaml:"plugin,omitempty" mapstructure:"plugin"`
}

// Props is the subset of node properties that drives cell classification.
type Props struct {
	Inline             Inline
	HasInlineNeighbour bool
	IsDraft            bool
	IsDraftI18n        map[string]bool
	Size               int
}

// Props extracts the classification properties of the node.
func (n *Node) Props() Props {
	return Props{
		Inline:             n.Inline,
		HasInlineNeighbour: n.HasInlineNeighbour,
		IsDraft:            n.IsDraft,
		IsDraftI18n:        n.IsDraftI18n,
		Size:               n.Size,
	}
}

// DraftIn resolves the draft flag for a language.
// A per-language entry wins over the global flag, whatever its value.
func (p Props) DraftIn(lang string) bool {
	if v, ok := p.IsDraftI18n[lang]; ok {
		return v
	}
	return p.IsDraft
}

// GridSize returns Size, defaulting to DefaultSize.
func (p Props) GridSize() int {
	if p.Size <= 0 {
		return DefaultSize
	}
	return p.Size
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.ChildIDs != nil {
		c.ChildIDs = append([]string(nil), n.ChildIDs...)
	}
	if n.IsDraftI18n != nil {
		c.IsDraftI18n = make(map[string]bool, len(n.IsDraftI18n))
		for k, v := range n.IsDraftI18n {
			c.IsDraftI18n[k] = v
		}
	}
	if n.Plugin != nil {
		p := *n.Plugin
		if n.Plugin.Style != nil {
			p.Style = make(map[string]string, len(n.Plugin.Style))
			for k, v := range n.Plugin.Style {
				p.Style[k] = v
			}
		}
		if n.Plugin.ChildConstraints != nil {
			cc := *n.Plugin.ChildConstraints
			if cc.MaxChildren != nil {
				max := *cc.MaxChildren
				cc.MaxChildren = &max
			}
			p.ChildConstraints = &cc
		}
		c.Plugin = &p
	}
	return &c
}

// MaxChildren is a helper for building constraints in code and tests.
func MaxChildren(n int) *ChildConstraints {
	return &ChildConstraints{MaxChildren: &n}
}
