package dsl

import "github.com/aretw0/lattice/pkg/domain"

// CellBuilder provides a fluent API for configuring a cell.
type CellBuilder struct {
	node    domain.Node
	builder *Builder
}

// Plugin attaches a content plugin with its payload.
func (c *CellBuilder) Plugin(name, body string) *CellBuilder {
	if c.node.Plugin == nil {
		c.node.Plugin = &domain.Plugin{}
	}
	c.node.Plugin.Name = name
	c.node.Plugin.Body = body
	return c
}

// Style adds a style declaration merged into the cell's inner style.
// It has no effect before Plugin.
func (c *CellBuilder) Style(key, value string) *CellBuilder {
	if c.node.Plugin == nil {
		return c
	}
	if c.node.Plugin.Style == nil {
		c.node.Plugin.Style = make(map[string]string)
	}
	c.node.Plugin.Style[key] = value
	return c
}

// MaxChildren limits the direct children the plugin accepts.
// It has no effect before Plugin.
func (c *CellBuilder) MaxChildren(n int) *CellBuilder {
	if c.node.Plugin != nil {
		c.node.Plugin.ChildConstraints = domain.MaxChildren(n)
	}
	return c
}

// Children appends child cells in rendering order.
func (c *CellBuilder) Children(ids ...string) *CellBuilder {
	c.node.ChildIDs = append(c.node.ChildIDs, ids...)
	return c
}

// Size sets the width in grid units out of 12.
func (c *CellBuilder) Size(units int) *CellBuilder {
	c.node.Size = units
	return c
}

// Inline places the cell next to its neighbour.
func (c *CellBuilder) Inline(side domain.Inline) *CellBuilder {
	c.node.Inline = side
	return c
}

// InlineNeighbour marks the cell as sitting next to an inline cell.
func (c *CellBuilder) InlineNeighbour() *CellBuilder {
	c.node.HasInlineNeighbour = true
	return c
}

// Draft hides the cell in preview.
func (c *CellBuilder) Draft() *CellBuilder {
	c.node.IsDraft = true
	return c
}

// DraftIn overrides the draft flag for one language.
func (c *CellBuilder) DraftIn(lang string, draft bool) *CellBuilder {
	if c.node.IsDraftI18n == nil {
		c.node.IsDraftI18n = make(map[string]bool)
	}
	c.node.IsDraftI18n[lang] = draft
	return c
}

// Add continues with another cell of the same tree.
func (c *CellBuilder) Add(id string) *CellBuilder {
	return c.builder.Add(id)
}
