package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
)

// Builder manages the tree construction.
type Builder struct {
	cells map[string]*CellBuilder
	order []string
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{
		cells: make(map[string]*CellBuilder),
	}
}

// Add creates a new cell in the tree.
// If the cell already exists, it returns the existing builder.
func (b *Builder) Add(id string) *CellBuilder {
	if cb, ok := b.cells[id]; ok {
		return cb
	}
	cb := &CellBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.cells[id] = cb
	b.order = append(b.order, id)
	return cb
}

// Build compiles the cells into a validated tree. Children named but never
// added are reported as dangling.
func (b *Builder) Build() (domain.Tree, error) {
	tree := make(domain.Tree, len(b.cells))
	for _, id := range b.order {
		n := b.cells[id].node.Clone()
		tree[id] = n
	}
	for _, id := range b.order {
		for _, childID := range tree[id].ChildIDs {
			if child, ok := tree[childID]; ok && child.ParentID == "" {
				child.ParentID = id
			}
		}
	}

	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return tree, nil
}

// LoadTree implements ports.TreeLoader.
func (b *Builder) LoadTree(ctx context.Context) (domain.Tree, error) {
	return b.Build()
}
