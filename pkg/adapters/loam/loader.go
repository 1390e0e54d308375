package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository, one document per cell, to ports.TreeLoader.
type Loader struct {
	Repo *loam.TypedRepository[CellMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[CellMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// ListCells lists the cell ids of the repository.
func (l *Loader) ListCells(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// GetCell reads one cell document.
func (l *Loader) GetCell(ctx context.Context, id string) (*domain.Node, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	rawID := doc.Data.ID
	if rawID == "" {
		rawID = doc.ID
	}
	return toNode(trimExtension(rawID), doc.Data, doc.Content), nil
}

// LoadTree implements ports.TreeLoader. Parents left out of the frontmatter
// are taken from the children lists.
func (l *Loader) LoadTree(ctx context.Context) (domain.Tree, error) {
	ids, err := l.ListCells(ctx)
	if err != nil {
		return nil, err
	}

	tree := make(domain.Tree, len(ids))
	for _, id := range ids {
		n, err := l.GetCell(ctx, id)
		if err != nil {
			return nil, err
		}
		tree[n.ID] = n
	}
	for _, n := range tree {
		for _, childID := range n.ChildIDs {
			if child, ok := tree[childID]; ok && child.ParentID == "" {
				child.ParentID = n.ID
			}
		}
	}
	return tree, nil
}

func toNode(id string, meta CellMetadata, content string) *domain.Node {
	n := &domain.Node{
		ID:                 id,
		ParentID:           trimExtension(meta.Parent),
		ChildIDs:           make([]string, 0, len(meta.Children)),
		Size:               meta.Size,
		Inline:             domain.Inline(strings.ToLower(meta.Inline)),
		HasInlineNeighbour: meta.HasInlineNeighbour,
		IsDraft:            meta.Draft,
		IsDraftI18n:        meta.DraftI18n,
	}
	for _, c := range meta.Children {
		n.ChildIDs = append(n.ChildIDs, trimExtension(c))
	}
	if meta.Plugin != "" {
		n.Plugin = &domain.Plugin{
			Name:  meta.Plugin,
			Body:  strings.TrimSpace(content),
			Style: meta.Style,
		}
		if meta.MaxChildren != nil {
			n.Plugin.ChildConstraints = domain.MaxChildren(*meta.MaxChildren)
		}
	}
	return n
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
