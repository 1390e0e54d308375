package runtime

import (
	"fmt"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Boundary is the last-known rendered region of a mounted cell.
type Boundary struct {
	NodeID     string
	ParentID   string
	Depth      int
	Order      int // pre-order position in the committed pass
	Generation uint64

	// HasPlugin marks the outer cell region of a plugin cell.
	HasPlugin bool
	// HasInner marks cells that rendered their inner region (plugin cells
	// that are not showing a fallback).
	HasInner bool

	Rect   domain.Rect
	Placed bool
}

// Layout maps node ids to their rendered boundaries. The structure comes
// from committed render passes; rectangles are placed by the host after it
// has laid the view out.
type Layout struct {
	mu      sync.RWMutex
	entries map[string]*Boundary
}

func NewLayout() *Layout {
	return &Layout{entries: make(map[string]*Boundary)}
}

// sync replaces the structure. Rectangles survive only for cells whose
// generation is unchanged: a remounted cell is a new element and must be placed again.
func (l *Layout) sync(next []Boundary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make(map[string]*Boundary, len(next))
	for i := range next {
		b := next[i]
		if prev, ok := l.entries[b.NodeID]; ok && prev.Generation == b.Generation && prev.Placed {
			b.Rect = prev.Rect
			b.Placed = true
		}
		entries[b.NodeID] = &b
	}
	l.entries = entries
}

// Place records the rendered rectangle of a mounted cell.
func (l *Layout) Place(nodeID string, rect domain.Rect) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.entries[nodeID]
	if !ok {
		return fmt.Errorf("%w: %q is not mounted", domain.ErrNodeNotFound, nodeID)
	}
	b.Rect = rect
	b.Placed = true
	return nil
}

// Get returns the boundary of a mounted cell.
func (l *Layout) Get(nodeID string) (Boundary, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.entries[nodeID]
	if !ok {
		return Boundary{}, false
	}
	return *b, true
}

// Innermost returns the deepest placed boundary containing p among those
// accepted by match. Among equally deep boundaries the one rendered last wins,
// since it is painted on top.
func (l *Layout) Innermost(p domain.Point, match func(Boundary) bool) (Boundary, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best *Boundary
	for _, b := range l.entries {
		if !b.Placed || !b.Rect.Contains(p) || !match(*b) {
			continue
		}
		if best == nil || b.Depth > best.Depth || (b.Depth == best.Depth && b.Order > best.Order) {
			best = b
		}
	}
	if best == nil {
		return Boundary{}, false
	}
	return *best, true
}

// Subtree returns nodeID and all its mounted descendants.
func (l *Layout) Subtree(nodeID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.entries[nodeID]; !ok {
		return nil
	}
	children := make(map[string][]string)
	for id, b := range l.entries {
		children[b.ParentID] = append(children[b.ParentID], id)
	}
	out := []string{nodeID}
	for i := 0; i < len(out); i++ {
		out = append(out, children[out[i]]...)
	}
	return out
}

// Len returns the number of mounted cells.
func (l *Layout) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func isPluginCell(b Boundary) bool { return b.HasPlugin }
func hasInnerRegion(b Boundary) bool { return b.HasInner }

func (l *Layout) remove(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		delete(l.entries, id)
	}
}
