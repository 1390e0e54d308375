// Package layout assigns rectangles to rendered views for hosts that have no
// layout engine of their own, such as the CLI and tests.
package layout

import "github.com/aretw0/lattice/pkg/domain"

// Stack lays cells out top to bottom. Every cell gets a content band,
// followed by its children indented by Padding, followed by an insert band
// when the insert affordance is shown.
type Stack struct {
	Width         float64
	Padding       float64
	ContentHeight float64
	InsertHeight  float64
}

// DefaultStack is the layout used by the CLI.
var DefaultStack = Stack{Width: 960, Padding: 8, ContentHeight: 32, InsertHeight: 16}

// Layout holds the rectangles of one placed view.
type Layout struct {
	Rects map[string]domain.Rect
	// Order lists the placed node ids in paint order.
	Order []string
}

// Place computes the rectangles of v and its descendants.
func (s Stack) Place(v *domain.View) *Layout {
	l := &Layout{Rects: make(map[string]domain.Rect)}
	if v == nil || v.Kind == domain.ViewEmpty {
		return l
	}
	s.place(l, v, 0, 0, s.Width)
	return l
}

func (s Stack) place(l *Layout, v *domain.View, x, y, w float64) float64 {
	top := y
	rect := domain.Rect{X: x, Y: y}
	// Transient fallbacks share the id of a mounted cell elsewhere in the
	// tree; the first placement wins.
	_, dup := l.Rects[v.NodeID]
	if !dup {
		l.Rects[v.NodeID] = rect
		l.Order = append(l.Order, v.NodeID)
	}

	y += s.Padding
	if v.Kind != domain.ViewContainer {
		y += s.ContentHeight
	}
	for _, c := range v.Children {
		if c.Kind == domain.ViewEmpty {
			continue
		}
		y += s.place(l, c, x+s.Padding, y, w-2*s.Padding)
		y += s.Padding
	}
	if v.Insert {
		y += s.InsertHeight
	}
	if len(v.Children) == 0 {
		y += s.Padding
	}

	rect.W = w
	rect.H = y - top
	if !dup {
		l.Rects[v.NodeID] = rect
	}
	return rect.H
}

// OwnPoint returns a point on the cell's own surface, outside any child.
func (l *Layout) OwnPoint(nodeID string) (domain.Point, bool) {
	r, ok := l.Rects[nodeID]
	if !ok {
		return domain.Point{}, false
	}
	return domain.Point{X: r.X + 1, Y: r.Y + 1}, true
}

// Innermost returns the deepest placed id whose rectangle contains p, using
// paint order to break ties. It mirrors what a browser reports as the
// event target, which is useful to route clicks in tests.
func (l *Layout) Innermost(p domain.Point) (string, bool) {
	found := ""
	for _, id := range l.Order {
		if r, ok := l.Rects[id]; ok && r.Contains(p) {
			found = id
		}
	}
	return found, found != ""
}
