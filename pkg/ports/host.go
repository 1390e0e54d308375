package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// DragDrop produces the drag and drop attachment points of a cell.
// Drop legality is decided by the implementation, not by the core.
type DragDrop interface {
	Droppable(nodeID string, isLeaf bool) *domain.Handle
	Draggable(nodeID string, isLeaf bool) *domain.Handle
}

// Scroller moves the ambient view so that bounds are visible, keeping offset
// pixels between the scroll container's edge and the cell.
type Scroller interface {
	ScrollIntoView(ctx context.Context, nodeID string, bounds domain.Rect, offset float64) error
}
