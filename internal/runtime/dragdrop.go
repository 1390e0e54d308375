package runtime

import "github.com/aretw0/lattice/pkg/domain"

const (
	RoleDroppable = "droppable"
	RoleDraggable = "draggable"
)

// PlainDragDrop produces bare handles. Hosts with a real gesture layer pass
// their own ports.DragDrop.
type PlainDragDrop struct{}

func (PlainDragDrop) Droppable(nodeID string, isLeaf bool) *domain.Handle {
	return &domain.Handle{Role: RoleDroppable, NodeID: nodeID, IsLeaf: isLeaf}
}

func (PlainDragDrop) Draggable(nodeID string, isLeaf bool) *domain.Handle {
	return &domain.Handle{Role: RoleDraggable, NodeID: nodeID, IsLeaf: isLeaf}
}
