package runtime

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// renderPass is one traversal of the tree over a single snapshot.
type renderPass struct {
	ctx  context.Context
	e    *Engine
	snap *domain.Snapshot

	// mounted holds the boundary of every cell that will be mounted when
	// the pass commits, entries their layout records in pre-order.
	mounted map[string]*boundary
	entries []Boundary
	order   []string
}

func newRenderPass(ctx context.Context, e *Engine, snap *domain.Snapshot) *renderPass {
	return &renderPass{
		ctx:     ctx,
		e:       e,
		snap:    snap,
		mounted: make(map[string]*boundary),
	}
}

func (p *renderPass) root() string {
	if len(p.order) == 0 {
		return ""
	}
	return p.order[0]
}

// node renders nodeID inside its own fault boundary.
func (p *renderPass) node(nodeID, parentID string, depth int) *domain.View {
	n, ok := p.snap.Node(nodeID)
	if !ok {
		return p.transient(nodeID, depth, fmt.Errorf("%w: child %q of %q", domain.ErrNodeNotFound, nodeID, parentID))
	}
	if _, seen := p.mounted[nodeID]; seen {
		return p.transient(nodeID, depth, fmt.Errorf("%w: %q rendered twice under %q", domain.ErrCycle, nodeID, parentID))
	}

	props := n.Props()
	if p.snap.IsPreview() && props.DraftIn(p.snap.Language()) {
		v := &domain.View{NodeID: nodeID, Kind: domain.ViewEmpty}
		p.emitCell(v, depth)
		return v
	}

	b := p.e.boundaries.acquire(nodeID)
	idx := len(p.entries)
	p.mounted[nodeID] = b
	p.order = append(p.order, nodeID)
	p.entries = append(p.entries, Boundary{
		NodeID:     nodeID,
		ParentID:   parentID,
		Depth:      depth,
		Order:      idx,
		Generation: b.generation,
		HasPlugin:  n.Plugin != nil,
	})

	var v *domain.View
	if stored := p.e.boundaries.faultOf(b); stored != nil {
		v = fallback(b, stored)
	} else {
		var fault *domain.RenderFault
		v, fault = b.capture(func() (*domain.View, error) {
			return p.cell(n, b, depth)
		})
		switch {
		case fault == nil:
		case p.aborted(fault):
			// The pass is dropped by Render; the cell is evaluated again next time.
			p.rollback(idx + 1)
			v = fallback(b, fault)
		default:
			p.rollback(idx + 1)
			p.e.boundaries.setFault(b, fault)
			p.reportFault(fault)
			v = fallback(b, fault)
		}
	}

	p.entries[idx].HasInner = v.Kind == domain.ViewCell
	p.emitCell(v, depth)
	return v
}

// cell renders the content and children of a mounted node.
func (p *renderPass) cell(n *domain.Node, b *boundary, depth int) (*domain.View, error) {
	snap := p.snap
	props := n.Props()
	hasChildren := len(n.ChildIDs) > 0

	classes := p.e.memo.classes(n.ID, classKey{
		mode:               snap.Mode(),
		focused:            snap.IsFocused(n.ID),
		draft:              props.DraftIn(snap.Language()),
		inline:             props.Inline,
		hasInlineNeighbour: props.HasInlineNeighbour,
		hasPlugin:          n.Plugin != nil,
		hasChildren:        hasChildren,
		size:               props.GridSize(),
	})

	children := make([]*domain.View, 0, len(n.ChildIDs))
	for _, childID := range n.ChildIDs {
		child := p.node(childID, n.ID, depth+1)
		if child.Kind == domain.ViewEmpty {
			continue
		}
		children = append(children, child)
	}

	if n.Plugin == nil {
		return &domain.View{
			NodeID:     n.ID,
			Kind:       domain.ViewContainer,
			Generation: b.generation,
			Classes:    classes,
			Drop:       p.e.dragDrop.Droppable(n.ID, false),
			Children:   children,
		}, nil
	}

	renderer, ok := p.e.plugins.Lookup(n.Plugin.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPluginNotRegistered, n.Plugin.Name)
	}
	content, err := renderer.RenderPlugin(p.ctx, ports.PluginProps{
		NodeID:      n.ID,
		HasChildren: hasChildren,
		Plugin:      *n.Plugin,
		Language:    snap.Language(),
		Mode:        snap.Mode(),
		Children:    children,
	})
	if err != nil {
		return nil, err
	}

	isLeaf := !hasChildren
	return &domain.View{
		NodeID:       n.ID,
		Kind:         domain.ViewCell,
		Generation:   b.generation,
		Classes:      classes,
		InnerClasses: innerClasses(hasChildren),
		Style:        maps.Clone(n.Plugin.Style),
		Drop:         p.e.dragDrop.Droppable(n.ID, isLeaf),
		Drag:         p.e.dragDrop.Draggable(n.ID, isLeaf),
		Content:      content,
		Children:     children,
		Insert:       CanInsert(n.Plugin, len(n.ChildIDs)),
		Interactive:  !snap.IsPreview(),
	}, nil
}

// aborted reports whether fault comes from the pass being cancelled rather
// than from the cell itself.
func (p *renderPass) aborted(fault *domain.RenderFault) bool {
	if p.ctx.Err() != nil {
		return true
	}
	return errors.Is(fault, context.Canceled) || errors.Is(fault, context.DeadlineExceeded)
}

// rollback forgets the cells mounted from entry from onwards. They were
// rendered inside a boundary that faulted afterwards.
func (p *renderPass) rollback(from int) {
	for _, id := range p.order[from:] {
		delete(p.mounted, id)
	}
	p.order = p.order[:from]
	p.entries = p.entries[:from]
}

// transient renders a fallback that is neither stored nor mounted: the next
// pass evaluates the node again.
func (p *renderPass) transient(nodeID string, depth int, err error) *domain.View {
	fault := errorFault(nodeID, err)
	p.reportFault(fault)
	v := fallback(&boundary{nodeID: nodeID}, fault)
	p.emitCell(v, depth)
	return v
}

func (p *renderPass) reportFault(fault *domain.RenderFault) {
	p.e.logger.Warn("cell render fault",
		"node_id", fault.NodeID, "incident", fault.Incident, "panic", fault.Panic, "err", fault.Message)
	if p.e.hooks.OnFault != nil {
		p.e.hooks.OnFault(p.ctx, &domain.FaultEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFault},
			Fault:     fault,
		})
	}
}

func (p *renderPass) emitCell(v *domain.View, depth int) {
	if p.e.hooks.OnCellRender == nil {
		return
	}
	p.e.hooks.OnCellRender(p.ctx, &domain.CellEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCellRender},
		NodeID:    v.NodeID,
		Kind:      v.Kind,
		Depth:     depth,
		Mode:      p.snap.Mode(),
	})
}

func fallback(b *boundary, fault *domain.RenderFault) *domain.View {
	return &domain.View{
		NodeID:     b.nodeID,
		Kind:       domain.ViewFallback,
		Generation: b.generation,
		Fault:      fault,
	}
}
