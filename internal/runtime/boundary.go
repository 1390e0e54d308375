package runtime

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/google/uuid"
)

// boundary is the fault boundary of one mounted cell. It lives from the
// cell's mount until its unmount, across any number of render passes.
type boundary struct {
	nodeID     string
	generation uint64
	fault      *domain.RenderFault
}

// capture runs fn, converting a returned error or a panic into a fault.
// A nested boundary recovers its own panics first, so only faults raised
// by this cell's own rendering reach this recover.
func (b *boundary) capture(fn func() (*domain.View, error)) (v *domain.View, fault *domain.RenderFault) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			fault = panicFault(b.nodeID, r, debug.Stack())
		}
	}()

	v, err := fn()
	if err != nil {
		return nil, errorFault(b.nodeID, err)
	}
	return v, nil
}

func errorFault(nodeID string, err error) *domain.RenderFault {
	var nested *domain.RenderFault
	if errors.As(err, &nested) && nested.NodeID == nodeID {
		return nested
	}
	return &domain.RenderFault{
		NodeID:   nodeID,
		Incident: uuid.NewString(),
		Message:  err.Error(),
		Cause:    err,
	}
}

func panicFault(nodeID string, r any, stack []byte) *domain.RenderFault {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("panic: %v", r)
	}
	return &domain.RenderFault{
		NodeID:   nodeID,
		Incident: uuid.NewString(),
		Message:  fmt.Sprint(r),
		Panic:    true,
		Stack:    stack,
		Cause:    cause,
	}
}

// boundaryTable holds the boundaries of the cells mounted by the last
// committed render pass.
type boundaryTable struct {
	mu      sync.Mutex
	mounted map[string]*boundary
	gen     uint64
}

func newBoundaryTable() *boundaryTable {
	return &boundaryTable{mounted: make(map[string]*boundary)}
}

// acquire returns the boundary of a mounted cell, or a fresh one with a new
// generation when the cell is not mounted. Fresh boundaries only become
// mounted when the pass that created them is committed.
func (t *boundaryTable) acquire(nodeID string) *boundary {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.mounted[nodeID]; ok {
		return b
	}
	t.gen++
	return &boundary{nodeID: nodeID, generation: t.gen}
}

// commit replaces the mounted set and reports which cells were added and removed.
func (t *boundaryTable) commit(next map[string]*boundary) (added, removed []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, b := range next {
		if prev, ok := t.mounted[id]; !ok || prev != b {
			added = append(added, id)
		}
	}
	for id, prev := range t.mounted {
		if b, ok := next[id]; !ok || b != prev {
			removed = append(removed, id)
		}
	}
	t.mounted = next
	return added, removed
}

func (t *boundaryTable) unmount(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		delete(t.mounted, id)
	}
}

func (t *boundaryTable) fault(nodeID string) *domain.RenderFault {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.mounted[nodeID]; ok {
		return b.fault
	}
	return nil
}

// faultOf and setFault guard the fault slot of b, which may already be
// mounted and visible to fault.
func (t *boundaryTable) faultOf(b *boundary) *domain.RenderFault {
	t.mu.Lock()
	defer t.mu.Unlock()
	return b.fault
}

func (t *boundaryTable) setFault(b *boundary, fault *domain.RenderFault) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b.fault = fault
}

func (t *boundaryTable) isMounted(nodeID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.mounted[nodeID]
	return ok
}
