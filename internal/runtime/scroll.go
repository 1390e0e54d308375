package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// DefaultScrollOffset is the distance kept between the scroll container's
// edge and a cell scrolled into view.
const DefaultScrollOffset = 120

// Coordinator brings the last requested cell into view once its boundary is
// placed, and again each time that cell is remounted. Ordinary re-renders
// that keep the cell mounted do not scroll.
type Coordinator struct {
	mu       sync.Mutex
	triggers ports.ScrollTriggers
	scroller ports.Scroller
	layout   *Layout
	offset   float64
	logger   *slog.Logger
	onScroll func(context.Context, *domain.ScrollEvent)

	subs        map[string]ports.UnsubscribeFunc
	target      string
	pending     bool
	scrolledGen uint64
}

func NewCoordinator(triggers ports.ScrollTriggers, scroller ports.Scroller, layout *Layout, offset float64, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if scroller == nil {
		scroller = logScroller{logger: logger}
	}
	return &Coordinator{
		triggers: triggers,
		scroller: scroller,
		layout:   layout,
		offset:   offset,
		logger:   logger,
		subs:     make(map[string]ports.UnsubscribeFunc),
	}
}

// mount registers the scroll trigger of each freshly mounted cell.
func (c *Coordinator) mount(ids []string) {
	for _, id := range ids {
		nodeID := id
		unsubscribe := c.triggers.RegisterScrollTrigger(nodeID, func() {
			c.request(context.Background(), nodeID)
		})

		c.mu.Lock()
		prev := c.subs[nodeID]
		c.subs[nodeID] = unsubscribe
		c.mu.Unlock()

		if prev != nil {
			prev()
		}
	}
}

// unmount drops the triggers of cells that left the tree.
func (c *Coordinator) unmount(ids []string) {
	for _, id := range ids {
		c.mu.Lock()
		unsubscribe := c.subs[id]
		delete(c.subs, id)
		c.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
	}
}

func (c *Coordinator) request(ctx context.Context, nodeID string) {
	c.mu.Lock()
	c.target = nodeID
	c.pending = true
	c.mu.Unlock()

	if err := c.Settle(ctx); err != nil {
		c.logger.Warn("scroll failed", "node_id", nodeID, "err", err)
	}
}

// Settle scrolls the target into view when it is placed and either a
// request is pending or the target was remounted since the last scroll.
func (c *Coordinator) Settle(ctx context.Context) error {
	c.mu.Lock()
	if c.target == "" {
		c.mu.Unlock()
		return nil
	}
	b, ok := c.layout.Get(c.target)
	if !ok || !b.Placed || (!c.pending && b.Generation == c.scrolledGen) {
		c.mu.Unlock()
		return nil
	}
	c.pending = false
	c.scrolledGen = b.Generation
	offset := c.offset
	onScroll := c.onScroll
	c.mu.Unlock()

	if err := c.scroller.ScrollIntoView(ctx, b.NodeID, b.Rect, offset); err != nil {
		return fmt.Errorf("failed to scroll %s into view: %w", b.NodeID, err)
	}
	if onScroll != nil {
		onScroll(ctx, &domain.ScrollEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventScroll},
			NodeID:     b.NodeID,
			Generation: b.Generation,
			Bounds:     b.Rect,
			Offset:     offset,
		})
	}
	return nil
}

// Target returns the cell the coordinator currently follows.
func (c *Coordinator) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Subscribed reports whether a scroll trigger is registered for nodeID.
func (c *Coordinator) Subscribed(nodeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subs[nodeID]
	return ok
}

// logScroller is used when the host has no scroll container.
type logScroller struct {
	logger *slog.Logger
}

func (s logScroller) ScrollIntoView(_ context.Context, nodeID string, bounds domain.Rect, offset float64) error {
	s.logger.Debug("scroll into view", "node_id", nodeID, "y", bounds.Y, "offset", offset)
	return nil
}
