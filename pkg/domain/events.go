package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCellRender EventType = "cell_render"
	EventFault      EventType = "fault"
	EventFocus      EventType = "focus"
	EventScroll     EventType = "scroll"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CellEvent is emitted once per node visited in a render pass.
type CellEvent struct {
	EventBase
	NodeID string   `json:"node_id"`
	Kind   ViewKind `json:"kind"`
	Depth  int      `json:"depth"`
	Mode   Mode     `json:"mode"`
}

// FaultEvent is emitted when a fault boundary captures a new fault.
type FaultEvent struct {
	EventBase
	Fault *RenderFault `json:"fault"`
}

// FocusEvent is emitted for every resolved interaction.
type FocusEvent struct {
	EventBase
	Decision FocusDecision `json:"decision"`
}

// ScrollEvent is emitted when a cell is scrolled into view.
type ScrollEvent struct {
	EventBase
	NodeID     string  `json:"node_id"`
	Generation uint64  `json:"generation"`
	Bounds     Rect    `json:"bounds"`
	Offset     float64 `json:"offset"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnCellRender func(context.Context, *CellEvent)
	OnFault      func(context.Context, *FaultEvent)
	OnFocus      func(context.Context, *FocusEvent)
	OnScroll     func(context.Context, *ScrollEvent)
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCellRender: func(ctx context.Context, e *CellEvent) {
			for _, h := range all {
				if h.OnCellRender != nil {
					h.OnCellRender(ctx, e)
				}
			}
		},
		OnFault: func(ctx context.Context, e *FaultEvent) {
			for _, h := range all {
				if h.OnFault != nil {
					h.OnFault(ctx, e)
				}
			}
		},
		OnFocus: func(ctx context.Context, e *FocusEvent) {
			for _, h := range all {
				if h.OnFocus != nil {
					h.OnFocus(ctx, e)
				}
			}
		},
		OnScroll: func(ctx context.Context, e *ScrollEvent) {
			for _, h := range all {
				if h.OnScroll != nil {
					h.OnScroll(ctx, e)
				}
			}
		},
	}
}
