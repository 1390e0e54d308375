package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write each event to logger.
// Cell renders are logged at debug level since a pass emits one per node.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellRender: func(ctx context.Context, e *domain.CellEvent) {
			logger.DebugContext(ctx, "cell_render",
				"node_id", e.NodeID,
				"kind", e.Kind,
				"depth", e.Depth,
				"mode", e.Mode,
			)
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			logger.WarnContext(ctx, "cell_fault",
				"node_id", e.Fault.NodeID,
				"incident", e.Fault.Incident,
				"panic", e.Fault.Panic,
			)
		},
		OnFocus: func(ctx context.Context, e *domain.FocusEvent) {
			logger.InfoContext(ctx, "focus",
				"node_id", e.Decision.NodeID,
				"accepted", e.Decision.Accepted,
				"reason", e.Decision.Reason,
			)
		},
		OnScroll: func(ctx context.Context, e *domain.ScrollEvent) {
			logger.InfoContext(ctx, "scroll",
				"node_id", e.NodeID,
				"generation", e.Generation,
				"offset", e.Offset,
			)
		},
	}
}
