package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Resolver decides whether a pointer interaction focuses the cell it was
// routed to. Interactions on a deep tree bubble through every ancestor, so
// most of them are expected to be rejected: the innermost cell under the
// pointer claims the interaction and everybody above it stays put.
type Resolver struct {
	commander ports.Commander
	layout    *Layout
	logger    *slog.Logger
}

func NewResolver(commander ports.Commander, layout *Layout, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{commander: commander, layout: layout, logger: logger}
}

// Resolve evaluates in against snap and, when accepted, focuses the cell
// (non-exclusive, reason "onClick") and switches to edit mode.
// Rejections are not errors; errors come only from the store commands.
func (r *Resolver) Resolve(ctx context.Context, snap *domain.Snapshot, in domain.Interaction) (domain.FocusDecision, error) {
	decision := domain.FocusDecision{NodeID: in.NodeID}
	reject := func(reason domain.RejectReason) (domain.FocusDecision, error) {
		decision.Reason = reason
		return decision, nil
	}

	if _, ok := snap.Node(in.NodeID); !ok {
		return reject(domain.RejectUnknownNode)
	}
	switch {
	case !snap.HasPlugin(in.NodeID):
		return reject(domain.RejectNoHandler)
	case snap.IsPreview():
		return reject(domain.RejectPreview)
	case !snap.IsEdit():
		return reject(domain.RejectNotEditing)
	case snap.IsFocused(in.NodeID):
		return reject(domain.RejectAlreadyFocused)
	case in.Source == domain.SourceRowResize:
		return reject(domain.RejectResizeGesture)
	}

	own, ok := r.layout.Get(in.NodeID)
	if !ok || !own.Placed {
		return reject(domain.RejectNoBoundary)
	}
	if !own.HasInner {
		// A faulted cell shows its fallback, which carries no handler.
		return reject(domain.RejectNoHandler)
	}

	cell, cellOK := r.layout.Innermost(in.Origin, isPluginCell)
	inner, innerOK := r.layout.Innermost(in.Origin, hasInnerRegion)
	cellIsOwn := cellOK && cell.NodeID == in.NodeID
	innerIsOwn := innerOK && inner.NodeID == in.NodeID

	if !cellIsOwn || !innerIsOwn {
		decision.Claimant = cell.NodeID
		if cellIsOwn != innerIsOwn {
			if cellIsOwn {
				decision.Claimant = inner.NodeID
			}
			r.logger.Debug("containment checks disagree",
				"node_id", in.NodeID, "cell", cell.NodeID, "inner", inner.NodeID)
			return reject(domain.RejectAmbiguous)
		}
		return reject(domain.RejectDescendant)
	}

	if err := r.commander.SetFocus(ctx, in.NodeID, false, domain.FocusReasonClick); err != nil {
		return decision, fmt.Errorf("failed to focus %s: %w", in.NodeID, err)
	}
	if err := r.commander.SetEditMode(ctx); err != nil {
		return decision, fmt.Errorf("failed to enter edit mode: %w", err)
	}
	decision.Accepted = true
	decision.Reason = domain.RejectNone
	return decision, nil
}
