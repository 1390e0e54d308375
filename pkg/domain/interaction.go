package domain

// InteractionSource tags where a pointer interaction came from.
type InteractionSource string

const (
	SourcePointer InteractionSource = "pointer"
	// SourceRowResize marks the click that a row resize handle emits on release.
	SourceRowResize InteractionSource = "row-resize"
)

// FocusReasonClick is the reason attached to focus requests made by a click.
const FocusReasonClick = "onClick"

// Interaction is a pointer interaction delivered to a cell.
type Interaction struct {
	NodeID string            `json:"nodeId"`
	Origin Point             `json:"origin"`
	Source InteractionSource `json:"source,omitempty"`
}

// RejectReason explains why an interaction did not change the focus.
type RejectReason string

const (
	RejectNone           RejectReason = ""
	RejectUnknownNode    RejectReason = "unknown_node"
	RejectNoHandler      RejectReason = "no_handler"      // cell has no plugin
	RejectPreview        RejectReason = "preview"         // mode is preview
	RejectNotEditing     RejectReason = "not_editing"     // mode is resize or layout
	RejectAlreadyFocused RejectReason = "already_focused" // nothing to change
	RejectResizeGesture  RejectReason = "resize_gesture"
	RejectNoBoundary     RejectReason = "no_boundary" // cell not placed on screen
	RejectDescendant     RejectReason = "descendant"  // a nested cell owns the origin
	RejectAmbiguous      RejectReason = "ambiguous"   // containment checks disagree
)

// FocusDecision is the outcome of resolving an Interaction.
type FocusDecision struct {
	NodeID   string       `json:"nodeId"`
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`

	// Claimant is the innermost cell whose surface contains the origin, if any.
	Claimant string `json:"claimant,omitempty"`
}
