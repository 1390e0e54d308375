package domain

import (
	"fmt"
	"strings"
)

// Mode is the global interaction mode of the editor.
type Mode string

const (
	ModePreview Mode = "preview" // Read-only rendering, drafts hidden
	ModeEdit    Mode = "edit"    // Cells can be focused and edited
	ModeResize  Mode = "resize"  // Cell widths are being dragged
	ModeLayout  Mode = "layout"  // Cells are being moved around
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePreview, ModeEdit, ModeResize, ModeLayout:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Editable reports whether the tree can be changed in this mode.
func (m Mode) Editable() bool {
	return m != ModePreview
}

// InteractionState is the process-wide editor state owned by the store.
type InteractionState struct {
	Mode Mode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// FocusedNodeID is empty when no cell is focused.
	FocusedNodeID string `json:"focusedNodeId,omitempty" yaml:"focused,omitempty" mapstructure:"focused"`

	Language string `json:"language,omitempty" yaml:"language,omitempty" mapstructure:"language"`
}

// NewInteractionState returns the state an editor starts with.
func NewInteractionState(lang string) InteractionState {
	return InteractionState{
		Mode:     ModeEdit,
		Language: lang,
	}
}
