package domain

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when a node id does not exist in the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrCycle is returned when a node is reachable from itself.
var ErrCycle = errors.New("cycle in cell tree")

// ErrDanglingChild is returned when a node lists a child that does not exist.
var ErrDanglingChild = errors.New("dangling child")

// ErrParentMismatch is returned when a child points to a different parent than the one listing it.
var ErrParentMismatch = errors.New("parent mismatch")

// ErrMultipleParents is returned when a node is listed as child by more than one node.
var ErrMultipleParents = errors.New("node has multiple parents")

// ErrPluginNotRegistered is returned when a cell names a plugin that no renderer handles.
var ErrPluginNotRegistered = errors.New("plugin not registered")

// ErrInvalidMode is returned when a mode string cannot be parsed.
var ErrInvalidMode = errors.New("invalid mode")

// RenderFault is a failure captured while rendering a cell's content or descendants.
// It never escapes the fault boundary of the cell it was raised in.
type RenderFault struct {
	NodeID   string `json:"nodeId"`
	Incident string `json:"incident"`
	Message  string `json:"message"`

	// Panic is true when the fault was a recovered panic rather than a returned error.
	Panic bool   `json:"panic,omitempty"`
	Stack []byte `json:"-"`
	Cause error  `json:"-"`
}

func (f *RenderFault) Error() string {
	return fmt.Sprintf("render fault in %s: %s", f.NodeID, f.Message)
}

func (f *RenderFault) Unwrap() error {
	return f.Cause
}
