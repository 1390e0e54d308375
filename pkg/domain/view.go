package domain

// ViewKind identifies what a View entry stands for.
type ViewKind string

const (
	ViewEmpty     ViewKind = "empty"     // Suppressed (draft in preview)
	ViewContainer ViewKind = "container" // Node without plugin, children only
	ViewCell      ViewKind = "cell"      // Node with plugin
	ViewFallback  ViewKind = "fallback"  // Subtree replaced after a fault
)

// Handle is the attachment point produced by a drag/drop collaborator.
type Handle struct {
	Role   string            `json:"role"`
	NodeID string            `json:"nodeId"`
	IsLeaf bool              `json:"isLeaf"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// Content is what a plugin renders for its cell.
type Content struct {
	Format string `json:"format,omitempty"`
	Body   string `json:"body"`
}

// View is one rendered node. Views nest like the tree they were rendered from.
type View struct {
	NodeID string   `json:"nodeId"`
	Kind   ViewKind `json:"kind"`

	// Generation changes every time the node is freshly mounted.
	Generation uint64 `json:"generation,omitempty"`

	Classes      []string          `json:"classes,omitempty"`
	InnerClasses []string          `json:"innerClasses,omitempty"`
	Style        map[string]string `json:"style,omitempty"`

	Drop *Handle `json:"drop,omitempty"`
	Drag *Handle `json:"drag,omitempty"`

	Content  *Content `json:"content,omitempty"`
	Children []*View  `json:"children,omitempty"`

	// Insert is true when the insert affordance is shown after the children.
	Insert bool `json:"insert,omitempty"`

	// Interactive is true when pointer interactions should reach the focus resolver.
	Interactive bool `json:"interactive,omitempty"`

	Fault *RenderFault `json:"fault,omitempty"`
}

// HasClass reports whether the view carries the given class.
func (v *View) HasClass(class string) bool {
	for _, c := range v.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits v and its descendants depth first, stopping a branch when fn
// returns false.
func (v *View) Walk(fn func(*View) bool) {
	if v == nil || !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// Find returns the view rendered for nodeID.
func (v *View) Find(nodeID string) *View {
	var found *View
	v.Walk(func(cur *View) bool {
		if found != nil {
			return false
		}
		if cur.NodeID == nodeID {
			found = cur
			return false
		}
		return true
	})
	return found
}
