package domain

// Snapshot is one consistent read of the tree and the interaction state.
// A render pass reads exactly one Snapshot so that every cell of the pass
// observes the same mode, focus and language.
type Snapshot struct {
	Tree  Tree
	State InteractionState
}

// NewSnapshot builds a snapshot over copies of the given values.
func NewSnapshot(tree Tree, state InteractionState) *Snapshot {
	return &Snapshot{Tree: tree.Clone(), State: state}
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (*Node, bool) {
	n, ok := s.Tree[id]
	return n, ok && n != nil
}

// ChildrenOf returns the ordered child ids of a node.
func (s *Snapshot) ChildrenOf(id string) []string {
	if n, ok := s.Node(id); ok {
		return n.ChildIDs
	}
	return nil
}

// PropsOf returns the classification properties of a node.
func (s *Snapshot) PropsOf(id string) Props {
	if n, ok := s.Node(id); ok {
		return n.Props()
	}
	return Props{}
}

// PluginOf returns the plugin attached to a node, or nil.
func (s *Snapshot) PluginOf(id string) *Plugin {
	if n, ok := s.Node(id); ok {
		return n.Plugin
	}
	return nil
}

// HasPlugin reports whether a plugin is attached to the node.
func (s *Snapshot) HasPlugin(id string) bool {
	return s.PluginOf(id) != nil
}

// HasChildren reports whether the node has at least one child.
func (s *Snapshot) HasChildren(id string) bool {
	return len(s.ChildrenOf(id)) > 0
}

// IsFocused reports whether the node holds the focus.
func (s *Snapshot) IsFocused(id string) bool {
	return id != "" && s.State.FocusedNodeID == id
}

func (s *Snapshot) Mode() Mode { return s.State.Mode }

func (s *Snapshot) IsPreview() bool { return s.State.Mode == ModePreview }
func (s *Snapshot) IsEdit() bool    { return s.State.Mode == ModeEdit }
func (s *Snapshot) IsResize() bool  { return s.State.Mode == ModeResize }
func (s *Snapshot) IsLayout() bool  { return s.State.Mode == ModeLayout }

// Language returns the active language tag.
func (s *Snapshot) Language() string { return s.State.Language }
