package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Tree maps node ids to nodes.
type Tree map[string]*Node

// NewTree indexes the given nodes by id.
func NewTree(nodes ...*Node) Tree {
	t := make(Tree, len(nodes))
	for _, n := range nodes {
		t[n.ID] = n
	}
	return t
}

// Clone deep-copies the tree.
func (t Tree) Clone() Tree {
	c := make(Tree, len(t))
	for id, n := range t {
		c[id] = n.Clone()
	}
	return c
}

// IDs returns all node ids in sorted order.
func (t Tree) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Roots returns the ids of nodes that are nobody's child, sorted.
func (t Tree) Roots() []string {
	claimed := make(map[string]bool, len(t))
	for _, n := range t {
		for _, c := range n.ChildIDs {
			claimed[c] = true
		}
	}
	var roots []string
	for _, id := range t.IDs() {
		if !claimed[id] && t[id].ParentID == "" {
			roots = append(roots, id)
		}
	}
	return roots
}

// Validate checks the structural invariants of the tree: every child id
// exists, every child is claimed by exactly one parent that matches its
// ParentID, and no node is its own ancestor.
// Child limits are not checked: exceeding maxChildren is legal.
func (t Tree) Validate() error {
	var errs []error

	owner := make(map[string]string, len(t))
	for _, id := range t.IDs() {
		n := t[id]
		if n.ID != id {
			errs = append(errs, fmt.Errorf("node indexed as %q declares id %q", id, n.ID))
		}
		for _, c := range n.ChildIDs {
			child, ok := t[c]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %q lists %q", ErrDanglingChild, id, c))
				continue
			}
			if prev, dup := owner[c]; dup {
				errs = append(errs, fmt.Errorf("%w: %q is listed by %q and %q", ErrMultipleParents, c, prev, id))
				continue
			}
			owner[c] = id
			if child.ParentID != "" && child.ParentID != id {
				errs = append(errs, fmt.Errorf("%w: %q is listed by %q but points to %q", ErrParentMismatch, c, id, child.ParentID))
			}
		}
	}

	for _, id := range t.IDs() {
		n := t[id]
		if n.ParentID == "" {
			continue
		}
		if _, ok := t[n.ParentID]; !ok {
			errs = append(errs, fmt.Errorf("%w: parent %q of %q", ErrNodeNotFound, n.ParentID, id))
		}
	}

	// Walk each node up through its owners; revisiting means a cycle.
	for _, id := range t.IDs() {
		seen := map[string]bool{id: true}
		for cur, ok := owner[id]; ok; cur, ok = owner[cur] {
			if seen[cur] {
				errs = append(errs, fmt.Errorf("%w: %q", ErrCycle, id))
				break
			}
			seen[cur] = true
		}
	}

	return errors.Join(errs...)
}
