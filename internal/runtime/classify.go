package runtime

import (
	"strconv"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// ClassPrefix prefixes every class the renderer emits.
const ClassPrefix = "lattice-cell"

// Cell classes.
const (
	ClassCell               = ClassPrefix
	ClassHasInlineNeighbour = ClassPrefix + "-has-inline-neighbour"
	ClassHasPlugin          = ClassPrefix + "-has-plugin"
	ClassLeaf               = ClassPrefix + "-leaf"
	ClassFocused            = ClassPrefix + "-focused"
	ClassDraft              = ClassPrefix + "-is-draft"
	ClassBringToFront       = ClassPrefix + "-bring-to-front"
	ClassInner              = ClassPrefix + "-inner"
	ClassInnerLeaf          = ClassPrefix + "-inner-leaf"
)

// classKey is every input of cell classification. It is comparable, so two
// keys are equal exactly when the classification would be identical.
type classKey struct {
	mode               domain.Mode
	focused            bool
	draft              bool
	inline             domain.Inline
	hasInlineNeighbour bool
	hasPlugin          bool
	hasChildren        bool
	size               int
}

func gridClasses(mode domain.Mode, size int) []string {
	n := strconv.Itoa(size)
	if mode == domain.ModePreview || mode == domain.ModeEdit {
		return []string{ClassPrefix + "-sm-" + n, ClassPrefix + "-xs-12"}
	}
	return []string{ClassPrefix + "-xs-" + n}
}

func cellClasses(k classKey) []string {
	classes := []string{ClassCell}
	classes = append(classes, gridClasses(k.mode, k.size)...)

	if k.hasInlineNeighbour {
		classes = append(classes, ClassHasInlineNeighbour)
	}
	if k.hasPlugin {
		classes = append(classes, ClassHasPlugin)
	}
	if !k.hasChildren {
		classes = append(classes, ClassLeaf)
	}
	if k.inline != domain.InlineNone {
		classes = append(classes, ClassPrefix+"-inline-"+string(k.inline))
	}
	if k.focused {
		classes = append(classes, ClassFocused)
	}
	if k.draft {
		classes = append(classes, ClassDraft)
	}
	// Inline cells float above their neighbour, except while resizing or
	// moving where the handles of the neighbour must stay reachable.
	if k.inline != domain.InlineNone && k.mode != domain.ModeResize && k.mode != domain.ModeLayout {
		classes = append(classes, ClassBringToFront)
	}
	return classes
}

func innerClasses(hasChildren bool) []string {
	if hasChildren {
		return []string{ClassInner}
	}
	return []string{ClassInner, ClassInnerLeaf}
}

type memoEntry struct {
	key     classKey
	classes []string
}

// classMemo caches the classes of each cell keyed on the value of classKey.
type classMemo struct {
	mu      sync.Mutex
	entries map[string]memoEntry
	hits    uint64
	misses  uint64
}

func newClassMemo() *classMemo {
	return &classMemo{entries: make(map[string]memoEntry)}
}

func (m *classMemo) classes(nodeID string, k classKey) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[nodeID]; ok && e.key == k {
		m.hits++
		return append([]string(nil), e.classes...)
	}
	m.misses++
	classes := cellClasses(k)
	m.entries[nodeID] = memoEntry{key: k, classes: classes}
	return append([]string(nil), classes...)
}

// retain drops the entries of nodes that are no longer mounted.
func (m *classMemo) retain(keep func(nodeID string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.entries {
		if !keep(id) {
			delete(m.entries, id)
		}
	}
}

func (m *classMemo) stats() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
