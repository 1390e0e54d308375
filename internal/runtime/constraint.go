package runtime

import "github.com/aretw0/lattice/pkg/domain"

// CanInsert reports whether another child may be inserted under a cell with
// the given plugin and child count. Trees that already exceed the limit are
// tolerated: insertion is refused, nothing else happens.
func CanInsert(plugin *domain.Plugin, childCount int) bool {
	max, ok := plugin.MaxChildren()
	if !ok {
		return true
	}
	return max > childCount
}
