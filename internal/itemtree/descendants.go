package itemtree

import (
	"errors"

	"smartchecklist/internal/models"
)

// ErrTooDeep is returned when a subtree walk exceeds the configured depth.
var ErrTooDeep = errors.New("item subtree exceeds maximum depth")

// Descendants returns rootID followed by every item below it, breadth first.
// It returns nil when rootID is not in refs. Each id is reported once even
// if the parent links contain a cycle. A maxDepth above zero bounds how far
// below the root the walk may go.
func Descendants(refs []models.ItemRef, rootID uint, maxDepth int) ([]uint, error) {
	children := make(map[uint][]uint, len(refs))
	found := false
	for _, ref := range refs {
		if ref.ID == rootID {
			found = true
		}
		if ref.ParentItemID != nil {
			children[*ref.ParentItemID] = append(children[*ref.ParentItemID], ref.ID)
		}
	}
	if !found {
		return nil, nil
	}

	visited := map[uint]struct{}{rootID: {}}
	out := []uint{rootID}
	level := []uint{rootID}
	for depth := 0; len(level) > 0; depth++ {
		var next []uint
		for _, id := range level {
			for _, child := range children[id] {
				if _, seen := visited[child]; seen {
					continue
				}
				visited[child] = struct{}{}
				next = append(next, child)
			}
		}
		if len(next) > 0 && maxDepth > 0 && depth+1 > maxDepth {
			return nil, ErrTooDeep
		}
		out = append(out, next...)
		level = next
	}
	return out, nil
}
