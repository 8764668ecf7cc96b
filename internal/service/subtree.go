package service

import (
	"context"
	"errors"

	"smartchecklist/internal/itemtree"
	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"
	"smartchecklist/internal/repository"
)

// SubtreeStrategy selects how descendants are located before deletion.
type SubtreeStrategy string

const (
	// SubtreeRecursiveQuery collects descendants with one recursive SQL query.
	SubtreeRecursiveQuery SubtreeStrategy = "recursive_query"
	// SubtreeIndexWalk loads the checklist's parent index, extends it with
	// children filed under other checklists, and walks it in memory.
	SubtreeIndexWalk SubtreeStrategy = "index_walk"
)

// SubtreeOptions tunes DeleteSubtree.
type SubtreeOptions struct {
	Strategy SubtreeStrategy
	MaxDepth int
}

// DeleteSubtree removes rootID and every item below it and returns the
// number of rows deleted. A missing root deletes nothing. Callers run it
// inside a transaction so a failure leaves the tree untouched.
func DeleteSubtree(ctx context.Context, items repository.ItemRepository, rootID uint, opts SubtreeOptions) (int64, error) {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxTreeDepth
	}

	var (
		n   int64
		err error
	)
	switch opts.Strategy {
	case SubtreeIndexWalk:
		n, err = deleteByIndexWalk(ctx, items, rootID, opts.MaxDepth)
	default:
		opts.Strategy = SubtreeRecursiveQuery
		n, err = items.DeleteSubtree(ctx, rootID, opts.MaxDepth)
	}
	if errors.Is(err, itemtree.ErrTooDeep) {
		return 0, &models.AppError{
			Code:    models.CodeConflict,
			Message: "Item subtree exceeds the maximum depth",
			Err:     err,
		}
	}
	if err != nil {
		return 0, err
	}

	observability.ItemsDeleted.WithLabelValues(string(opts.Strategy)).Add(float64(n))
	return n, nil
}

// deleteByIndexWalk seeds the parent index with the root's checklist, then
// asks for the children of every reached item so rows filed under another
// checklist are still found.
func deleteByIndexWalk(ctx context.Context, items repository.ItemRepository, rootID uint, maxDepth int) (int64, error) {
	root, err := items.GetByID(ctx, rootID)
	if models.IsCode(err, models.CodeNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	refs, err := items.ParentIndex(ctx, root.ChecklistID)
	if err != nil {
		return 0, err
	}
	known := make(map[uint]struct{}, len(refs))
	for _, ref := range refs {
		known[ref.ID] = struct{}{}
	}
	if _, ok := known[rootID]; !ok {
		refs = append(refs, models.ItemRef{ID: root.ID, ParentItemID: root.ParentItemID})
		known[rootID] = struct{}{}
	}

	frontier, err := itemtree.Descendants(refs, rootID, 0)
	if err != nil {
		return 0, err
	}
	expanded := make(map[uint]struct{}, len(frontier))
	for len(frontier) > 0 {
		for _, id := range frontier {
			expanded[id] = struct{}{}
		}
		children, err := items.ChildRefs(ctx, frontier)
		if err != nil {
			return 0, err
		}
		var next []uint
		for _, ref := range children {
			if _, ok := known[ref.ID]; !ok {
				known[ref.ID] = struct{}{}
				refs = append(refs, ref)
			}
			if _, ok := expanded[ref.ID]; !ok {
				expanded[ref.ID] = struct{}{}
				next = append(next, ref.ID)
			}
		}
		frontier = next
	}

	ids, err := itemtree.Descendants(refs, rootID, maxDepth)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return items.DeleteByIDs(ctx, ids)
}
