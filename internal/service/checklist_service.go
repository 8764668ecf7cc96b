package service

import (
	"context"
	"errors"

	"smartchecklist/internal/cache"
	"smartchecklist/internal/featureflags"
	"smartchecklist/internal/itemtree"
	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"
	"smartchecklist/internal/repository"
	"smartchecklist/internal/validation"
)

// ChecklistService manages a user's checklists and assembles their item trees.
type ChecklistService struct {
	store repository.Store
	opts  Options
}

// CreateChecklistInput carries a new checklist for UserID.
type CreateChecklistInput struct {
	UserID uint
	Title  string
}

// UpdateChecklistInput renames an owned checklist.
type UpdateChecklistInput struct {
	UserID      uint
	ChecklistID uint
	Title       string
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(store repository.Store, opts Options) *ChecklistService {
	return &ChecklistService{store: store, opts: opts}
}

func (s *ChecklistService) CreateChecklist(ctx context.Context, in CreateChecklistInput) (*models.Checklist, error) {
	title, err := validation.NormalizeTitle(in.Title)
	if err != nil {
		return nil, validationError(err)
	}

	checklist := &models.Checklist{UserID: in.UserID, Title: title}
	if err := s.store.Checklists().Create(ctx, checklist); err != nil {
		return nil, err
	}
	return checklist, nil
}

func (s *ChecklistService) ListChecklists(ctx context.Context, userID uint) ([]*models.Checklist, error) {
	return s.store.Checklists().ListByUser(ctx, userID)
}

// GetChecklist returns an owned checklist with its items arranged as a forest.
func (s *ChecklistService) GetChecklist(ctx context.Context, userID, checklistID uint) (*models.ChecklistDetail, error) {
	span, ctx := observability.NewSpan(ctx, "ChecklistService.GetChecklist",
		observability.AttrChecklistID.Int64(int64(checklistID)),
		observability.AttrUserID.Int64(int64(userID)),
	)
	defer span.End()

	var detail *models.ChecklistDetail
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		checklist, err := tx.Checklists().GetOwned(ctx, checklistID, userID)
		if err != nil {
			return err
		}

		roots, err := s.loadForest(ctx, tx, checklist.ID, userID)
		if err != nil {
			return err
		}
		detail = &models.ChecklistDetail{Checklist: *checklist, Items: roots}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(observability.AttrTreeRoots.Int(len(detail.Items)))
	return detail, nil
}

func (s *ChecklistService) loadForest(ctx context.Context, tx repository.Store, checklistID, userID uint) ([]*models.ItemNode, error) {
	build := func() ([]*models.ItemNode, error) {
		items, err := tx.Items().ListByChecklist(ctx, checklistID)
		if err != nil {
			return nil, err
		}
		forest := itemtree.BuildForest(items)
		observability.ForestSize.Observe(float64(len(items)))
		if len(forest.Dangling) > 0 {
			observability.DanglingItems.Add(float64(len(forest.Dangling)))
			serviceLog.LogServiceWarning(ctx, "ChecklistService", "items with missing parent left out of tree", map[string]interface{}{
				"checklist_id": checklistID,
				"item_ids":     forest.Dangling,
			})
		}
		return forest.Roots, nil
	}

	if !s.opts.Flags.EnabledOr(featureflags.ChecklistTreeCache, userID, true) {
		return build()
	}

	gen, err := cache.ChecklistGeneration(ctx, checklistID)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheDisabled) {
			serviceLog.LogServiceWarning(ctx, "ChecklistService", "tree cache generation unavailable", map[string]interface{}{
				"checklist_id": checklistID,
				"error":        err.Error(),
			})
		}
		return build()
	}

	var roots []*models.ItemNode
	err = cache.Aside(ctx, cache.ChecklistTreeKey(checklistID, gen), &roots, cache.ChecklistTreeTTL, func() error {
		built, err := build()
		roots = built
		return err
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// UpdateChecklist renames an owned checklist.
func (s *ChecklistService) UpdateChecklist(ctx context.Context, in UpdateChecklistInput) (*models.Checklist, error) {
	var checklist *models.Checklist
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		owned, err := tx.Checklists().GetOwned(ctx, in.ChecklistID, in.UserID)
		if err != nil {
			return err
		}
		title, err := validation.NormalizeTitle(in.Title)
		if err != nil {
			return validationError(err)
		}
		if err := tx.Checklists().UpdateTitle(ctx, owned, title); err != nil {
			return err
		}
		owned.Title = title
		checklist = owned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checklist, nil
}

// DeleteChecklist removes an owned checklist and every item in it.
func (s *ChecklistService) DeleteChecklist(ctx context.Context, userID, checklistID uint) error {
	var removed int64
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		checklist, err := tx.Checklists().GetOwned(ctx, checklistID, userID)
		if err != nil {
			return err
		}
		if removed, err = tx.Items().DeleteByChecklist(ctx, checklist.ID); err != nil {
			return err
		}
		return tx.Checklists().Delete(ctx, checklist.ID)
	})
	if err != nil {
		return err
	}

	invalidateTree(ctx, checklistID)
	serviceLog.LogServiceCall(ctx, "ChecklistService", "DeleteChecklist", map[string]interface{}{
		"checklist_id":  checklistID,
		"items_removed": removed,
	})
	return nil
}
