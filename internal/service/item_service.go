package service

import (
	"context"

	"smartchecklist/internal/featureflags"
	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"
	"smartchecklist/internal/repository"
	"smartchecklist/internal/validation"
)

// ItemService manages items inside checklists owned by the acting user.
type ItemService struct {
	store repository.Store
	opts  Options
}

// ItemScope identifies an item as seen by a user. ChecklistID zero matches
// any checklist the user owns.
type ItemScope struct {
	UserID      uint
	ChecklistID uint
	ItemID      uint
}

// CreateItemInput carries a new item. ParentItemID is the raw client value;
// empty means a root item.
type CreateItemInput struct {
	UserID       uint
	ChecklistID  uint
	Content      string
	URL          string
	ParentItemID string
}

// EditItemInput carries a partial update. Nil fields are left unchanged.
type EditItemInput struct {
	ItemScope
	Content *string
	URL     *string
	Checked *bool
}

// ToggleResult reports the state an item was toggled to.
type ToggleResult struct {
	Item    *models.Item
	Checked bool
	Message string
}

// NewItemService creates a new ItemService.
func NewItemService(store repository.Store, opts Options) *ItemService {
	return &ItemService{store: store, opts: opts}
}

// CreateItem adds an item to an owned checklist. The parent, when given,
// must already be in the same checklist.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	var item *models.Item
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Checklists().GetOwned(ctx, in.ChecklistID, in.UserID); err != nil {
			return err
		}

		content, err := normalizeContent(in.Content)
		if err != nil {
			return err
		}
		url, err := normalizeURL(in.URL)
		if err != nil {
			return err
		}
		parentID, err := validation.ParseParentID(in.ParentItemID)
		if err != nil {
			return validationError(err)
		}

		if parentID != nil {
			parent, err := tx.Items().GetByID(ctx, *parentID)
			if models.IsCode(err, models.CodeNotFound) || (err == nil && parent.ChecklistID != in.ChecklistID) {
				return validationError(validation.ErrInvalidParent)
			}
			if err != nil {
				return err
			}
		}

		item = &models.Item{
			ChecklistID:  in.ChecklistID,
			ParentItemID: parentID,
			Content:      content,
			URL:          url,
		}
		return tx.Items().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	invalidateTree(ctx, item.ChecklistID)
	return item, nil
}

// GetItem returns an owned item with its direct subitems.
func (s *ItemService) GetItem(ctx context.Context, scope ItemScope) (*models.ItemWithChildren, error) {
	var out *models.ItemWithChildren
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := s.owned(ctx, tx, scope)
		if err != nil {
			return err
		}
		children, err := tx.Items().ListByParent(ctx, item.ID)
		if err != nil {
			return err
		}
		out = &models.ItemWithChildren{Item: item, Subitems: children}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ItemService) ListItems(ctx context.Context, userID, checklistID uint) ([]*models.Item, error) {
	var items []*models.Item
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Checklists().GetOwned(ctx, checklistID, userID); err != nil {
			return err
		}
		var err error
		items, err = tx.Items().ListByChecklist(ctx, checklistID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ToggleItem flips an owned item between checked and unchecked.
func (s *ItemService) ToggleItem(ctx context.Context, scope ItemScope) (*ToggleResult, error) {
	var item *models.Item
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		owned, err := s.owned(ctx, tx, scope)
		if err != nil {
			return err
		}
		if err := tx.Items().SetChecked(ctx, owned, !owned.Checked); err != nil {
			return err
		}
		item = owned
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateTree(ctx, item.ChecklistID)
	msg := "Item marked as unchecked"
	if item.Checked {
		msg = "Item marked as checked"
	}
	return &ToggleResult{Item: item, Checked: item.Checked, Message: msg}, nil
}

// EditItem updates content, url and checked state. The parent never changes.
func (s *ItemService) EditItem(ctx context.Context, in EditItemInput) (*models.Item, error) {
	var item *models.Item
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		owned, err := s.owned(ctx, tx, in.ItemScope)
		if err != nil {
			return err
		}
		if in.Content != nil {
			if owned.Content, err = normalizeContent(*in.Content); err != nil {
				return err
			}
		}
		if in.URL != nil {
			if owned.URL, err = normalizeURL(*in.URL); err != nil {
				return err
			}
		}
		if in.Checked != nil {
			owned.Checked = *in.Checked
		}
		if err := tx.Items().Update(ctx, owned); err != nil {
			return err
		}
		item = owned
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateTree(ctx, item.ChecklistID)
	return item, nil
}

// DeleteItem removes an owned item with its whole subtree and returns the
// number of items deleted.
func (s *ItemService) DeleteItem(ctx context.Context, scope ItemScope) (int64, error) {
	span, ctx := observability.NewSpan(ctx, "ItemService.DeleteItem",
		observability.AttrItemID.Int64(int64(scope.ItemID)),
		observability.AttrUserID.Int64(int64(scope.UserID)),
	)
	defer span.End()

	opts := SubtreeOptions{Strategy: SubtreeIndexWalk, MaxDepth: s.opts.maxDepth()}
	if s.opts.Flags.EnabledOr(featureflags.RecursiveSubtreeDelete, scope.UserID, true) {
		opts.Strategy = SubtreeRecursiveQuery
	}
	span.AddAttributes(observability.AttrSubtreeStrategy.String(string(opts.Strategy)))

	var (
		checklistID uint
		deleted     int64
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := s.owned(ctx, tx, scope)
		if err != nil {
			return err
		}
		checklistID = item.ChecklistID
		deleted, err = DeleteSubtree(ctx, tx.Items(), item.ID, opts)
		return err
	})
	if err != nil {
		span.SetError(err)
		return 0, err
	}

	invalidateTree(ctx, checklistID)
	span.AddAttributes(observability.AttrSubtreeDeleted.Int64(deleted))
	serviceLog.LogServiceCall(ctx, "ItemService", "DeleteItem", map[string]interface{}{
		"item_id":  scope.ItemID,
		"deleted":  deleted,
		"strategy": string(opts.Strategy),
	})
	return deleted, nil
}

func (s *ItemService) owned(ctx context.Context, tx repository.Store, scope ItemScope) (*models.Item, error) {
	item, err := tx.Items().GetOwned(ctx, scope.ItemID, scope.UserID)
	if err != nil {
		return nil, err
	}
	if scope.ChecklistID != 0 && item.ChecklistID != scope.ChecklistID {
		return nil, models.NewNotFoundError("Item", scope.ItemID)
	}
	return item, nil
}
