package repository

import (
	"context"
	"fmt"

	"smartchecklist/internal/itemtree"
	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"

	"gorm.io/gorm"
)

// deleteChunkSize keeps IN lists below SQLite's bound parameter limit.
const deleteChunkSize = 500

// subtreeQuery walks parent links from the root, one level per iteration,
// and stops at the depth limit so malformed cyclic data still terminates.
const subtreeQuery = `
WITH RECURSIVE subtree(id, depth) AS (
	SELECT id, 0 FROM items WHERE id = ?
	UNION
	SELECT i.id, s.depth + 1
	FROM items i
	JOIN subtree s ON i.parent_item_id = s.id
	WHERE s.depth < ?
)
SELECT id, MIN(depth) AS depth FROM subtree GROUP BY id ORDER BY depth, id`

// ItemRepository defines persistence operations for checklist items.
type ItemRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	// GetOwned returns the item only when its checklist belongs to userID.
	GetOwned(ctx context.Context, id, userID uint) (*models.Item, error)
	ListByChecklist(ctx context.Context, checklistID uint) ([]*models.Item, error)
	ListByParent(ctx context.Context, parentID uint) ([]*models.Item, error)
	// ParentIndex returns the id and parent id of every item in a checklist.
	ParentIndex(ctx context.Context, checklistID uint) ([]models.ItemRef, error)
	// ChildRefs returns the id and parent id of every item whose parent is
	// in parentIDs, whatever checklist the child belongs to.
	ChildRefs(ctx context.Context, parentIDs []uint) ([]models.ItemRef, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	SetChecked(ctx context.Context, item *models.Item, checked bool) error
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteByChecklist(ctx context.Context, checklistID uint) (int64, error)
	// SubtreeIDs returns rootID and all of its descendants using a
	// recursive query. It returns no ids when the root does not exist and
	// itemtree.ErrTooDeep when items lie below maxDepth.
	SubtreeIDs(ctx context.Context, rootID uint, maxDepth int) ([]uint, error)
	// DeleteSubtree removes rootID and all of its descendants.
	DeleteSubtree(ctx context.Context, rootID uint, maxDepth int) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{
		db:      db,
		log:     observability.NewRepoLogger("items"),
		metrics: observability.NewDatabaseMetrics("items"),
	}
}

func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	defer r.metrics.TrackQuery("get_by_id")()

	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFoundOr(err, "Item", id)
	}
	return &item, nil
}

func (r *itemRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Item, error) {
	defer r.metrics.TrackQuery("get_owned")()

	var item models.Item
	err := r.db.WithContext(ctx).
		Select("items.*").
		Joins("JOIN checklists ON checklists.id = items.checklist_id").
		Where("items.id = ? AND checklists.user_id = ?", id, userID).
		Take(&item).Error
	if err != nil {
		return nil, notFoundOr(err, "Item", id)
	}
	return &item, nil
}

func (r *itemRepository) ListByChecklist(ctx context.Context, checklistID uint) ([]*models.Item, error) {
	defer r.metrics.TrackQuery("list_by_checklist")()

	items := []*models.Item{}
	err := r.db.WithContext(ctx).Where("checklist_id = ?", checklistID).Order("id asc").Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *itemRepository) ListByParent(ctx context.Context, parentID uint) ([]*models.Item, error) {
	defer r.metrics.TrackQuery("list_by_parent")()

	items := []*models.Item{}
	err := r.db.WithContext(ctx).Where("parent_item_id = ?", parentID).Order("id asc").Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *itemRepository) ParentIndex(ctx context.Context, checklistID uint) ([]models.ItemRef, error) {
	defer r.metrics.TrackQuery("parent_index")()

	refs := []models.ItemRef{}
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("id", "parent_item_id").
		Where("checklist_id = ?", checklistID).
		Order("id asc").
		Scan(&refs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return refs, nil
}

func (r *itemRepository) ChildRefs(ctx context.Context, parentIDs []uint) ([]models.ItemRef, error) {
	defer r.metrics.TrackQuery("child_refs")()

	refs := []models.ItemRef{}
	for start := 0; start < len(parentIDs); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(parentIDs))
		var chunk []models.ItemRef
		err := r.db.WithContext(ctx).
			Model(&models.Item{}).
			Select("id", "parent_item_id").
			Where("parent_item_id IN ?", parentIDs[start:end]).
			Order("id asc").
			Scan(&chunk).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		refs = append(refs, chunk...)
	}
	return refs, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	defer r.metrics.TrackQuery("create")()

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"item_id":      item.ID,
		"checklist_id": item.ChecklistID,
	})
	return nil
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	defer r.metrics.TrackQuery("update")()

	err := r.db.WithContext(ctx).
		Model(item).
		Select("content", "url", "checked").
		Updates(item).Error
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"item_id": item.ID})
	return nil
}

func (r *itemRepository) SetChecked(ctx context.Context, item *models.Item, checked bool) error {
	defer r.metrics.TrackQuery("set_checked")()

	if err := r.db.WithContext(ctx).Model(item).Update("checked", checked).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	item.Checked = checked
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.DeleteByIDs(ctx, []uint{id})
}

func (r *itemRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	defer r.metrics.TrackQuery("delete")()

	var total int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		res := r.db.WithContext(ctx).Where("id IN ?", ids[start:end]).Delete(&models.Item{})
		if res.Error != nil {
			r.log.LogError(ctx, res.Error, "delete")
			return total, models.NewInternalError(res.Error)
		}
		total += res.RowsAffected
	}
	if total > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"item_ids": ids, "rows": total})
	}
	return total, nil
}

func (r *itemRepository) DeleteByChecklist(ctx context.Context, checklistID uint) (int64, error) {
	defer r.metrics.TrackQuery("delete_by_checklist")()

	res := r.db.WithContext(ctx).Where("checklist_id = ?", checklistID).Delete(&models.Item{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return 0, models.NewInternalError(res.Error)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"checklist_id": checklistID, "rows": res.RowsAffected})
	return res.RowsAffected, nil
}

type subtreeRow struct {
	ID    uint
	Depth int
}

func (r *itemRepository) SubtreeIDs(ctx context.Context, rootID uint, maxDepth int) ([]uint, error) {
	defer r.metrics.TrackQuery("subtree_ids")()

	if maxDepth < 1 {
		return nil, fmt.Errorf("max depth must be positive, got %d", maxDepth)
	}

	var rows []subtreeRow
	if err := r.db.WithContext(ctx).Raw(subtreeQuery, rootID, maxDepth).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	var frontier []uint
	for _, row := range rows {
		ids = append(ids, row.ID)
		seen[row.ID] = struct{}{}
		if row.Depth == maxDepth {
			frontier = append(frontier, row.ID)
		}
	}

	// Nodes at the limit may still have children the query did not reach.
	if len(frontier) > 0 {
		var below []uint
		err := r.db.WithContext(ctx).
			Model(&models.Item{}).
			Where("parent_item_id IN ?", frontier).
			Pluck("id", &below).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		for _, id := range below {
			if _, ok := seen[id]; !ok {
				return nil, itemtree.ErrTooDeep
			}
		}
	}
	return ids, nil
}

func (r *itemRepository) DeleteSubtree(ctx context.Context, rootID uint, maxDepth int) (int64, error) {
	ids, err := r.SubtreeIDs(ctx, rootID, maxDepth)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return r.DeleteByIDs(ctx, ids)
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
