package repository

import (
	"context"

	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"

	"gorm.io/gorm"
)

// ChecklistRepository defines persistence operations for checklists.
type ChecklistRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Checklist, error)
	// GetOwned returns the checklist only when userID owns it. Checklists of
	// other users are reported as not found.
	GetOwned(ctx context.Context, id, userID uint) (*models.Checklist, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Checklist, error)
	Create(ctx context.Context, checklist *models.Checklist) error
	UpdateTitle(ctx context.Context, checklist *models.Checklist, title string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type checklistRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{
		db:      db,
		log:     observability.NewRepoLogger("checklists"),
		metrics: observability.NewDatabaseMetrics("checklists"),
	}
}

func (r *checklistRepository) GetByID(ctx context.Context, id uint) (*models.Checklist, error) {
	defer r.metrics.TrackQuery("get_by_id")()

	var checklist models.Checklist
	if err := r.db.WithContext(ctx).First(&checklist, id).Error; err != nil {
		return nil, notFoundOr(err, "Checklist", id)
	}
	return &checklist, nil
}

func (r *checklistRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Checklist, error) {
	defer r.metrics.TrackQuery("get_owned")()

	var checklist models.Checklist
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&checklist).Error
	if err != nil {
		return nil, notFoundOr(err, "Checklist", id)
	}
	return &checklist, nil
}

func (r *checklistRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Checklist, error) {
	defer r.metrics.TrackQuery("list_by_user")()

	checklists := []*models.Checklist{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&checklists).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return checklists, nil
}

func (r *checklistRepository) Create(ctx context.Context, checklist *models.Checklist) error {
	defer r.metrics.TrackQuery("create")()

	if err := r.db.WithContext(ctx).Create(checklist).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"checklist_id": checklist.ID, "user_id": checklist.UserID})
	return nil
}

func (r *checklistRepository) UpdateTitle(ctx context.Context, checklist *models.Checklist, title string) error {
	defer r.metrics.TrackQuery("update")()

	if err := r.db.WithContext(ctx).Model(checklist).Update("title", title).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"checklist_id": checklist.ID})
	return nil
}

func (r *checklistRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete")()

	if err := r.db.WithContext(ctx).Delete(&models.Checklist{}, id).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"checklist_id": id})
	return nil
}

func (r *checklistRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Checklist{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
