package implementation

import (
	"context"
	"errors"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/mapper"
	"consultation-be/internal/model"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DerivedMapper
}

func NewVisitRepository(db *gorm.DB) contract.VisitRepository {
	return &VisitRepositoryImpl{
		db:     db,
		mapper: mapper.NewDerivedMapper(),
	}
}

func (r *VisitRepositoryImpl) Create(ctx context.Context, visit *entity.Visit) error {
	m := r.mapper.VisitToModel(visit)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*visit = *r.mapper.VisitToEntity(m)
	return nil
}

func (r *VisitRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Visit, error) {
	var m model.Visit
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.VisitToEntity(&m), nil
}

func (r *VisitRepositoryImpl) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Visit, error) {
	var models []*model.Visit
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByEngagementID{EngagementID: engagementId},
		specification.OrderBy{Field: "scheduled_at"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	visits := make([]*entity.Visit, len(models))
	for i, m := range models {
		visits[i] = r.mapper.VisitToEntity(m)
	}
	return visits, nil
}

func (r *VisitRepositoryImpl) Reschedule(ctx context.Context, id uuid.UUID, scheduledAt, at time.Time) (bool, error) {
	return r.updateScheduled(ctx, id, map[string]interface{}{
		"scheduled_at": scheduledAt,
		"updated_at":   at,
	})
}

func (r *VisitRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, to entity.VisitStatus, at time.Time) (bool, error) {
	return r.updateScheduled(ctx, id, map[string]interface{}{
		"status":     string(to),
		"updated_at": at,
	})
}

func (r *VisitRepositoryImpl) updateScheduled(ctx context.Context, id uuid.UUID, values map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Visit{}).
		Where("id = ? AND status = ?", id, string(entity.VisitStatusScheduled)).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *VisitRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Visit{}, "id = ?", id).Error
}

func (r *VisitRepositoryImpl) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("engagement_id = ?", engagementId).Delete(&model.Visit{}).Error
}
