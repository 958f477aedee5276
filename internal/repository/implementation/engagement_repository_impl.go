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
	"gorm.io/gorm/clause"
)

type EngagementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EngagementMapper
}

func NewEngagementRepository(db *gorm.DB) contract.EngagementRepository {
	return &EngagementRepositoryImpl{
		db:     db,
		mapper: mapper.NewEngagementMapper(),
	}
}

func (r *EngagementRepositoryImpl) Create(ctx context.Context, engagement *entity.Engagement) error {
	m := r.mapper.ToModel(engagement)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*engagement = *r.mapper.ToEntity(m)
	return nil
}

func (r *EngagementRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Engagement, error) {
	var m model.Engagement
	query := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EngagementRepositoryImpl) FindAll(ctx context.Context, filter entity.EngagementFilter) ([]*entity.Engagement, error) {
	var models []*model.Engagement
	query := applySpecifications(r.db.WithContext(ctx), specification.FromFilter(filter)...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EngagementRepositoryImpl) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Engagement, error) {
	var m model.Engagement
	query := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).
		Clauses(clause.Locking{Strength: "SHARE"})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EngagementRepositoryImpl) FindApprovedWithoutChannel(ctx context.Context, after *entity.EngagementCursor, limit int) ([]*entity.Engagement, error) {
	var models []*model.Engagement
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByStatus{Status: entity.EngagementStatusApproved},
		specification.WithoutChannel{},
		specification.AfterCursor{Cursor: after},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
		specification.Pagination{Limit: limit},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EngagementRepositoryImpl) ExistsPending(ctx context.Context, requesterId, specialistId uuid.UUID) (bool, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Engagement{}),
		specification.PendingBetween{RequesterID: requesterId, SpecialistID: specialistId},
	)
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EngagementRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EngagementStatus, at time.Time, closedAt *time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Engagement{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at,
			"closed_at":  closedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *EngagementRepositoryImpl) UpdateContent(ctx context.Context, id uuid.UUID, topic, description string, allowed []entity.EngagementStatus, at time.Time) (bool, error) {
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Engagement{}),
		specification.ByID{ID: id},
		specification.ByStatuses{Statuses: allowed},
	)
	result := query.Updates(map[string]interface{}{
		"topic":       topic,
		"description": description,
		"updated_at":  at,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *EngagementRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Engagement{}, "id = ?", id).Error
}
