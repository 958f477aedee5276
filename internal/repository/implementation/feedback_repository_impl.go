package implementation

import (
	"context"
	"errors"

	"consultation-be/internal/entity"
	"consultation-be/internal/mapper"
	"consultation-be/internal/model"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DerivedMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewDerivedMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *entity.Feedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*feedback = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) Update(ctx context.Context, feedback *entity.Feedback) error {
	return r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("id = ?", feedback.Id).
		Updates(map[string]interface{}{
			"rating":  feedback.Rating,
			"comment": feedback.Comment,
		}).Error
}

func (r *FeedbackRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *FeedbackRepositoryImpl) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Feedback, error) {
	return r.findOne(ctx, specification.ByEngagementID{EngagementID: engagementId})
}

func (r *FeedbackRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error) {
	var m model.Feedback
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FeedbackToEntity(&m), nil
}

func (r *FeedbackRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Feedback{}, "id = ?", id).Error
}

func (r *FeedbackRepositoryImpl) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("engagement_id = ?", engagementId).Delete(&model.Feedback{}).Error
}
