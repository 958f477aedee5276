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

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DerivedMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewDerivedMapper(),
	}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *entity.Report) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, report *entity.Report) error {
	m := r.mapper.ReportToModel(report)
	return r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", report.Id).
		Updates(map[string]interface{}{
			"title":           m.Title,
			"findings":        m.Findings,
			"recommendations": m.Recommendations,
			"attachments":     m.Attachments,
		}).Error
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	var m model.Report
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReportToEntity(&m), nil
}

func (r *ReportRepositoryImpl) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Report, error) {
	var models []*model.Report
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByEngagementID{EngagementID: engagementId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	reports := make([]*entity.Report, len(models))
	for i, m := range models {
		reports[i] = r.mapper.ReportToEntity(m)
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Report{}, "id = ?", id).Error
}

func (r *ReportRepositoryImpl) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("engagement_id = ?", engagementId).Delete(&model.Report{}).Error
}
