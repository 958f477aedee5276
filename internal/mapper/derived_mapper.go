package mapper

import (
	"consultation-be/internal/entity"
	"consultation-be/internal/model"
)

// DerivedMapper converts the engagement-owned resources: visits, reports and
// feedback.
type DerivedMapper struct{}

func NewDerivedMapper() *DerivedMapper {
	return &DerivedMapper{}
}

func (m *DerivedMapper) VisitToEntity(v *model.Visit) *entity.Visit {
	if v == nil {
		return nil
	}
	return &entity.Visit{
		Id:           v.Id,
		EngagementId: v.EngagementId,
		CreatedBy:    v.CreatedBy,
		ScheduledAt:  v.ScheduledAt,
		Notes:        v.Notes,
		Status:       entity.VisitStatus(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    updatedAtPtr(v.UpdatedAt),
	}
}

func (m *DerivedMapper) VisitToModel(v *entity.Visit) *model.Visit {
	if v == nil {
		return nil
	}
	return &model.Visit{
		Id:           v.Id,
		EngagementId: v.EngagementId,
		CreatedBy:    v.CreatedBy,
		ScheduledAt:  v.ScheduledAt,
		Notes:        v.Notes,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    updatedAtValue(v.UpdatedAt),
	}
}

func (m *DerivedMapper) ReportToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}
	attachments := make([]entity.Attachment, len(r.Attachments))
	for i, a := range r.Attachments {
		attachments[i] = entity.Attachment{
			Name:        a.Name,
			ContentType: a.ContentType,
			Size:        a.Size,
			StorageRef:  a.StorageRef,
		}
	}
	return &entity.Report{
		Id:              r.Id,
		EngagementId:    r.EngagementId,
		CreatedBy:       r.CreatedBy,
		Title:           r.Title,
		Findings:        r.Findings,
		Recommendations: r.Recommendations,
		Attachments:     attachments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAtPtr(r.UpdatedAt),
	}
}

func (m *DerivedMapper) ReportToModel(r *entity.Report) *model.Report {
	if r == nil {
		return nil
	}
	attachments := make([]model.AttachmentMeta, len(r.Attachments))
	for i, a := range r.Attachments {
		attachments[i] = model.AttachmentMeta{
			Name:        a.Name,
			ContentType: a.ContentType,
			Size:        a.Size,
			StorageRef:  a.StorageRef,
		}
	}
	return &model.Report{
		Id:              r.Id,
		EngagementId:    r.EngagementId,
		CreatedBy:       r.CreatedBy,
		Title:           r.Title,
		Findings:        r.Findings,
		Recommendations: r.Recommendations,
		Attachments:     attachments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAtValue(r.UpdatedAt),
	}
}

func (m *DerivedMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:           f.Id,
		EngagementId: f.EngagementId,
		CreatedBy:    f.CreatedBy,
		Rating:       f.Rating,
		Comment:      f.Comment,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    updatedAtPtr(f.UpdatedAt),
	}
}

func (m *DerivedMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:           f.Id,
		EngagementId: f.EngagementId,
		CreatedBy:    f.CreatedBy,
		Rating:       f.Rating,
		Comment:      f.Comment,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    updatedAtValue(f.UpdatedAt),
	}
}
