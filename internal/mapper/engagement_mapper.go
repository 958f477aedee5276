package mapper

import (
	"consultation-be/internal/entity"
	"consultation-be/internal/model"
)

type EngagementMapper struct{}

func NewEngagementMapper() *EngagementMapper {
	return &EngagementMapper{}
}

func (m *EngagementMapper) ToEntity(e *model.Engagement) *entity.Engagement {
	if e == nil {
		return nil
	}
	return &entity.Engagement{
		Id:           e.Id,
		Topic:        e.Topic,
		Description:  e.Description,
		Status:       entity.EngagementStatus(e.Status),
		RequesterId:  e.RequesterId,
		SpecialistId: e.SpecialistId,
		SubjectId:    e.SubjectId,
		LocationId:   e.LocationId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAtPtr(e.UpdatedAt),
		ClosedAt:     e.ClosedAt,
	}
}

func (m *EngagementMapper) ToModel(e *entity.Engagement) *model.Engagement {
	if e == nil {
		return nil
	}
	return &model.Engagement{
		Id:           e.Id,
		Topic:        e.Topic,
		Description:  e.Description,
		Status:       string(e.Status),
		RequesterId:  e.RequesterId,
		SpecialistId: e.SpecialistId,
		SubjectId:    e.SubjectId,
		LocationId:   e.LocationId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAtValue(e.UpdatedAt),
		ClosedAt:     e.ClosedAt,
	}
}

func (m *EngagementMapper) ToEntities(rows []*model.Engagement) []*entity.Engagement {
	entities := make([]*entity.Engagement, len(rows))
	for i, e := range rows {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
