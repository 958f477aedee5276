package dto

import (
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type CreateEngagementRequest struct {
	SpecialistId uuid.UUID  `json:"specialist_id" validate:"required"`
	Topic        string     `json:"topic" validate:"required,max=255"`
	Description  string     `json:"description" validate:"max=5000"`
	SubjectId    *uuid.UUID `json:"subject_id"`
	LocationId   *uuid.UUID `json:"location_id"`
}

// UpdateEngagementRequest leaves a field untouched when it is omitted.
type UpdateEngagementRequest struct {
	Topic       *string `json:"topic" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

type EngagementResponse struct {
	Id           uuid.UUID  `json:"id"`
	Topic        string     `json:"topic"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	RequesterId  uuid.UUID  `json:"requester_id"`
	SpecialistId uuid.UUID  `json:"specialist_id"`
	SubjectId    *uuid.UUID `json:"subject_id,omitempty"`
	LocationId   *uuid.UUID `json:"location_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
}

func NewEngagementResponse(e *entity.Engagement) *EngagementResponse {
	return &EngagementResponse{
		Id:           e.Id,
		Topic:        e.Topic,
		Description:  e.Description,
		Status:       string(e.Status),
		RequesterId:  e.RequesterId,
		SpecialistId: e.SpecialistId,
		SubjectId:    e.SubjectId,
		LocationId:   e.LocationId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		ClosedAt:     e.ClosedAt,
	}
}

func NewEngagementResponses(list []*entity.Engagement) []*EngagementResponse {
	res := make([]*EngagementResponse, len(list))
	for i, e := range list {
		res[i] = NewEngagementResponse(e)
	}
	return res
}
