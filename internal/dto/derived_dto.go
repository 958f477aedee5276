package dto

import (
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

// --- Visit ---

type CreateVisitRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=5000"`
}

type RescheduleVisitRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

type UpdateVisitStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
}

type VisitResponse struct {
	Id           uuid.UUID  `json:"id"`
	EngagementId uuid.UUID  `json:"engagement_id"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func NewVisitResponse(v *entity.Visit) *VisitResponse {
	return &VisitResponse{
		Id:           v.Id,
		EngagementId: v.EngagementId,
		CreatedBy:    v.CreatedBy,
		ScheduledAt:  v.ScheduledAt,
		Notes:        v.Notes,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func NewVisitResponses(list []*entity.Visit) []*VisitResponse {
	res := make([]*VisitResponse, len(list))
	for i, v := range list {
		res[i] = NewVisitResponse(v)
	}
	return res
}

// --- Report ---

// AttachmentRequest carries metadata only; the binary lives in external
// storage under StorageRef.
type AttachmentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"gte=0"`
	StorageRef  string `json:"storage_ref" validate:"required"`
}

type CreateReportRequest struct {
	Title           string              `json:"title" validate:"required,max=255"`
	Findings        string              `json:"findings"`
	Recommendations string              `json:"recommendations"`
	Attachments     []AttachmentRequest `json:"attachments" validate:"dive"`
}

type UpdateReportRequest struct {
	Title           string              `json:"title" validate:"required,max=255"`
	Findings        string              `json:"findings"`
	Recommendations string              `json:"recommendations"`
	Attachments     []AttachmentRequest `json:"attachments" validate:"dive"`
}

func (r AttachmentRequest) ToEntity() entity.Attachment {
	return entity.Attachment{
		Name:        r.Name,
		ContentType: r.ContentType,
		Size:        r.Size,
		StorageRef:  r.StorageRef,
	}
}

func AttachmentsToEntities(list []AttachmentRequest) []entity.Attachment {
	res := make([]entity.Attachment, len(list))
	for i, a := range list {
		res[i] = a.ToEntity()
	}
	return res
}

type ReportResponse struct {
	Id              uuid.UUID           `json:"id"`
	EngagementId    uuid.UUID           `json:"engagement_id"`
	CreatedBy       uuid.UUID           `json:"created_by"`
	Title           string              `json:"title"`
	Findings        string              `json:"findings"`
	Recommendations string              `json:"recommendations"`
	Attachments     []entity.Attachment `json:"attachments"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at"`
}

func NewReportResponse(r *entity.Report) *ReportResponse {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	return &ReportResponse{
		Id:              r.Id,
		EngagementId:    r.EngagementId,
		CreatedBy:       r.CreatedBy,
		Title:           r.Title,
		Findings:        r.Findings,
		Recommendations: r.Recommendations,
		Attachments:     attachments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func NewReportResponses(list []*entity.Report) []*ReportResponse {
	res := make([]*ReportResponse, len(list))
	for i, r := range list {
		res[i] = NewReportResponse(r)
	}
	return res
}

// --- Feedback ---

type CreateFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

type UpdateFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

type FeedbackResponse struct {
	Id           uuid.UUID  `json:"id"`
	EngagementId uuid.UUID  `json:"engagement_id"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func NewFeedbackResponse(f *entity.Feedback) *FeedbackResponse {
	return &FeedbackResponse{
		Id:           f.Id,
		EngagementId: f.EngagementId,
		CreatedBy:    f.CreatedBy,
		Rating:       f.Rating,
		Comment:      f.Comment,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
