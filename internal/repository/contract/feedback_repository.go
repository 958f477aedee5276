package contract

import (
	"context"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type FeedbackRepository interface {
	// Create returns ErrDuplicateKey if the engagement already has feedback.
	Create(ctx context.Context, feedback *entity.Feedback) error
	Update(ctx context.Context, feedback *entity.Feedback) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error)
	FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error
}
