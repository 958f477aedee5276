package contract

import (
	"context"
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type VisitRepository interface {
	Create(ctx context.Context, visit *entity.Visit) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Visit, error)
	FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Visit, error)
	// Reschedule and TransitionStatus only apply while the visit is SCHEDULED.
	Reschedule(ctx context.Context, id uuid.UUID, scheduledAt, at time.Time) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to entity.VisitStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error
}
