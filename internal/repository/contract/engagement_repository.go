package contract

import (
	"context"
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type EngagementRepository interface {
	Create(ctx context.Context, engagement *entity.Engagement) error
	// FindByID returns nil, nil when no engagement exists.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Engagement, error)
	// FindByIDForShare reads like FindByID but holds a share lock on the row
	// until the surrounding transaction ends, so a concurrent status change
	// waits for it.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Engagement, error)
	FindAll(ctx context.Context, filter entity.EngagementFilter) ([]*entity.Engagement, error)
	// FindApprovedWithoutChannel pages APPROVED engagements that have no
	// channel row, ordered by (created_at, id) and strictly after the cursor
	// when one is given.
	FindApprovedWithoutChannel(ctx context.Context, after *entity.EngagementCursor, limit int) ([]*entity.Engagement, error)
	ExistsPending(ctx context.Context, requesterId, specialistId uuid.UUID) (bool, error)
	// TransitionStatus moves id from `from` to `to` in one conditional write
	// and reports whether this caller won. closedAt is written as given.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EngagementStatus, at time.Time, closedAt *time.Time) (bool, error)
	// UpdateContent rewrites topic and description only while the status is
	// one of allowed.
	UpdateContent(ctx context.Context, id uuid.UUID, topic, description string, allowed []entity.EngagementStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
