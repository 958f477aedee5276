package contract

import (
	"context"
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type ChannelRepository interface {
	// Create returns ErrDuplicateKey if the engagement already has a channel.
	Create(ctx context.Context, channel *entity.Channel) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Channel, error)
	FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Channel, error)
	// FindByParticipant orders by last_message_at DESC, rooms without
	// messages last, newest room first among ties.
	FindByParticipant(ctx context.Context, userId uuid.UUID, role entity.UserRole) ([]*entity.Channel, error)
	// TouchLastMessage only ever moves last_message_at forward.
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error
}
