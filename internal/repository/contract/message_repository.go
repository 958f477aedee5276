package contract

import (
	"context"
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error)
	// FindByChannel returns non-deleted messages newest first.
	FindByChannel(ctx context.Context, channelId uuid.UUID, limit, offset int) ([]*entity.Message, error)
	MarkDelivered(ctx context.Context, id, receiverId uuid.UUID, at time.Time) (bool, error)
	// MarkReadForReceiver sets status READ and read_at together on every
	// non-READ message addressed to receiverId in the channel.
	MarkReadForReceiver(ctx context.Context, channelId, receiverId uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error)
	CountUnreadInChannel(ctx context.Context, channelId, receiverId uuid.UUID) (int64, error)
	CountUnreadByChannel(ctx context.Context, receiverId uuid.UUID, channelIds []uuid.UUID) (map[uuid.UUID]int64, error)
	UpdateBody(ctx context.Context, id, senderId uuid.UUID, body string, at time.Time) (bool, error)
	SoftDelete(ctx context.Context, id, senderId uuid.UUID, at time.Time) (bool, error)
	DeleteByChannelID(ctx context.Context, channelId uuid.UUID) error
}
