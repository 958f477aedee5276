package implementation

import (
	"context"
	"errors"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/mapper"
	"consultation-be/internal/model"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error) {
	var m model.Message
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindByChannel(ctx context.Context, channelId uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	var models []*model.Message
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByChannelID{ChannelID: channelId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "sent_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]*entity.Message, len(models))
	for i, m := range models {
		messages[i] = r.mapper.MessageToEntity(m)
	}
	return messages, nil
}

func (r *MessageRepositoryImpl) MarkDelivered(ctx context.Context, id, receiverId uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND receiver_id = ? AND status = ?", id, receiverId, string(entity.MessageStatusSent)).
		Updates(map[string]interface{}{
			"status":       string(entity.MessageStatusDelivered),
			"delivered_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkReadForReceiver is one UPDATE so status and read_at can never diverge,
// even when a send races with the sweep.
func (r *MessageRepositoryImpl) MarkReadForReceiver(ctx context.Context, channelId, receiverId uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("channel_id = ? AND receiver_id = ? AND status <> ?", channelId, receiverId, string(entity.MessageStatusRead)).
		Updates(map[string]interface{}{
			"status":     string(entity.MessageStatusRead),
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}),
		specification.UnreadFor{ReceiverID: receiverId},
	)
	err := query.Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) CountUnreadInChannel(ctx context.Context, channelId, receiverId uuid.UUID) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}),
		specification.ByChannelID{ChannelID: channelId},
		specification.UnreadFor{ReceiverID: receiverId},
	)
	err := query.Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) CountUnreadByChannel(ctx context.Context, receiverId uuid.UUID, channelIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(channelIds))
	if len(channelIds) == 0 {
		return counts, nil
	}

	var rows []struct {
		ChannelId uuid.UUID
		Total     int64
	}
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}),
		specification.UnreadFor{ReceiverID: receiverId},
	)
	err := query.
		Select("channel_id, COUNT(*) AS total").
		Where("channel_id IN ?", channelIds).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ChannelId] = row.Total
	}
	return counts, nil
}

func (r *MessageRepositoryImpl) UpdateBody(ctx context.Context, id, senderId uuid.UUID, body string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND sender_id = ? AND is_deleted = ?", id, senderId, false).
		Updates(map[string]interface{}{
			"body":       body,
			"is_edited":  true,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *MessageRepositoryImpl) SoftDelete(ctx context.Context, id, senderId uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND sender_id = ? AND is_deleted = ?", id, senderId, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *MessageRepositoryImpl) DeleteByChannelID(ctx context.Context, channelId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("channel_id = ?", channelId).Delete(&model.Message{}).Error
}
