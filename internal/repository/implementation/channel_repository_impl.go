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

type ChannelRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChannelRepository(db *gorm.DB) contract.ChannelRepository {
	return &ChannelRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChannelRepositoryImpl) Create(ctx context.Context, channel *entity.Channel) error {
	m := r.mapper.ChannelToModel(channel)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*channel = *r.mapper.ChannelToEntity(m)
	return nil
}

func (r *ChannelRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Channel, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *ChannelRepositoryImpl) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Channel, error) {
	return r.findOne(ctx, specification.ByEngagementID{EngagementID: engagementId})
}

func (r *ChannelRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Channel, error) {
	var m model.Channel
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChannelToEntity(&m), nil
}

func (r *ChannelRepositoryImpl) FindByParticipant(ctx context.Context, userId uuid.UUID, role entity.UserRole) ([]*entity.Channel, error) {
	var models []*model.Channel
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ParticipantOf{UserID: userId, Role: role},
		specification.RoomOrder{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	channels := make([]*entity.Channel, len(models))
	for i, m := range models {
		channels[i] = r.mapper.ChannelToEntity(m)
	}
	return channels, nil
}

func (r *ChannelRepositoryImpl) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Channel{}).
		Where("id = ? AND (last_message_at IS NULL OR last_message_at < ?)", id, at).
		Updates(map[string]interface{}{
			"last_message_at": at,
			"updated_at":      at,
		}).Error
}

func (r *ChannelRepositoryImpl) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("engagement_id = ?", engagementId).Delete(&model.Channel{}).Error
}
