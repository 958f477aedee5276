package service

import (
	"context"
	"strings"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/pkg/clock"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/unitofwork"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	defaultMessagePage = 50
	maxMessagePage     = 200
	maxMessageLength   = 10000
)

type IMessageService interface {
	Send(ctx context.Context, p *entity.Principal, channelId uuid.UUID, text string) (*entity.Message, error)
	MarkRead(ctx context.Context, p *entity.Principal, channelId uuid.UUID) (int64, error)
	MarkDelivered(ctx context.Context, p *entity.Principal, messageId uuid.UUID) (*entity.Message, error)
	UnreadCount(ctx context.Context, p *entity.Principal) (int64, error)
	UnreadCountInChannel(ctx context.Context, p *entity.Principal, channelId uuid.UUID) (int64, error)
	RoomsForParticipant(ctx context.Context, p *entity.Principal) ([]*entity.ChannelRoom, error)
	ListMessages(ctx context.Context, p *entity.Principal, channelId uuid.UUID, limit, offset int) ([]*entity.Message, error)
	Edit(ctx context.Context, p *entity.Principal, messageId uuid.UUID, text string) (*entity.Message, error)
	Delete(ctx context.Context, p *entity.Principal, messageId uuid.UUID) error
	Forward(ctx context.Context, p *entity.Principal, messageId, targetChannelId uuid.UUID) (*entity.Message, error)
}

type MessageServiceOption func(*messageService)

// WithTouchBackOff replaces the retry policy of the lastMessageAt update.
// The factory must return a fresh BackOff on every call.
func WithTouchBackOff(newBackOff func() backoff.BackOff) MessageServiceOption {
	return func(s *messageService) {
		s.newBackOff = newBackOff
	}
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	delivery   RealtimeDelivery
	clock      clock.Clock
	logger     logger.ILogger
	newBackOff func() backoff.BackOff
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	delivery RealtimeDelivery,
	clk clock.Clock,
	log logger.ILogger,
	opts ...MessageServiceOption,
) IMessageService {
	s := &messageService{
		uowFactory: uowFactory,
		delivery:   deliveryOrNop(delivery),
		clock:      clk,
		logger:     log,
		newBackOff: newTouchBackOff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newTouchBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Second
	return backoff.WithMaxRetries(bo, 3)
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.Validation("message text is required")
	}
	if len(text) > maxMessageLength {
		return "", apperror.Validation("message text exceeds %d bytes", maxMessageLength)
	}
	return text, nil
}

// loadChannel returns NotFound for a missing channel and Forbidden when the
// principal is not one of its two participants.
func loadChannel(ctx context.Context, repo contract.ChannelRepository, p *entity.Principal, channelId uuid.UUID) (*entity.Channel, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	channel, err := repo.FindByID(ctx, channelId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if channel == nil {
		return nil, apperror.NotFound("channel %s not found", channelId)
	}
	if !channel.HasParticipant(p.UserId) {
		return nil, apperror.Forbidden("not a participant of channel %s", channelId)
	}
	return channel, nil
}

func (s *messageService) Send(ctx context.Context, p *entity.Principal, channelId uuid.UUID, text string) (*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channel, err := loadChannel(ctx, uow.ChannelRepository(), p, channelId)
	if err != nil {
		return nil, err
	}
	text, err = normalizeText(text)
	if err != nil {
		return nil, err
	}
	return s.deliverNew(ctx, uow, channel, p.UserId, text, false)
}

// deliverNew inserts a SENT message, then moves lastMessageAt forward as a
// separate best-effort write, then pushes it to both participants.
func (s *messageService) deliverNew(ctx context.Context, uow unitofwork.UnitOfWork, channel *entity.Channel, senderId uuid.UUID, text string, forwarded bool) (*entity.Message, error) {
	if !channel.IsActive {
		return nil, apperror.InvalidState("channel %s is closed", channel.Id)
	}

	now := s.clock.Now()
	msg := &entity.Message{
		Id:          uuid.New(),
		ChannelId:   channel.Id,
		SenderId:    senderId,
		ReceiverId:  channel.Counterpart(senderId),
		Body:        text,
		Status:      entity.MessageStatusSent,
		SentAt:      now,
		IsForwarded: forwarded,
		CreatedAt:   now,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}

	s.touchLastMessage(ctx, uow.ChannelRepository(), channel.Id, now)

	payload := dto.NewMessageResponse(msg)
	s.delivery.SendToUser(msg.ReceiverId, dto.FrameMessageNew, payload)
	s.delivery.SendToUser(msg.SenderId, dto.FrameMessageNew, payload)
	return msg, nil
}

// touchLastMessage never fails the send. The write is monotonic so a retry
// that lands after a newer message is harmless.
func (s *messageService) touchLastMessage(ctx context.Context, repo contract.ChannelRepository, channelId uuid.UUID, at time.Time) {
	err := backoff.Retry(func() error {
		return repo.TouchLastMessage(ctx, channelId, at)
	}, backoff.WithContext(s.newBackOff(), ctx))
	if err != nil {
		s.logger.Warn("MessageService", "Failed to update channel last_message_at", map[string]interface{}{
			"channel_id": channelId,
			"error":      err,
		})
	}
}

func (s *messageService) MarkRead(ctx context.Context, p *entity.Principal, channelId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channel, err := loadChannel(ctx, uow.ChannelRepository(), p, channelId)
	if err != nil {
		return 0, err
	}

	updated, err := uow.MessageRepository().MarkReadForReceiver(ctx, channel.Id, p.UserId, s.clock.Now())
	if err != nil {
		return 0, apperror.Internal(err)
	}
	if updated > 0 {
		s.delivery.SendToUser(channel.Counterpart(p.UserId), dto.FrameMessageRead, dto.ReadReceiptPayload{
			ChannelId: channel.Id,
			ReaderId:  p.UserId,
			Updated:   updated,
		})
	}
	return updated, nil
}

// MarkDelivered is called by the transport when the receiver's device acks a
// message. Anything other than SENT is left alone.
func (s *messageService) MarkDelivered(ctx context.Context, p *entity.Principal, messageId uuid.UUID) (*entity.Message, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	repo := s.uowFactory.NewUnitOfWork(ctx).MessageRepository()
	msg, err := s.loadMessage(ctx, repo, messageId)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverId != p.UserId {
		return nil, apperror.Forbidden("only the receiver can acknowledge message %s", messageId)
	}

	now := s.clock.Now()
	ok, err := repo.MarkDelivered(ctx, messageId, p.UserId, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return msg, nil
	}

	msg.Status = entity.MessageStatusDelivered
	msg.DeliveredAt = &now
	s.delivery.SendToUser(msg.SenderId, dto.FrameMessageDelivered, dto.NewMessageResponse(msg))
	return msg, nil
}

func (s *messageService) UnreadCount(ctx context.Context, p *entity.Principal) (int64, error) {
	if err := requirePrincipal(p); err != nil {
		return 0, err
	}
	count, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().CountUnread(ctx, p.UserId)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

func (s *messageService) UnreadCountInChannel(ctx context.Context, p *entity.Principal, channelId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channel, err := loadChannel(ctx, uow.ChannelRepository(), p, channelId)
	if err != nil {
		return 0, err
	}
	count, err := uow.MessageRepository().CountUnreadInChannel(ctx, channel.Id, p.UserId)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

// RoomsForParticipant lists the caller's channels by most recent activity,
// each with the caller's unread count.
func (s *messageService) RoomsForParticipant(ctx context.Context, p *entity.Principal) ([]*entity.ChannelRoom, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channels, err := uow.ChannelRepository().FindByParticipant(ctx, p.UserId, p.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids := make([]uuid.UUID, len(channels))
	for i, c := range channels {
		ids[i] = c.Id
	}
	counts, err := uow.MessageRepository().CountUnreadByChannel(ctx, p.UserId, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rooms := make([]*entity.ChannelRoom, len(channels))
	for i, c := range channels {
		rooms[i] = &entity.ChannelRoom{Channel: c, UnreadCount: counts[c.Id]}
	}
	return rooms, nil
}

func (s *messageService) ListMessages(ctx context.Context, p *entity.Principal, channelId uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadChannel(ctx, uow.ChannelRepository(), p, channelId); err != nil {
		return nil, err
	}
	if limit < 0 || offset < 0 {
		return nil, apperror.Validation("limit and offset must not be negative")
	}
	if limit == 0 {
		limit = defaultMessagePage
	}
	if limit > maxMessagePage {
		limit = maxMessagePage
	}
	list, err := uow.MessageRepository().FindByChannel(ctx, channelId, limit, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *messageService) Edit(ctx context.Context, p *entity.Principal, messageId uuid.UUID, text string) (*entity.Message, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}
	repo := s.uowFactory.NewUnitOfWork(ctx).MessageRepository()
	msg, err := s.loadOwnMessage(ctx, repo, p, messageId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := repo.UpdateBody(ctx, messageId, p.UserId, text, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.NotFound("message %s not found", messageId)
	}
	msg.Body = text
	msg.IsEdited = true
	msg.UpdatedAt = &now
	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, p *entity.Principal, messageId uuid.UUID) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	repo := s.uowFactory.NewUnitOfWork(ctx).MessageRepository()
	if _, err := s.loadOwnMessage(ctx, repo, p, messageId); err != nil {
		return err
	}
	ok, err := repo.SoftDelete(ctx, messageId, p.UserId, s.clock.Now())
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.NotFound("message %s not found", messageId)
	}
	return nil
}

// Forward copies a message the caller can see into another channel the
// caller belongs to.
func (s *messageService) Forward(ctx context.Context, p *entity.Principal, messageId, targetChannelId uuid.UUID) (*entity.Message, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	original, err := s.loadMessage(ctx, uow.MessageRepository(), messageId)
	if err != nil {
		return nil, err
	}
	if _, err := loadChannel(ctx, uow.ChannelRepository(), p, original.ChannelId); err != nil {
		return nil, err
	}
	target, err := loadChannel(ctx, uow.ChannelRepository(), p, targetChannelId)
	if err != nil {
		return nil, err
	}
	return s.deliverNew(ctx, uow, target, p.UserId, original.Body, true)
}

func (s *messageService) loadMessage(ctx context.Context, repo contract.MessageRepository, messageId uuid.UUID) (*entity.Message, error) {
	msg, err := repo.FindByID(ctx, messageId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if msg == nil || msg.IsDeleted {
		return nil, apperror.NotFound("message %s not found", messageId)
	}
	return msg, nil
}

func (s *messageService) loadOwnMessage(ctx context.Context, repo contract.MessageRepository, p *entity.Principal, messageId uuid.UUID) (*entity.Message, error) {
	msg, err := s.loadMessage(ctx, repo, messageId)
	if err != nil {
		return nil, err
	}
	if msg.SenderId != p.UserId {
		return nil, apperror.Forbidden("only the sender can change message %s", messageId)
	}
	return msg, nil
}
