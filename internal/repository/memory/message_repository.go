package memory

import (
	"context"
	"sort"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

type messageRepository struct {
	s *Store
}

func NewMessageRepository(s *Store) contract.MessageRepository {
	return &messageRepository{s: s}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&message.Id)
	if message.CreatedAt.IsZero() {
		message.CreatedAt = message.SentAt
	}
	r.s.messages[message.Id] = copyOf(message)
	return nil
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.messages[id]), nil
}

func (r *messageRepository) FindByChannel(ctx context.Context, channelId uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*entity.Message, 0)
	for _, m := range r.s.messages {
		if m.ChannelId == channelId && !m.IsDeleted {
			result = append(result, copyOf(m))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	return paginate(result, limit, offset), nil
}

func (r *messageRepository) MarkDelivered(ctx context.Context, id, receiverId uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.ReceiverId != receiverId || m.Status != entity.MessageStatusSent {
		return false, nil
	}
	m.Status = entity.MessageStatusDelivered
	m.DeliveredAt = &at
	m.UpdatedAt = &at
	return true, nil
}

func (r *messageRepository) MarkReadForReceiver(ctx context.Context, channelId, receiverId uuid.UUID, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if m.ChannelId != channelId || m.ReceiverId != receiverId || m.Status == entity.MessageStatusRead {
			continue
		}
		m.Status = entity.MessageStatusRead
		m.ReadAt = &at
		m.UpdatedAt = &at
		n++
	}
	return n, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if isUnreadFor(m, receiverId) {
			n++
		}
	}
	return n, nil
}

func (r *messageRepository) CountUnreadInChannel(ctx context.Context, channelId, receiverId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if m.ChannelId == channelId && isUnreadFor(m, receiverId) {
			n++
		}
	}
	return n, nil
}

func (r *messageRepository) CountUnreadByChannel(ctx context.Context, receiverId uuid.UUID, channelIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]struct{}, len(channelIds))
	for _, id := range channelIds {
		wanted[id] = struct{}{}
	}
	counts := make(map[uuid.UUID]int64, len(channelIds))
	for _, m := range r.s.messages {
		if _, ok := wanted[m.ChannelId]; ok && isUnreadFor(m, receiverId) {
			counts[m.ChannelId]++
		}
	}
	return counts, nil
}

func isUnreadFor(m *entity.Message, receiverId uuid.UUID) bool {
	return m.ReceiverId == receiverId && m.Status != entity.MessageStatusRead && !m.IsDeleted
}

func (r *messageRepository) UpdateBody(ctx context.Context, id, senderId uuid.UUID, body string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.SenderId != senderId || m.IsDeleted {
		return false, nil
	}
	m.Body = body
	m.IsEdited = true
	m.UpdatedAt = &at
	return true, nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, id, senderId uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok || m.SenderId != senderId || m.IsDeleted {
		return false, nil
	}
	m.IsDeleted = true
	m.DeletedAt = &at
	m.UpdatedAt = &at
	return true, nil
}

func (r *messageRepository) DeleteByChannelID(ctx context.Context, channelId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.messages {
		if m.ChannelId == channelId {
			delete(r.s.messages, id)
		}
	}
	return nil
}
