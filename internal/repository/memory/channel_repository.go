package memory

import (
	"context"
	"sort"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

type channelRepository struct {
	s *Store
}

func NewChannelRepository(s *Store) contract.ChannelRepository {
	return &channelRepository{s: s}
}

func (r *channelRepository) Create(ctx context.Context, channel *entity.Channel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.channels {
		if c.EngagementId == channel.EngagementId {
			return contract.ErrDuplicateKey
		}
	}
	ensureID(&channel.Id)
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now()
	}
	r.s.channels[channel.Id] = copyOf(channel)
	return nil
}

func (r *channelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.channels[id]), nil
}

func (r *channelRepository) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.channels {
		if c.EngagementId == engagementId {
			return copyOf(c), nil
		}
	}
	return nil, nil
}

func (r *channelRepository) FindByParticipant(ctx context.Context, userId uuid.UUID, role entity.UserRole) ([]*entity.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*entity.Channel, 0)
	for _, c := range r.s.channels {
		var match bool
		switch role {
		case entity.UserRoleRequester:
			match = c.RequesterId == userId
		case entity.UserRoleSpecialist:
			match = c.SpecialistId == userId
		default:
			match = c.HasParticipant(userId)
		}
		if match {
			result = append(result, copyOf(c))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].LastMessageAt, result[j].LastMessageAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *channelRepository) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.channels[id]
	if !ok {
		return nil
	}
	if c.LastMessageAt == nil || c.LastMessageAt.Before(at) {
		c.LastMessageAt = &at
		c.UpdatedAt = &at
	}
	return nil
}

func (r *channelRepository) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.channels {
		if c.EngagementId == engagementId {
			delete(r.s.channels, id)
		}
	}
	return nil
}
