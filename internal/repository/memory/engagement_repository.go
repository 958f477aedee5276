package memory

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

type engagementRepository struct {
	s *Store
}

func NewEngagementRepository(s *Store) contract.EngagementRepository {
	return &engagementRepository{s: s}
}

// Create mirrors the partial unique index on (requester_id, specialist_id)
// for PENDING rows.
func (r *engagementRepository) Create(ctx context.Context, engagement *entity.Engagement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if engagement.Status == entity.EngagementStatusPending &&
		r.pendingLocked(engagement.RequesterId, engagement.SpecialistId) {
		return contract.ErrDuplicateKey
	}
	ensureID(&engagement.Id)
	if engagement.CreatedAt.IsZero() {
		engagement.CreatedAt = time.Now()
	}
	r.s.engagements[engagement.Id] = copyOf(engagement)
	return nil
}

func (r *engagementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Engagement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.engagements[id]), nil
}

// FindByIDForShare is FindByID; the store serialises every call on mu.
func (r *engagementRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Engagement, error) {
	return r.FindByID(ctx, id)
}

func (r *engagementRepository) FindAll(ctx context.Context, filter entity.EngagementFilter) ([]*entity.Engagement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*entity.Engagement, 0)
	for _, e := range r.s.engagements {
		if matchesFilter(e, filter) {
			result = append(result, copyOf(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if filter.NewestFirst {
			return engagementBefore(result[j], result[i])
		}
		return engagementBefore(result[i], result[j])
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

// engagementBefore is (created_at, id) ascending, matching postgres uuid
// byte order.
func engagementBefore(a, b *entity.Engagement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.Id[:], b.Id[:]) < 0
}

func (r *engagementRepository) FindApprovedWithoutChannel(ctx context.Context, after *entity.EngagementCursor, limit int) ([]*entity.Engagement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	provisioned := make(map[uuid.UUID]bool, len(r.s.channels))
	for _, c := range r.s.channels {
		provisioned[c.EngagementId] = true
	}
	var cursor *entity.Engagement
	if after != nil {
		cursor = &entity.Engagement{CreatedAt: after.CreatedAt, Id: after.Id}
	}

	result := make([]*entity.Engagement, 0)
	for _, e := range r.s.engagements {
		if e.Status != entity.EngagementStatusApproved || provisioned[e.Id] {
			continue
		}
		if cursor != nil && !engagementBefore(cursor, e) {
			continue
		}
		result = append(result, copyOf(e))
	}
	sort.Slice(result, func(i, j int) bool {
		return engagementBefore(result[i], result[j])
	})
	return paginate(result, limit, 0), nil
}

func matchesFilter(e *entity.Engagement, f entity.EngagementFilter) bool {
	if f.ParticipantId != nil {
		id := *f.ParticipantId
		switch f.Role {
		case entity.UserRoleRequester:
			if e.RequesterId != id {
				return false
			}
		case entity.UserRoleSpecialist:
			if e.SpecialistId != id {
				return false
			}
		default:
			if e.RequesterId != id && e.SpecialistId != id {
				return false
			}
		}
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
		return false
	}
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *engagementRepository) ExistsPending(ctx context.Context, requesterId, specialistId uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.pendingLocked(requesterId, specialistId), nil
}

func (r *engagementRepository) pendingLocked(requesterId, specialistId uuid.UUID) bool {
	for _, e := range r.s.engagements {
		if e.RequesterId == requesterId && e.SpecialistId == specialistId &&
			e.Status == entity.EngagementStatusPending {
			return true
		}
	}
	return false
}

func (r *engagementRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EngagementStatus, at time.Time, closedAt *time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.engagements[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	e.UpdatedAt = &at
	e.ClosedAt = copyOf(closedAt)
	return true, nil
}

func (r *engagementRepository) UpdateContent(ctx context.Context, id uuid.UUID, topic, description string, allowed []entity.EngagementStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.engagements[id]
	if !ok || !slices.Contains(allowed, e.Status) {
		return false, nil
	}
	e.Topic = topic
	e.Description = description
	e.UpdatedAt = &at
	return true, nil
}

func (r *engagementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.engagements, id)
	return nil
}
