package memory

import (
	"context"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) contract.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return contract.ErrDuplicateKey
		}
	}
	ensureID(&user.Id)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users[user.Id] = copyOf(user)
	return nil
}

func (r *userRepository) CreateSpecialistProfile(ctx context.Context, profile *entity.SpecialistProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.specialists[profile.UserId]; ok {
		return contract.ErrDuplicateKey
	}
	r.s.specialists[profile.UserId] = copyOf(profile)
	return nil
}

func (r *userRepository) CreateRequesterProfile(ctx context.Context, profile *entity.RequesterProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requesters[profile.UserId]; ok {
		return contract.ErrDuplicateKey
	}
	r.s.requesters[profile.UserId] = copyOf(profile)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.users[id]), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyOf(u), nil
		}
	}
	return nil, nil
}
