package service

import (
	"context"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/repository/memory"
	"consultation-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const userCacheTTL = 5 * time.Minute

// IUserDirectory resolves users for validation and notification lookups.
type IUserDirectory interface {
	Find(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindSpecialist(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userDirectory struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.UserCache
}

func NewUserDirectory(uowFactory unitofwork.RepositoryFactory) IUserDirectory {
	return &userDirectory{
		uowFactory: uowFactory,
		cache:      memory.NewUserCache(userCacheTTL),
	}
}

// Find returns nil, nil for unknown ids.
func (d *userDirectory) Find(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := d.cache.Get(id); ok {
		return user, nil
	}
	user, err := d.uowFactory.NewUnitOfWork(ctx).UserRepository().FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user != nil {
		d.cache.Save(user)
	}
	return user, nil
}

// FindSpecialist fails with NotFound unless id names a SPECIALIST user.
func (d *userDirectory) FindSpecialist(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := d.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != entity.UserRoleSpecialist {
		return nil, apperror.NotFound("specialist %s not found", id)
	}
	return user, nil
}
