package contract

import (
	"context"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	CreateSpecialistProfile(ctx context.Context, profile *entity.SpecialistProfile) error
	CreateRequesterProfile(ctx context.Context, profile *entity.RequesterProfile) error
	// FindByID returns nil, nil when no user exists.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
