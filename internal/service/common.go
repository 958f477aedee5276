package service

import (
	"context"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

func requirePrincipal(p *entity.Principal) error {
	if p == nil {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

// loadEngagement reads the current row; every gated write calls it right
// before acting.
func loadEngagement(ctx context.Context, repo contract.EngagementRepository, id uuid.UUID) (*entity.Engagement, error) {
	e, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if e == nil {
		return nil, apperror.NotFound("engagement %s not found", id)
	}
	return e, nil
}

// loadGuarded loads the engagement and applies the ownership guard.
func loadGuarded(ctx context.Context, repo contract.EngagementRepository, p *entity.Principal, id uuid.UUID, role RequiredRole) (*entity.Engagement, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	e, err := loadEngagement(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	return guard(p, e, id, role)
}

// lockGuarded is loadGuarded under a share lock. Call it inside a
// transaction whose insert depends on the engagement status.
func lockGuarded(ctx context.Context, repo contract.EngagementRepository, p *entity.Principal, id uuid.UUID, role RequiredRole) (*entity.Engagement, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	e, err := repo.FindByIDForShare(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if e == nil {
		return nil, apperror.NotFound("engagement %s not found", id)
	}
	return guard(p, e, id, role)
}

func guard(p *entity.Principal, e *entity.Engagement, id uuid.UUID, role RequiredRole) (*entity.Engagement, error) {
	if !Authorized(p, e, role) {
		return nil, apperror.Forbidden("not allowed to act on engagement %s", id)
	}
	return e, nil
}
