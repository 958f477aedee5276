package contract

import (
	"context"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	Update(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error)
	FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error
}
