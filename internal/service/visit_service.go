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

	"github.com/google/uuid"
)

type IVisitService interface {
	Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateVisitRequest) (*entity.Visit, error)
	Reschedule(ctx context.Context, p *entity.Principal, visitId uuid.UUID, scheduledAt time.Time) (*entity.Visit, error)
	SetStatus(ctx context.Context, p *entity.Principal, visitId uuid.UUID, status entity.VisitStatus) (*entity.Visit, error)
	ListByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) ([]*entity.Visit, error)
	Delete(ctx context.Context, p *entity.Principal, visitId uuid.UUID) error
}

type visitService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewVisitService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, log logger.ILogger) IVisitService {
	return &visitService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     log,
	}
}

func (s *visitService) Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateVisitRequest) (*entity.Visit, error) {
	now := s.clock.Now()
	if !req.ScheduledAt.After(now) {
		return nil, apperror.Validation("scheduled_at must be in the future")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	engagement, err := lockGuarded(ctx, uow.EngagementRepository(), p, engagementId, CreatorRole(ResourceVisit))
	if err != nil {
		return nil, err
	}
	if !CanCreate(engagement, ResourceVisit) {
		return nil, apperror.InvalidState("visits need an APPROVED engagement, this one is %s", engagement.Status)
	}

	visit := &entity.Visit{
		Id:           uuid.New(),
		EngagementId: engagementId,
		CreatedBy:    p.UserId,
		ScheduledAt:  req.ScheduledAt,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       entity.VisitStatusScheduled,
		CreatedAt:    now,
	}
	if err := uow.VisitRepository().Create(ctx, visit); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}
	return visit, nil
}

// loadForSpecialist resolves the visit and checks the caller is the
// specialist of its engagement.
func (s *visitService) loadForSpecialist(ctx context.Context, uow unitofwork.UnitOfWork, p *entity.Principal, visitId uuid.UUID) (*entity.Visit, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	visit, err := findVisit(ctx, uow.VisitRepository(), visitId)
	if err != nil {
		return nil, err
	}
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, visit.EngagementId, CreatorRole(ResourceVisit)); err != nil {
		return nil, err
	}
	return visit, nil
}

func findVisit(ctx context.Context, repo contract.VisitRepository, id uuid.UUID) (*entity.Visit, error) {
	visit, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if visit == nil {
		return nil, apperror.NotFound("visit %s not found", id)
	}
	return visit, nil
}

func (s *visitService) Reschedule(ctx context.Context, p *entity.Principal, visitId uuid.UUID, scheduledAt time.Time) (*entity.Visit, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	visit, err := s.loadForSpecialist(ctx, uow, p, visitId)
	if err != nil {
		return nil, err
	}
	if visit.Status.IsFinal() {
		return nil, apperror.InvalidState("visit %s is %s", visitId, visit.Status)
	}
	now := s.clock.Now()
	if !scheduledAt.After(now) {
		return nil, apperror.Validation("scheduled_at must be in the future")
	}

	ok, err := uow.VisitRepository().Reschedule(ctx, visitId, scheduledAt, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.InvalidState("visit %s is no longer scheduled", visitId)
	}
	visit.ScheduledAt = scheduledAt
	visit.UpdatedAt = &now
	return visit, nil
}

func (s *visitService) SetStatus(ctx context.Context, p *entity.Principal, visitId uuid.UUID, status entity.VisitStatus) (*entity.Visit, error) {
	if !status.IsFinal() {
		return nil, apperror.Validation("status must be COMPLETED or CANCELLED")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	visit, err := s.loadForSpecialist(ctx, uow, p, visitId)
	if err != nil {
		return nil, err
	}
	if visit.Status.IsFinal() {
		return nil, apperror.InvalidState("visit %s is already %s", visitId, visit.Status)
	}

	now := s.clock.Now()
	ok, err := uow.VisitRepository().TransitionStatus(ctx, visitId, status, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.InvalidState("visit %s is no longer scheduled", visitId)
	}
	visit.Status = status
	visit.UpdatedAt = &now
	return visit, nil
}

func (s *visitService) ListByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) ([]*entity.Visit, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, engagementId, RequireEither); err != nil {
		return nil, err
	}
	visits, err := uow.VisitRepository().FindByEngagementID(ctx, engagementId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return visits, nil
}

func (s *visitService) Delete(ctx context.Context, p *entity.Principal, visitId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.loadForSpecialist(ctx, uow, p, visitId); err != nil {
		return err
	}
	if err := uow.VisitRepository().Delete(ctx, visitId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
