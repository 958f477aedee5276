package service

import (
	"context"
	"strings"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/pkg/clock"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReportService interface {
	Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateReportRequest) (*entity.Report, error)
	Update(ctx context.Context, p *entity.Principal, reportId uuid.UUID, req *dto.UpdateReportRequest) (*entity.Report, error)
	Get(ctx context.Context, p *entity.Principal, reportId uuid.UUID) (*entity.Report, error)
	ListByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) ([]*entity.Report, error)
	Delete(ctx context.Context, p *entity.Principal, reportId uuid.UUID) error
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewReportService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, log logger.ILogger) IReportService {
	return &reportService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     log,
	}
}

func (s *reportService) Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateReportRequest) (*entity.Report, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	engagement, err := lockGuarded(ctx, uow.EngagementRepository(), p, engagementId, CreatorRole(ResourceReport))
	if err != nil {
		return nil, err
	}
	if !CanCreate(engagement, ResourceReport) {
		return nil, apperror.InvalidState("reports need an APPROVED or COMPLETED engagement, this one is %s", engagement.Status)
	}

	report := &entity.Report{
		Id:              uuid.New(),
		EngagementId:    engagementId,
		CreatedBy:       p.UserId,
		Title:           title,
		Findings:        req.Findings,
		Recommendations: req.Recommendations,
		Attachments:     dto.AttachmentsToEntities(req.Attachments),
		CreatedAt:       s.clock.Now(),
	}
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}
	return report, nil
}

// loadReport applies the ownership guard to the report's engagement, and for
// writes also requires the caller to be the report's author.
func (s *reportService) loadReport(ctx context.Context, uow unitofwork.UnitOfWork, p *entity.Principal, reportId uuid.UUID, write bool) (*entity.Report, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	report, err := uow.ReportRepository().FindByID(ctx, reportId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if report == nil {
		return nil, apperror.NotFound("report %s not found", reportId)
	}

	role := RequireEither
	if write {
		role = CreatorRole(ResourceReport)
	}
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, report.EngagementId, role); err != nil {
		return nil, err
	}
	if write && report.CreatedBy != p.UserId {
		return nil, apperror.Forbidden("only the author can change report %s", reportId)
	}
	return report, nil
}

func (s *reportService) Update(ctx context.Context, p *entity.Principal, reportId uuid.UUID, req *dto.UpdateReportRequest) (*entity.Report, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := s.loadReport(ctx, uow, p, reportId, true)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	report.Title = title
	report.Findings = req.Findings
	report.Recommendations = req.Recommendations
	report.Attachments = dto.AttachmentsToEntities(req.Attachments)
	report.UpdatedAt = &now
	if err := uow.ReportRepository().Update(ctx, report); err != nil {
		return nil, apperror.Internal(err)
	}
	return report, nil
}

func (s *reportService) Get(ctx context.Context, p *entity.Principal, reportId uuid.UUID) (*entity.Report, error) {
	return s.loadReport(ctx, s.uowFactory.NewUnitOfWork(ctx), p, reportId, false)
}

func (s *reportService) ListByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) ([]*entity.Report, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, engagementId, RequireEither); err != nil {
		return nil, err
	}
	reports, err := uow.ReportRepository().FindByEngagementID(ctx, engagementId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reports, nil
}

func (s *reportService) Delete(ctx context.Context, p *entity.Principal, reportId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.loadReport(ctx, uow, p, reportId, true); err != nil {
		return err
	}
	if err := uow.ReportRepository().Delete(ctx, reportId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
