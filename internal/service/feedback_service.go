package service

import (
	"context"
	"errors"
	"fmt"
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

const DefaultFeedbackEditWindow = 7 * 24 * time.Hour

type IFeedbackService interface {
	Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateFeedbackRequest) (*entity.Feedback, error)
	Update(ctx context.Context, p *entity.Principal, feedbackId uuid.UUID, req *dto.UpdateFeedbackRequest) (*entity.Feedback, error)
	GetByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) (*entity.Feedback, error)
	Delete(ctx context.Context, p *entity.Principal, feedbackId uuid.UUID) error
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
	directory  IUserDirectory
	notifier   INotificationDispatcher
	clock      clock.Clock
	editWindow time.Duration
	logger     logger.ILogger
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	directory IUserDirectory,
	notifier INotificationDispatcher,
	clk clock.Clock,
	editWindow time.Duration,
	log logger.ILogger,
) IFeedbackService {
	if editWindow <= 0 {
		editWindow = DefaultFeedbackEditWindow
	}
	return &feedbackService{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clk,
		editWindow: editWindow,
		logger:     log,
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperror.Validation("rating must be between 1 and 5")
	}
	return nil
}

// Create runs the gate and the uniqueness pre-check; the unique index on
// engagement_id settles concurrent duplicates.
func (s *feedbackService) Create(ctx context.Context, p *entity.Principal, engagementId uuid.UUID, req *dto.CreateFeedbackRequest) (*entity.Feedback, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	engagement, err := loadGuarded(ctx, uow.EngagementRepository(), p, engagementId, CreatorRole(ResourceFeedback))
	if err != nil {
		return nil, err
	}
	if !CanCreate(engagement, ResourceFeedback) {
		return nil, apperror.InvalidState("feedback needs a COMPLETED engagement, this one is %s", engagement.Status)
	}

	repo := uow.FeedbackRepository()
	existing, err := repo.FindByEngagementID(ctx, engagementId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("engagement %s already has feedback", engagementId)
	}

	feedback := &entity.Feedback{
		Id:           uuid.New(),
		EngagementId: engagementId,
		CreatedBy:    p.UserId,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
		CreatedAt:    s.clock.Now(),
	}
	if err := repo.Create(ctx, feedback); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Conflict("engagement %s already has feedback", engagementId)
		}
		return nil, apperror.Internal(err)
	}

	s.notifySpecialist(ctx, engagement, feedback)
	return feedback, nil
}

func (s *feedbackService) notifySpecialist(ctx context.Context, engagement *entity.Engagement, feedback *entity.Feedback) {
	if s.notifier == nil {
		return
	}
	specialist, err := s.directory.Find(ctx, engagement.SpecialistId)
	if err != nil || specialist == nil {
		s.logger.Warn("FeedbackService", "Notification recipient lookup failed", map[string]interface{}{
			"user_id": engagement.SpecialistId,
			"error":   err,
		})
		return
	}
	s.notifier.Notify(specialist.Email,
		"New feedback on your consultation",
		fmt.Sprintf("You received a %d/5 rating for %q.", feedback.Rating, engagement.Topic),
	)
}

func (s *feedbackService) loadFeedback(ctx context.Context, uow unitofwork.UnitOfWork, p *entity.Principal, feedbackId uuid.UUID) (*entity.Feedback, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	feedback, err := uow.FeedbackRepository().FindByID(ctx, feedbackId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if feedback == nil {
		return nil, apperror.NotFound("feedback %s not found", feedbackId)
	}
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, feedback.EngagementId, CreatorRole(ResourceFeedback)); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) Update(ctx context.Context, p *entity.Principal, feedbackId uuid.UUID, req *dto.UpdateFeedbackRequest) (*entity.Feedback, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	feedback, err := s.loadFeedback(ctx, uow, p, feedbackId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if now.Sub(feedback.CreatedAt) > s.editWindow {
		return nil, apperror.EditWindowExpired("feedback can only be edited within %s of creation", s.editWindow)
	}

	feedback.Rating = req.Rating
	feedback.Comment = strings.TrimSpace(req.Comment)
	feedback.UpdatedAt = &now
	if err := uow.FeedbackRepository().Update(ctx, feedback); err != nil {
		return nil, apperror.Internal(err)
	}
	return feedback, nil
}

func (s *feedbackService) GetByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) (*entity.Feedback, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, engagementId, RequireEither); err != nil {
		return nil, err
	}
	feedback, err := uow.FeedbackRepository().FindByEngagementID(ctx, engagementId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if feedback == nil {
		return nil, apperror.NotFound("engagement %s has no feedback", engagementId)
	}
	return feedback, nil
}

func (s *feedbackService) Delete(ctx context.Context, p *entity.Principal, feedbackId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.loadFeedback(ctx, uow, p, feedbackId); err != nil {
		return err
	}
	if err := uow.FeedbackRepository().Delete(ctx, feedbackId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
