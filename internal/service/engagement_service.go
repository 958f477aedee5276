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

const (
	defaultListLimit   = 50
	maxListLimit       = 200
	defaultRecentLimit = 5
)

type IEngagementService interface {
	Create(ctx context.Context, p *entity.Principal, req *dto.CreateEngagementRequest) (*entity.Engagement, error)
	Approve(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error)
	Reject(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error)
	Complete(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error)
	UpdateContent(ctx context.Context, p *entity.Principal, id uuid.UUID, req *dto.UpdateEngagementRequest) (*entity.Engagement, error)
	Delete(ctx context.Context, p *entity.Principal, id uuid.UUID) error

	Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error)
	List(ctx context.Context, p *entity.Principal, filter entity.EngagementFilter) ([]*entity.Engagement, error)
	Recent(ctx context.Context, p *entity.Principal, n int) ([]*entity.Engagement, error)
}

type engagementService struct {
	uowFactory     unitofwork.RepositoryFactory
	channelService IChannelService
	directory      IUserDirectory
	notifier       INotificationDispatcher
	publisher      IPublisherService
	clock          clock.Clock
	logger         logger.ILogger
}

func NewEngagementService(
	uowFactory unitofwork.RepositoryFactory,
	channelService IChannelService,
	directory IUserDirectory,
	notifier INotificationDispatcher,
	publisher IPublisherService,
	clk clock.Clock,
	log logger.ILogger,
) IEngagementService {
	return &engagementService{
		uowFactory:     uowFactory,
		channelService: channelService,
		directory:      directory,
		notifier:       notifier,
		publisher:      publisher,
		clock:          clk,
		logger:         log,
	}
}

func (s *engagementService) Create(ctx context.Context, p *entity.Principal, req *dto.CreateEngagementRequest) (*entity.Engagement, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !p.IsRequester() {
		return nil, apperror.Forbidden("only requesters can open an engagement")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apperror.Validation("topic is required")
	}
	if req.SpecialistId == p.UserId {
		return nil, apperror.Validation("specialist must be another user")
	}
	if _, err := s.directory.FindSpecialist(ctx, req.SpecialistId); err != nil {
		return nil, err
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).EngagementRepository()
	exists, err := repo.ExistsPending(ctx, p.UserId, req.SpecialistId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("a pending engagement with this specialist already exists")
	}

	now := s.clock.Now()
	engagement := &entity.Engagement{
		Id:           uuid.New(),
		Topic:        topic,
		Description:  strings.TrimSpace(req.Description),
		Status:       entity.EngagementStatusPending,
		RequesterId:  p.UserId,
		SpecialistId: req.SpecialistId,
		SubjectId:    req.SubjectId,
		LocationId:   req.LocationId,
		CreatedAt:    now,
	}
	if err := repo.Create(ctx, engagement); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Conflict("a pending engagement with this specialist already exists")
		}
		return nil, apperror.Internal(err)
	}

	s.logger.Info("EngagementService", "Engagement created", map[string]interface{}{
		"engagement_id": engagement.Id,
		"requester_id":  engagement.RequesterId,
		"specialist_id": engagement.SpecialistId,
	})
	publishAsync(s.publisher, s.logger, newEngagementEvent(EventEngagementCreated, engagement, now))
	return engagement, nil
}

func (s *engagementService) Approve(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error) {
	engagement, err := s.transition(ctx, p, id, entity.EngagementStatusApproved)
	if err != nil {
		return nil, err
	}

	// The approval is already committed; a provisioning failure is repaired
	// by the next reconciliation run.
	if _, err := s.channelService.GetOrCreate(ctx, engagement); err != nil {
		s.logger.Error("EngagementService", "Channel provisioning after approval failed", map[string]interface{}{
			"engagement_id": engagement.Id,
			"error":         err,
		})
	}

	publishAsync(s.publisher, s.logger, newEngagementEvent(EventEngagementApproved, engagement, s.clock.Now()))
	return engagement, nil
}

func (s *engagementService) Reject(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error) {
	engagement, err := s.transition(ctx, p, id, entity.EngagementStatusRejected)
	if err != nil {
		return nil, err
	}

	s.notifyUser(ctx, engagement.RequesterId,
		"Your consultation request was declined",
		fmt.Sprintf("The specialist declined your request %q. You can submit a new request at any time.", engagement.Topic),
	)
	publishAsync(s.publisher, s.logger, newEngagementEvent(EventEngagementRejected, engagement, s.clock.Now()))
	return engagement, nil
}

func (s *engagementService) Complete(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error) {
	engagement, err := s.transition(ctx, p, id, entity.EngagementStatusCompleted)
	if err != nil {
		return nil, err
	}
	publishAsync(s.publisher, s.logger, newEngagementEvent(EventEngagementCompleted, engagement, s.clock.Now()))
	return engagement, nil
}

// transition is the specialist-only compare-and-swap shared by approve,
// reject and complete. Zero affected rows after a passing pre-check means a
// concurrent writer moved the engagement first.
func (s *engagementService) transition(ctx context.Context, p *entity.Principal, id uuid.UUID, to entity.EngagementStatus) (*entity.Engagement, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).EngagementRepository()
	engagement, err := loadGuarded(ctx, repo, p, id, RequireSpecialist)
	if err != nil {
		return nil, err
	}
	from := engagement.Status
	if !from.CanTransitionTo(to) {
		return nil, apperror.InvalidState("cannot move engagement from %s to %s", from, to)
	}

	now := s.clock.Now()
	var closedAt *time.Time
	if to == entity.EngagementStatusCompleted {
		closedAt = &now
	}
	ok, err := repo.TransitionStatus(ctx, id, from, to, now, closedAt)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.InvalidState("engagement %s is no longer %s", id, from)
	}

	engagement.Status = to
	engagement.UpdatedAt = &now
	engagement.ClosedAt = closedAt
	s.logger.Info("EngagementService", "Engagement status changed", map[string]interface{}{
		"engagement_id": id,
		"from":          from,
		"to":            to,
		"actor":         p.UserId,
	})
	return engagement, nil
}

func (s *engagementService) UpdateContent(ctx context.Context, p *entity.Principal, id uuid.UUID, req *dto.UpdateEngagementRequest) (*entity.Engagement, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).EngagementRepository()
	engagement, err := loadGuarded(ctx, repo, p, id, RequireRequester)
	if err != nil {
		return nil, err
	}
	if engagement.Status.IsTerminal() {
		return nil, apperror.InvalidState("engagement %s is %s", id, engagement.Status)
	}

	topic, description := engagement.Topic, engagement.Description
	if req.Topic != nil {
		topic = strings.TrimSpace(*req.Topic)
		if topic == "" {
			return nil, apperror.Validation("topic must not be empty")
		}
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	now := s.clock.Now()
	allowed := []entity.EngagementStatus{entity.EngagementStatusPending, entity.EngagementStatusApproved}
	ok, err := repo.UpdateContent(ctx, id, topic, description, allowed, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.InvalidState("engagement %s can no longer be edited", id)
	}

	engagement.Topic = topic
	engagement.Description = description
	engagement.UpdatedAt = &now
	return engagement, nil
}

// Delete removes the engagement and everything it owns in one transaction,
// children first.
func (s *engagementService) Delete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, id, RequireRequester); err != nil {
		return err
	}

	channel, err := uow.ChannelRepository().FindByEngagementID(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if channel != nil {
		if err := uow.MessageRepository().DeleteByChannelID(ctx, channel.Id); err != nil {
			return apperror.Internal(err)
		}
		if err := uow.ChannelRepository().DeleteByEngagementID(ctx, id); err != nil {
			return apperror.Internal(err)
		}
	}
	if err := uow.VisitRepository().DeleteByEngagementID(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.ReportRepository().DeleteByEngagementID(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.FeedbackRepository().DeleteByEngagementID(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.EngagementRepository().Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	s.logger.Info("EngagementService", "Engagement deleted", map[string]interface{}{
		"engagement_id": id,
		"actor":         p.UserId,
	})
	return nil
}

func (s *engagementService) Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).EngagementRepository()
	return loadGuarded(ctx, repo, p, id, RequireEither)
}

// List is always scoped to the caller's own engagements.
func (s *engagementService) List(ctx context.Context, p *entity.Principal, filter entity.EngagementFilter) ([]*entity.Engagement, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperror.Validation("unknown status %q", *filter.Status)
	}
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, apperror.Validation("unknown status %q", st)
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.Validation("from must not be after to")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperror.Validation("limit and offset must not be negative")
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	filter.ParticipantId = &p.UserId
	filter.Role = p.Role

	list, err := s.uowFactory.NewUnitOfWork(ctx).EngagementRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *engagementService) Recent(ctx context.Context, p *entity.Principal, n int) ([]*entity.Engagement, error) {
	if n < 0 {
		return nil, apperror.Validation("limit must not be negative")
	}
	if n == 0 {
		n = defaultRecentLimit
	}
	return s.List(ctx, p, entity.EngagementFilter{Limit: n, NewestFirst: true})
}

// notifyUser resolves the recipient's email and hands off to the dispatcher.
// Lookup failures are logged only.
func (s *engagementService) notifyUser(ctx context.Context, userId uuid.UUID, subject, body string) {
	if s.notifier == nil {
		return
	}
	user, err := s.directory.Find(ctx, userId)
	if err != nil || user == nil {
		s.logger.Warn("EngagementService", "Notification recipient lookup failed", map[string]interface{}{
			"user_id": userId,
			"error":   err,
		})
		return
	}
	s.notifier.Notify(user.Email, subject, body)
}
