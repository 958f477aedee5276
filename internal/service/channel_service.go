package service

import (
	"context"
	"errors"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/pkg/clock"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const reconcileBatchSize = 200

type IChannelService interface {
	GetOrCreate(ctx context.Context, engagement *entity.Engagement) (*entity.Channel, error)
	ReconcileAll(ctx context.Context) (int, error)
	GetByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) (*entity.Channel, error)
}

type channelService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewChannelService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, log logger.ILogger) IChannelService {
	return &channelService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     log,
	}
}

// GetOrCreate is idempotent. The unique index on engagement_id decides races:
// the loser of a concurrent insert reads the winner's row. It runs outside
// any transaction so a unique violation does not poison one.
func (s *channelService) GetOrCreate(ctx context.Context, engagement *entity.Engagement) (*entity.Channel, error) {
	if engagement == nil {
		return nil, apperror.Validation("engagement is required")
	}
	switch engagement.Status {
	case entity.EngagementStatusApproved, entity.EngagementStatusCompleted:
	default:
		return nil, apperror.InvalidState("engagement %s was never approved", engagement.Id)
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ChannelRepository()
	channel, _, err := s.getOrCreate(ctx, repo, engagement)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return channel, nil
}

func (s *channelService) getOrCreate(ctx context.Context, repo contract.ChannelRepository, engagement *entity.Engagement) (*entity.Channel, bool, error) {
	existing, err := repo.FindByEngagementID(ctx, engagement.Id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	channel := &entity.Channel{
		Id:           uuid.New(),
		EngagementId: engagement.Id,
		RequesterId:  engagement.RequesterId,
		SpecialistId: engagement.SpecialistId,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}
	if err := repo.Create(ctx, channel); err != nil {
		if !errors.Is(err, contract.ErrDuplicateKey) {
			return nil, false, err
		}
		existing, err := repo.FindByEngagementID(ctx, engagement.Id)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, errors.New("channel reported duplicate but could not be read back")
		}
		return existing, false, nil
	}

	s.logger.Info("ChannelService", "Channel created", map[string]interface{}{
		"channel_id":    channel.Id,
		"engagement_id": engagement.Id,
	})
	return channel, true, nil
}

// ReconcileAll creates the missing channel of every APPROVED engagement and
// returns how many it created. A failing engagement is logged and skipped so
// one bad row does not block the rest; the returned error joins them.
// Batches are read by keyset over engagements still lacking a channel, so
// each row is visited at most once per run.
func (s *channelService) ReconcileAll(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	engagements := uow.EngagementRepository()
	channels := uow.ChannelRepository()

	created := 0
	var errs []error
	var cursor *entity.EngagementCursor

	for {
		batch, err := engagements.FindApprovedWithoutChannel(ctx, cursor, reconcileBatchSize)
		if err != nil {
			return created, apperror.Internal(err)
		}
		if len(batch) == 0 {
			break
		}
		last := batch[len(batch)-1]
		cursor = &entity.EngagementCursor{CreatedAt: last.CreatedAt, Id: last.Id}

		for _, engagement := range batch {
			_, isNew, err := s.getOrCreate(ctx, channels, engagement)
			if err != nil {
				s.logger.Error("ChannelService", "Reconciliation failed for engagement", map[string]interface{}{
					"engagement_id": engagement.Id,
					"error":         err,
				})
				errs = append(errs, err)
				continue
			}
			if isNew {
				created++
			}
		}

		if len(batch) < reconcileBatchSize {
			break
		}
	}

	s.logger.Info("ChannelService", "Channel reconciliation finished", map[string]interface{}{
		"created": created,
		"failed":  len(errs),
	})
	if len(errs) > 0 {
		return created, apperror.Internal(errors.Join(errs...))
	}
	return created, nil
}

func (s *channelService) GetByEngagement(ctx context.Context, p *entity.Principal, engagementId uuid.UUID) (*entity.Channel, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadGuarded(ctx, uow.EngagementRepository(), p, engagementId, RequireEither); err != nil {
		return nil, err
	}
	channel, err := uow.ChannelRepository().FindByEngagementID(ctx, engagementId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if channel == nil {
		return nil, apperror.NotFound("engagement %s has no channel", engagementId)
	}
	return channel, nil
}
