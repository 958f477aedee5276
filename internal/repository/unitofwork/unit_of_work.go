package unitofwork

import (
	"context"

	"consultation-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	EngagementRepository() contract.EngagementRepository
	ChannelRepository() contract.ChannelRepository
	MessageRepository() contract.MessageRepository
	VisitRepository() contract.VisitRepository
	ReportRepository() contract.ReportRepository
	FeedbackRepository() contract.FeedbackRepository
}
