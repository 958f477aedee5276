package memory

import (
	"context"

	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/unitofwork"
)

// unitOfWork has no rollback: each repository call is already atomic on the
// store and a failed use case leaves whatever it wrote so far.
type unitOfWork struct {
	s *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.s)
}

func (u *unitOfWork) EngagementRepository() contract.EngagementRepository {
	return NewEngagementRepository(u.s)
}

func (u *unitOfWork) ChannelRepository() contract.ChannelRepository {
	return NewChannelRepository(u.s)
}

func (u *unitOfWork) MessageRepository() contract.MessageRepository {
	return NewMessageRepository(u.s)
}

func (u *unitOfWork) VisitRepository() contract.VisitRepository {
	return NewVisitRepository(u.s)
}

func (u *unitOfWork) ReportRepository() contract.ReportRepository {
	return NewReportRepository(u.s)
}

func (u *unitOfWork) FeedbackRepository() contract.FeedbackRepository {
	return NewFeedbackRepository(u.s)
}

type repositoryFactory struct {
	s *Store
}

func NewRepositoryFactory(s *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{s: s}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{s: f.s}
}
