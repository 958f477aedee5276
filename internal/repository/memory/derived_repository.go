package memory

import (
	"context"
	"sort"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
)

type visitRepository struct {
	s *Store
}

func NewVisitRepository(s *Store) contract.VisitRepository {
	return &visitRepository{s: s}
}

func (r *visitRepository) Create(ctx context.Context, visit *entity.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&visit.Id)
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	r.s.visits[visit.Id] = copyOf(visit)
	return nil
}

func (r *visitRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.visits[id]), nil
}

func (r *visitRepository) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Visit, 0)
	for _, v := range r.s.visits {
		if v.EngagementId == engagementId {
			result = append(result, copyOf(v))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})
	return result, nil
}

func (r *visitRepository) Reschedule(ctx context.Context, id uuid.UUID, scheduledAt, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.visits[id]
	if !ok || v.Status != entity.VisitStatusScheduled {
		return false, nil
	}
	v.ScheduledAt = scheduledAt
	v.UpdatedAt = &at
	return true, nil
}

func (r *visitRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to entity.VisitStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.visits[id]
	if !ok || v.Status != entity.VisitStatusScheduled {
		return false, nil
	}
	v.Status = to
	v.UpdatedAt = &at
	return true, nil
}

func (r *visitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.visits, id)
	return nil
}

func (r *visitRepository) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range r.s.visits {
		if v.EngagementId == engagementId {
			delete(r.s.visits, id)
		}
	}
	return nil
}

type reportRepository struct {
	s *Store
}

func NewReportRepository(s *Store) contract.ReportRepository {
	return &reportRepository{s: s}
}

func cloneReport(r *entity.Report) *entity.Report {
	c := copyOf(r)
	if c != nil && r.Attachments != nil {
		c.Attachments = append([]entity.Attachment(nil), r.Attachments...)
	}
	return c
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&report.Id)
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	r.s.reports[report.Id] = cloneReport(report)
	return nil
}

func (r *reportRepository) Update(ctx context.Context, report *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reports[report.Id]
	if !ok {
		return nil
	}
	updated := cloneReport(report)
	updated.EngagementId = existing.EngagementId
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	r.s.reports[report.Id] = updated
	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneReport(r.s.reports[id]), nil
}

func (r *reportRepository) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) ([]*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Report, 0)
	for _, rep := range r.s.reports {
		if rep.EngagementId == engagementId {
			result = append(result, cloneReport(rep))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reports, id)
	return nil
}

func (r *reportRepository) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rep := range r.s.reports {
		if rep.EngagementId == engagementId {
			delete(r.s.reports, id)
		}
	}
	return nil
}

type feedbackRepository struct {
	s *Store
}

func NewFeedbackRepository(s *Store) contract.FeedbackRepository {
	return &feedbackRepository{s: s}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.feedback {
		if f.EngagementId == feedback.EngagementId {
			return contract.ErrDuplicateKey
		}
	}
	ensureID(&feedback.Id)
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	r.s.feedback[feedback.Id] = copyOf(feedback)
	return nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[feedback.Id]
	if !ok {
		return nil
	}
	f.Rating = feedback.Rating
	f.Comment = feedback.Comment
	f.UpdatedAt = copyOf(feedback.UpdatedAt)
	return nil
}

func (r *feedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.feedback[id]), nil
}

func (r *feedbackRepository) FindByEngagementID(ctx context.Context, engagementId uuid.UUID) (*entity.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.feedback {
		if f.EngagementId == engagementId {
			return copyOf(f), nil
		}
	}
	return nil, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.feedback, id)
	return nil
}

func (r *feedbackRepository) DeleteByEngagementID(ctx context.Context, engagementId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, f := range r.s.feedback {
		if f.EngagementId == engagementId {
			delete(r.s.feedback, id)
		}
	}
	return nil
}
