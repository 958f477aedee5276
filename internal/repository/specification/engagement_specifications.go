package specification

import (
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status entity.EngagementStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type ByStatuses struct {
	Statuses []entity.EngagementStatus
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		values[i] = string(st)
	}
	return db.Where("status IN ?", values)
}

// CreatedBetween is inclusive on both ends; a nil bound is open.
type CreatedBetween struct {
	From *time.Time
	To   *time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("created_at >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("created_at <= ?", *s.To)
	}
	return db
}

// ParticipantOf matches rows where the user fills the slot of its role.
// Works for any table carrying requester_id and specialist_id.
type ParticipantOf struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (s ParticipantOf) Apply(db *gorm.DB) *gorm.DB {
	switch s.Role {
	case entity.UserRoleRequester:
		return db.Where("requester_id = ?", s.UserID)
	case entity.UserRoleSpecialist:
		return db.Where("specialist_id = ?", s.UserID)
	}
	return db.Where("requester_id = ? OR specialist_id = ?", s.UserID, s.UserID)
}

type PendingBetween struct {
	RequesterID  uuid.UUID
	SpecialistID uuid.UUID
}

func (s PendingBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requester_id = ? AND specialist_id = ? AND status = ?",
		s.RequesterID, s.SpecialistID, string(entity.EngagementStatusPending))
}

type WithoutChannel struct{}

func (WithoutChannel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM channels WHERE channels.engagement_id = engagements.id)")
}

// AfterCursor keeps rows strictly after the cursor in (created_at, id)
// order. A nil cursor matches everything.
type AfterCursor struct {
	Cursor *entity.EngagementCursor
}

func (s AfterCursor) Apply(db *gorm.DB) *gorm.DB {
	if s.Cursor == nil {
		return db
	}
	return db.Where("(created_at, id) > (?, ?)", s.Cursor.CreatedAt, s.Cursor.Id)
}

// FromFilter expands an EngagementFilter into specifications.
func FromFilter(f entity.EngagementFilter) []Specification {
	specs := make([]Specification, 0, 6)
	if f.ParticipantId != nil {
		specs = append(specs, ParticipantOf{UserID: *f.ParticipantId, Role: f.Role})
	}
	if f.Status != nil {
		specs = append(specs, ByStatus{Status: *f.Status})
	}
	if len(f.Statuses) > 0 {
		specs = append(specs, ByStatuses{Statuses: f.Statuses})
	}
	if f.From != nil || f.To != nil {
		specs = append(specs, CreatedBetween{From: f.From, To: f.To})
	}
	specs = append(specs, OrderBy{Field: "created_at", Desc: f.NewestFirst})
	specs = append(specs, OrderBy{Field: "id", Desc: f.NewestFirst})
	specs = append(specs, Pagination{Limit: f.Limit, Offset: f.Offset})
	return specs
}
