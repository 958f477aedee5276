package entity

import (
	"time"

	"github.com/google/uuid"
)

type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "SCHEDULED"
	VisitStatusCompleted VisitStatus = "COMPLETED"
	VisitStatusCancelled VisitStatus = "CANCELLED"
)

func (s VisitStatus) IsFinal() bool {
	return s == VisitStatusCompleted || s == VisitStatusCancelled
}

type Visit struct {
	Id           uuid.UUID
	EngagementId uuid.UUID
	CreatedBy    uuid.UUID
	ScheduledAt  time.Time
	Notes        string
	Status       VisitStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
