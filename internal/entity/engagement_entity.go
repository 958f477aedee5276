package entity

import (
	"time"

	"github.com/google/uuid"
)

type EngagementStatus string

const (
	EngagementStatusPending   EngagementStatus = "PENDING"
	EngagementStatusApproved  EngagementStatus = "APPROVED"
	EngagementStatusRejected  EngagementStatus = "REJECTED"
	EngagementStatusCompleted EngagementStatus = "COMPLETED"
)

// IsTerminal reports whether no further lifecycle transition is possible.
func (s EngagementStatus) IsTerminal() bool {
	return s == EngagementStatusRejected || s == EngagementStatusCompleted
}

func (s EngagementStatus) IsValid() bool {
	switch s {
	case EngagementStatusPending, EngagementStatusApproved, EngagementStatusRejected, EngagementStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo encodes the only legal edges:
// PENDING -> APPROVED | REJECTED, APPROVED -> COMPLETED.
func (s EngagementStatus) CanTransitionTo(next EngagementStatus) bool {
	switch s {
	case EngagementStatusPending:
		return next == EngagementStatusApproved || next == EngagementStatusRejected
	case EngagementStatusApproved:
		return next == EngagementStatusCompleted
	}
	return false
}

// Engagement is one consultation between a requester and a specialist.
// ClosedAt is set if and only if Status is COMPLETED.
type Engagement struct {
	Id           uuid.UUID
	Topic        string
	Description  string
	Status       EngagementStatus
	RequesterId  uuid.UUID
	SpecialistId uuid.UUID
	SubjectId    *uuid.UUID
	LocationId   *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	ClosedAt     *time.Time
}

// EngagementCursor is a keyset position in (CreatedAt, Id) order.
type EngagementCursor struct {
	CreatedAt time.Time
	Id        uuid.UUID
}

type EngagementFilter struct {
	ParticipantId *uuid.UUID
	Role          UserRole
	Status        *EngagementStatus
	Statuses      []EngagementStatus
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
	NewestFirst   bool
}
