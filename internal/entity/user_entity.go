package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleRequester  UserRole = "REQUESTER"
	UserRoleSpecialist UserRole = "SPECIALIST"
)

// User is the single identity record shared by both roles. Role specific
// data lives in the profile records linked by UserId.
type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type SpecialistProfile struct {
	UserId    uuid.UUID
	Expertise string
	Bio       string
}

type RequesterProfile struct {
	UserId   uuid.UUID
	FarmName string
	Region   string
}
