package entity

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id           uuid.UUID
	EngagementId uuid.UUID
	CreatedBy    uuid.UUID
	Rating       int
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
