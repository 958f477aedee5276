package model

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EngagementId uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_feedback_engagement"`
	Engagement   *Engagement `gorm:"foreignKey:EngagementId;constraint:OnDelete:CASCADE;"`
	CreatedBy    uuid.UUID   `gorm:"type:uuid;not null"`
	Rating       int         `gorm:"not null"`
	Comment      string      `gorm:"type:text"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
