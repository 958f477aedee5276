package model

import (
	"time"

	"github.com/google/uuid"
)

type Visit struct {
	Id           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EngagementId uuid.UUID   `gorm:"type:uuid;not null;index"`
	Engagement   *Engagement `gorm:"foreignKey:EngagementId;constraint:OnDelete:CASCADE;"`
	CreatedBy    uuid.UUID   `gorm:"type:uuid;not null"`
	ScheduledAt  time.Time   `gorm:"not null"`
	Notes        string      `gorm:"type:text"`
	Status       string      `gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
}

func (Visit) TableName() string {
	return "visits"
}
