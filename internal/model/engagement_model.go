package model

import (
	"time"

	"github.com/google/uuid"
)

// Engagement rows are the authorization anchor. Status changes go through
// conditional updates on (id, status) and never through Save.
type Engagement struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Topic        string     `gorm:"type:varchar(255);not null"`
	Description  string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RequesterId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Requester    *User      `gorm:"foreignKey:RequesterId;constraint:OnDelete:CASCADE;"`
	SpecialistId uuid.UUID  `gorm:"type:uuid;not null;index"`
	Specialist   *User      `gorm:"foreignKey:SpecialistId;constraint:OnDelete:CASCADE;"`
	SubjectId    *uuid.UUID `gorm:"type:uuid"`
	LocationId   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	ClosedAt     *time.Time
}

func (Engagement) TableName() string {
	return "engagements"
}
