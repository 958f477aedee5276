package model

import (
	"time"

	"github.com/google/uuid"
)

// Channel.EngagementId carries the unique index that enforces one room per
// engagement across every instance.
type Channel struct {
	Id            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EngagementId  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_channels_engagement"`
	Engagement    *Engagement `gorm:"foreignKey:EngagementId;constraint:OnDelete:CASCADE;"`
	RequesterId   uuid.UUID   `gorm:"type:uuid;not null;index"`
	SpecialistId  uuid.UUID   `gorm:"type:uuid;not null;index"`
	IsActive      bool        `gorm:"not null;default:true"`
	LastMessageAt *time.Time  `gorm:"index"`
	CreatedAt     time.Time   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime"`
}

func (Channel) TableName() string {
	return "channels"
}
