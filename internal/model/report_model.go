package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttachmentMeta struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	StorageRef  string `json:"storage_ref"`
}

type Report struct {
	Id              uuid.UUID                           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EngagementId    uuid.UUID                           `gorm:"type:uuid;not null;index"`
	Engagement      *Engagement                         `gorm:"foreignKey:EngagementId;constraint:OnDelete:CASCADE;"`
	CreatedBy       uuid.UUID                           `gorm:"type:uuid;not null"`
	Title           string                              `gorm:"type:varchar(255);not null"`
	Findings        string                              `gorm:"type:text"`
	Recommendations string                              `gorm:"type:text"`
	Attachments     datatypes.JSONSlice[AttachmentMeta] `gorm:"type:jsonb"`
	CreatedAt       time.Time                           `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                           `gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}
