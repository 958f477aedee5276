package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is metadata only; the binary lives in external blob storage
// under StorageRef.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	StorageRef  string `json:"storage_ref"`
}

type Report struct {
	Id              uuid.UUID
	EngagementId    uuid.UUID
	CreatedBy       uuid.UUID
	Title           string
	Findings        string
	Recommendations string
	Attachments     []Attachment
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
