package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChannelID struct {
	ChannelID uuid.UUID
}

func (s ByChannelID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("channel_id = ?", s.ChannelID)
}

// UnreadFor matches messages addressed to the receiver that are neither
// READ nor soft-deleted.
type UnreadFor struct {
	ReceiverID uuid.UUID
}

func (s UnreadFor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receiver_id = ? AND status <> ? AND is_deleted = ?", s.ReceiverID, "READ", false)
}

type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// RoomOrder is the listing contract: most recent activity first, rooms
// that never saw a message last.
type RoomOrder struct{}

func (s RoomOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("last_message_at DESC NULLS LAST").Order("created_at DESC")
}
