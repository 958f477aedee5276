package entity

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the private chat room of one approved engagement. Requester and
// specialist ids are copied from the engagement so listing and authorization
// never join through it.
type Channel struct {
	Id            uuid.UUID
	EngagementId  uuid.UUID
	RequesterId   uuid.UUID
	SpecialistId  uuid.UUID
	IsActive      bool
	LastMessageAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (c *Channel) HasParticipant(userId uuid.UUID) bool {
	return c.RequesterId == userId || c.SpecialistId == userId
}

// Counterpart returns the other participant, or uuid.Nil if userId is not a
// participant.
func (c *Channel) Counterpart(userId uuid.UUID) uuid.UUID {
	switch userId {
	case c.RequesterId:
		return c.SpecialistId
	case c.SpecialistId:
		return c.RequesterId
	}
	return uuid.Nil
}

// ChannelRoom is a channel annotated with the caller's unread count.
type ChannelRoom struct {
	Channel     *Channel
	UnreadCount int64
}
