package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusRead      MessageStatus = "READ"
)

type Message struct {
	Id          uuid.UUID
	ChannelId   uuid.UUID
	SenderId    uuid.UUID
	ReceiverId  uuid.UUID
	Body        string
	Status      MessageStatus
	SentAt      time.Time
	DeliveredAt *time.Time
	ReadAt      *time.Time
	IsEdited    bool
	IsForwarded bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}
