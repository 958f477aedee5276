package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChannelId   uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_channel_sent,priority:1;index:idx_messages_unread,priority:2"`
	Channel     *Channel   `gorm:"foreignKey:ChannelId;constraint:OnDelete:CASCADE;"`
	SenderId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceiverId  uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_unread,priority:1"`
	Body        string     `gorm:"type:text;not null"`
	Status      string     `gorm:"type:varchar(20);not null;default:'SENT';index:idx_messages_unread,priority:3"`
	SentAt      time.Time  `gorm:"not null;index:idx_messages_channel_sent,priority:2"`
	DeliveredAt *time.Time
	ReadAt      *time.Time
	IsEdited    bool `gorm:"not null;default:false"`
	IsForwarded bool `gorm:"not null;default:false"`
	IsDeleted   bool `gorm:"not null;default:false"`
	DeletedAt   *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}
