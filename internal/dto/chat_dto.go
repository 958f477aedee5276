package dto

import (
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type EditMessageRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type ForwardMessageRequest struct {
	TargetChannelId uuid.UUID `json:"target_channel_id" validate:"required"`
}

type MessageResponse struct {
	Id          uuid.UUID  `json:"id"`
	ChannelId   uuid.UUID  `json:"channel_id"`
	SenderId    uuid.UUID  `json:"sender_id"`
	ReceiverId  uuid.UUID  `json:"receiver_id"`
	Text        string     `json:"text"`
	Status      string     `json:"status"`
	SentAt      time.Time  `json:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	ReadAt      *time.Time `json:"read_at"`
	IsEdited    bool       `json:"is_edited"`
	IsForwarded bool       `json:"is_forwarded"`
}

func NewMessageResponse(m *entity.Message) *MessageResponse {
	return &MessageResponse{
		Id:          m.Id,
		ChannelId:   m.ChannelId,
		SenderId:    m.SenderId,
		ReceiverId:  m.ReceiverId,
		Text:        m.Body,
		Status:      string(m.Status),
		SentAt:      m.SentAt,
		DeliveredAt: m.DeliveredAt,
		ReadAt:      m.ReadAt,
		IsEdited:    m.IsEdited,
		IsForwarded: m.IsForwarded,
	}
}

func NewMessageResponses(list []*entity.Message) []*MessageResponse {
	res := make([]*MessageResponse, len(list))
	for i, m := range list {
		res[i] = NewMessageResponse(m)
	}
	return res
}

type ChannelResponse struct {
	Id            uuid.UUID  `json:"id"`
	EngagementId  uuid.UUID  `json:"engagement_id"`
	RequesterId   uuid.UUID  `json:"requester_id"`
	SpecialistId  uuid.UUID  `json:"specialist_id"`
	IsActive      bool       `json:"is_active"`
	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewChannelResponse(c *entity.Channel) *ChannelResponse {
	return &ChannelResponse{
		Id:            c.Id,
		EngagementId:  c.EngagementId,
		RequesterId:   c.RequesterId,
		SpecialistId:  c.SpecialistId,
		IsActive:      c.IsActive,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

type RoomResponse struct {
	ChannelResponse
	UnreadCount int64 `json:"unread_count"`
}

func NewRoomResponses(rooms []*entity.ChannelRoom) []*RoomResponse {
	res := make([]*RoomResponse, len(rooms))
	for i, r := range rooms {
		res[i] = &RoomResponse{
			ChannelResponse: *NewChannelResponse(r.Channel),
			UnreadCount:     r.UnreadCount,
		}
	}
	return res
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
