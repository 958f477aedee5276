package dto

import "github.com/google/uuid"

// Inbound frame types accepted on the websocket.
const (
	FrameSend      = "send"
	FrameRead      = "read"
	FrameDelivered = "delivered"
)

// Outbound frame types pushed to connected participants.
const (
	FrameMessageNew       = "message.new"
	FrameMessageRead      = "message.read"
	FrameMessageDelivered = "message.delivered"
	FrameEngagementEvent  = "engagement.event"
	FrameError            = "error"
)

type InboundFrame struct {
	Type      string    `json:"type"`
	ChannelId uuid.UUID `json:"channel_id"`
	MessageId uuid.UUID `json:"message_id"`
	Text      string    `json:"text"`
}

type OutboundFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type ReadReceiptPayload struct {
	ChannelId uuid.UUID `json:"channel_id"`
	ReaderId  uuid.UUID `json:"reader_id"`
	Updated   int64     `json:"updated"`
}

type EngagementEventPayload struct {
	Event        string    `json:"event"`
	EngagementId uuid.UUID `json:"engagement_id"`
	RequesterId  uuid.UUID `json:"requester_id"`
	SpecialistId uuid.UUID `json:"specialist_id"`
	Status       string    `json:"status"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
