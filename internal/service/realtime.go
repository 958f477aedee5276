package service

import "github.com/google/uuid"

// RealtimeDelivery pushes frames to a user's connected devices. Implementations
// must not block the caller; the websocket hub queues frames.
type RealtimeDelivery interface {
	SendToUser(userID uuid.UUID, frameType string, payload interface{})
}

type nopDelivery struct{}

func (nopDelivery) SendToUser(uuid.UUID, string, interface{}) {}

func deliveryOrNop(d RealtimeDelivery) RealtimeDelivery {
	if d == nil {
		return nopDelivery{}
	}
	return d
}
