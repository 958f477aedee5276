package service

import (
	"context"
	"strings"

	"consultation-be/internal/dto"
	"consultation-be/internal/pkg/logger"
	"consultation-be/pkg/events"
	pktNats "consultation-be/pkg/nats"

	"github.com/google/uuid"
)

// IEventSubscriber is satisfied by the NATS JetStream subscriber.
type IEventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

// EventRelayService turns lifecycle events from the bus into
// engagement.event frames for both participants.
type EventRelayService struct {
	subscriber IEventSubscriber
	delivery   RealtimeDelivery
	logger     logger.ILogger
}

func NewEventRelayService(sub IEventSubscriber, delivery RealtimeDelivery, log logger.ILogger) *EventRelayService {
	return &EventRelayService{
		subscriber: sub,
		delivery:   deliveryOrNop(delivery),
		logger:     log,
	}
}

// Start subscribes with a durable consumer. A failure is logged and leaves
// the relay idle; lifecycle writes do not depend on it.
func (s *EventRelayService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("EventRelayService", "No event subscriber configured, relay disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe("events.>", "engagement-relay-worker", s.HandleEvent); err != nil {
		s.logger.Error("EventRelayService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventRelayService", "Event relay started, listening to events.>", nil)
}

// HandleEvent never returns an error for malformed payloads: redelivery would
// not fix them.
func (s *EventRelayService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	if !strings.HasPrefix(typeCode, "ENGAGEMENT_") {
		return nil
	}

	payload := event.Payload()
	engagementId, okE := parseUUID(payload["engagement_id"])
	requesterId, okR := parseUUID(payload["requester_id"])
	specialistId, okS := parseUUID(payload["specialist_id"])
	if !okE || !okR || !okS {
		s.logger.Warn("EventRelayService", "Dropping event with incomplete payload", map[string]interface{}{"type": typeCode})
		return nil
	}
	status, _ := payload["status"].(string)

	frame := dto.EngagementEventPayload{
		Event:        typeCode,
		EngagementId: engagementId,
		RequesterId:  requesterId,
		SpecialistId: specialistId,
		Status:       status,
	}
	s.delivery.SendToUser(requesterId, dto.FrameEngagementEvent, frame)
	s.delivery.SendToUser(specialistId, dto.FrameEngagementEvent, frame)

	s.logger.Debug("EventRelayService", "Relayed engagement event", map[string]interface{}{
		"type":          typeCode,
		"engagement_id": engagementId,
	})
	return nil
}

func parseUUID(v interface{}) (uuid.UUID, bool) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}
