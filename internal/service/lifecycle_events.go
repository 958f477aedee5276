package service

import (
	"context"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/logger"
	"consultation-be/pkg/events"
)

const (
	EventEngagementCreated   = "ENGAGEMENT_CREATED"
	EventEngagementApproved  = "ENGAGEMENT_APPROVED"
	EventEngagementRejected  = "ENGAGEMENT_REJECTED"
	EventEngagementCompleted = "ENGAGEMENT_COMPLETED"
)

const publishTimeout = 5 * time.Second

// IPublisherService is satisfied by the NATS publisher.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

func newEngagementEvent(eventType string, e *entity.Engagement, at time.Time) events.Event {
	return events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"engagement_id": e.Id.String(),
			"requester_id":  e.RequesterId.String(),
			"specialist_id": e.SpecialistId.String(),
			"status":        string(e.Status),
		},
		OccurredAt: at,
	}
}

// publishAsync never blocks the lifecycle write that already committed.
func publishAsync(publisher IPublisherService, log logger.ILogger, event events.Event) {
	if publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publisher.Publish(ctx, event); err != nil {
			log.Warn("EngagementEvents", "Failed to publish lifecycle event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err,
			})
		}
	}()
}
