package service

import (
	"context"
	"testing"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/logger"
	"consultation-be/pkg/events"
	pktNats "consultation-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (s *stubSubscriber) Subscribe(subject string, durableName string, handler pktNats.EventHandler) error {
	s.subject = subject
	s.durable = durableName
	s.handler = handler
	return nil
}

func TestEventRelayPushesToBothParticipants(t *testing.T) {
	delivery := &recordingDelivery{}
	sub := &stubSubscriber{}
	relay := NewEventRelayService(sub, delivery, logger.NewNopLogger())
	relay.Start()
	require.NotNil(t, sub.handler)
	assert.Equal(t, "events.>", sub.subject)

	e := &entity.Engagement{
		Id:           uuid.New(),
		RequesterId:  uuid.New(),
		SpecialistId: uuid.New(),
		Status:       entity.EngagementStatusApproved,
	}
	event := newEngagementEvent("events.ENGAGEMENT_APPROVED", e, baseTime)
	require.NoError(t, sub.handler(context.Background(), event))

	assert.Equal(t, 1, delivery.count(e.RequesterId, dto.FrameEngagementEvent))
	assert.Equal(t, 1, delivery.count(e.SpecialistId, dto.FrameEngagementEvent))

	frame, ok := delivery.frames[0].Payload.(dto.EngagementEventPayload)
	require.True(t, ok)
	assert.Equal(t, "ENGAGEMENT_APPROVED", frame.Event)
	assert.Equal(t, e.Id, frame.EngagementId)
	assert.Equal(t, "APPROVED", frame.Status)
}

func TestEventRelayIgnoresOtherEvents(t *testing.T) {
	delivery := &recordingDelivery{}
	relay := NewEventRelayService(nil, delivery, logger.NewNopLogger())
	relay.Start()

	cases := []struct {
		name  string
		event events.Event
	}{
		{"Foreign type", events.BaseEvent{Type: "events.USER_REGISTERED", Data: map[string]interface{}{"user_id": uuid.NewString()}}},
		{"Missing participants", events.BaseEvent{Type: "ENGAGEMENT_REJECTED", Data: map[string]interface{}{"engagement_id": uuid.NewString()}}},
		{"Malformed id", events.BaseEvent{Type: "ENGAGEMENT_COMPLETED", Data: map[string]interface{}{
			"engagement_id": "not-a-uuid",
			"requester_id":  uuid.NewString(),
			"specialist_id": uuid.NewString(),
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, relay.HandleEvent(context.Background(), tc.event))
		})
	}
	assert.Empty(t, delivery.frames)
}
