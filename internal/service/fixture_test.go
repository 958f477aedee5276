package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/clock"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/repository/memory"
	"consultation-be/internal/repository/unitofwork"
	"consultation-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type sentFrame struct {
	UserID  uuid.UUID
	Type    string
	Payload interface{}
}

type recordingDelivery struct {
	mu     sync.Mutex
	frames []sentFrame
}

func (d *recordingDelivery) SendToUser(userID uuid.UUID, frameType string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, sentFrame{UserID: userID, Type: frameType, Payload: payload})
}

func (d *recordingDelivery) count(userID uuid.UUID, frameType string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, f := range d.frames {
		if f.UserID == userID && f.Type == frameType {
			n++
		}
	}
	return n
}

type email struct {
	Recipient string
	Subject   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []email
}

func (n *recordingNotifier) Notify(recipient, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email{Recipient: recipient, Subject: subject})
}

func (n *recordingNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, e := range n.sent {
		out[i] = e.Recipient
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	factory   unitofwork.RepositoryFactory
	clock     *clock.FakeClock
	delivery  *recordingDelivery
	notifier  *recordingNotifier
	publisher *recordingPublisher

	requester       *entity.Principal
	specialist      *entity.Principal
	otherRequester  *entity.Principal
	otherSpecialist *entity.Principal

	engagements IEngagementService
	channels    IChannelService
	messages    IMessageService
	visits      IVisitService
	reports     IReportService
	feedback    IFeedbackService
}

func newFixture(t *testing.T, opts ...MessageServiceOption) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:       context.Background(),
		store:     store,
		factory:   memory.NewRepositoryFactory(store),
		clock:     clock.Fake(baseTime),
		delivery:  &recordingDelivery{},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}

	f.requester = f.seedUser(t, "rita@example.com", entity.UserRoleRequester)
	f.specialist = f.seedUser(t, "sam@example.com", entity.UserRoleSpecialist)
	f.otherRequester = f.seedUser(t, "otto@example.com", entity.UserRoleRequester)
	f.otherSpecialist = f.seedUser(t, "sara@example.com", entity.UserRoleSpecialist)

	log := logger.NewNopLogger()
	directory := NewUserDirectory(f.factory)
	f.channels = NewChannelService(f.factory, f.clock, log)
	f.engagements = NewEngagementService(f.factory, f.channels, directory, f.notifier, f.publisher, f.clock, log)
	f.messages = NewMessageService(f.factory, f.delivery, f.clock, log, opts...)
	f.visits = NewVisitService(f.factory, f.clock, log)
	f.reports = NewReportService(f.factory, f.clock, log)
	f.feedback = NewFeedbackService(f.factory, directory, f.notifier, f.clock, DefaultFeedbackEditWindow, log)
	return f
}

func (f *fixture) seedUser(t *testing.T, emailAddr string, role entity.UserRole) *entity.Principal {
	t.Helper()
	user := &entity.User{
		Id:        uuid.New(),
		Email:     emailAddr,
		FullName:  emailAddr,
		Role:      role,
		CreatedAt: baseTime,
	}
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).UserRepository().Create(f.ctx, user))
	return &entity.Principal{UserId: user.Id, Email: user.Email, Role: role}
}

func (f *fixture) open(t *testing.T, requester, specialist *entity.Principal) *entity.Engagement {
	t.Helper()
	e, err := f.engagements.Create(f.ctx, requester, &dto.CreateEngagementRequest{
		SpecialistId: specialist.UserId,
		Topic:        "Yellowing maize leaves",
		Description:  "Lower leaves turned yellow after the rains",
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) approved(t *testing.T) (*entity.Engagement, *entity.Channel) {
	t.Helper()
	e := f.open(t, f.requester, f.specialist)
	e, err := f.engagements.Approve(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)
	channel, err := f.channels.GetByEngagement(f.ctx, f.requester, e.Id)
	require.NoError(t, err)
	return e, channel
}

func (f *fixture) completed(t *testing.T) *entity.Engagement {
	t.Helper()
	e, _ := f.approved(t)
	e, err := f.engagements.Complete(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)
	return e
}
