package service

import (
	"slices"
	"sync"
	"testing"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementCreate(t *testing.T) {
	f := newFixture(t)

	t.Run("Requester opens a pending engagement", func(t *testing.T) {
		e := f.open(t, f.requester, f.specialist)
		assert.Equal(t, entity.EngagementStatusPending, e.Status)
		assert.Equal(t, f.requester.UserId, e.RequesterId)
		assert.Equal(t, f.specialist.UserId, e.SpecialistId)
		assert.Equal(t, baseTime, e.CreatedAt)
		assert.Nil(t, e.ClosedAt)
	})

	t.Run("Second pending request to the same specialist conflicts", func(t *testing.T) {
		_, err := f.engagements.Create(f.ctx, f.requester, &dto.CreateEngagementRequest{
			SpecialistId: f.specialist.UserId,
			Topic:        "Again",
		})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("Another specialist is fine", func(t *testing.T) {
		e := f.open(t, f.requester, f.otherSpecialist)
		assert.Equal(t, entity.EngagementStatusPending, e.Status)
	})

	cases := []struct {
		name    string
		actor   *entity.Principal
		req     dto.CreateEngagementRequest
		wantErr error
	}{
		{"No principal", nil, dto.CreateEngagementRequest{SpecialistId: f.specialist.UserId, Topic: "x"}, apperror.ErrUnauthorized},
		{"Specialist cannot open", f.specialist, dto.CreateEngagementRequest{SpecialistId: f.otherSpecialist.UserId, Topic: "x"}, apperror.ErrForbidden},
		{"Blank topic", f.otherRequester, dto.CreateEngagementRequest{SpecialistId: f.specialist.UserId, Topic: "   "}, apperror.ErrValidation},
		{"Unknown specialist", f.otherRequester, dto.CreateEngagementRequest{SpecialistId: uuid.New(), Topic: "x"}, apperror.ErrNotFound},
		{"Target is a requester", f.otherRequester, dto.CreateEngagementRequest{SpecialistId: f.requester.UserId, Topic: "x"}, apperror.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.engagements.Create(f.ctx, tc.actor, &req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEngagementRejectAllowsNewRequest(t *testing.T) {
	f := newFixture(t)
	e := f.open(t, f.requester, f.specialist)

	rejected, err := f.engagements.Reject(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.EngagementStatusRejected, rejected.Status)
	assert.Equal(t, []string{f.requester.Email}, f.notifier.recipients())

	again := f.open(t, f.requester, f.specialist)
	assert.NotEqual(t, e.Id, again.Id)
}

func TestEngagementApprove(t *testing.T) {
	f := newFixture(t)
	e := f.open(t, f.requester, f.specialist)

	t.Run("Requester cannot approve", func(t *testing.T) {
		_, err := f.engagements.Approve(f.ctx, f.requester, e.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("Unassigned specialist cannot approve", func(t *testing.T) {
		_, err := f.engagements.Approve(f.ctx, f.otherSpecialist, e.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		got, err := f.engagements.Get(f.ctx, f.requester, e.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.EngagementStatusPending, got.Status)
	})

	t.Run("Unknown engagement", func(t *testing.T) {
		_, err := f.engagements.Approve(f.ctx, f.specialist, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Assigned specialist approves and a channel appears", func(t *testing.T) {
		approved, err := f.engagements.Approve(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.EngagementStatusApproved, approved.Status)

		channel, err := f.channels.GetByEngagement(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		assert.True(t, channel.IsActive)
		assert.Equal(t, f.requester.UserId, channel.RequesterId)
		assert.Equal(t, f.specialist.UserId, channel.SpecialistId)
	})

	t.Run("Approving twice is an invalid state", func(t *testing.T) {
		_, err := f.engagements.Approve(f.ctx, f.specialist, e.Id)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Rejecting after approval is an invalid state", func(t *testing.T) {
		_, err := f.engagements.Reject(f.ctx, f.specialist, e.Id)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	assert.Eventually(t, func() bool {
		types := f.publisher.types()
		return len(types) == 2 &&
			slices.Contains(types, EventEngagementCreated) &&
			slices.Contains(types, EventEngagementApproved)
	}, time.Second, 10*time.Millisecond)
}

func TestEngagementConcurrentApproveHasOneWinner(t *testing.T) {
	f := newFixture(t)
	e := f.open(t, f.requester, f.specialist)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engagements.Approve(f.ctx, f.specialist, e.Id)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	}
	assert.Equal(t, 1, wins)

	rooms, err := f.messages.RoomsForParticipant(f.ctx, f.requester)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestEngagementComplete(t *testing.T) {
	f := newFixture(t)

	t.Run("Pending cannot be completed", func(t *testing.T) {
		e := f.open(t, f.requester, f.specialist)
		_, err := f.engagements.Complete(f.ctx, f.specialist, e.Id)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)

		got, err := f.engagements.Get(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.EngagementStatusPending, got.Status)
		assert.Nil(t, got.ClosedAt)
	})

	t.Run("Approved completes and records closedAt", func(t *testing.T) {
		e := f.open(t, f.requester, f.otherSpecialist)
		_, err := f.engagements.Approve(f.ctx, f.otherSpecialist, e.Id)
		require.NoError(t, err)

		f.clock.Advance(48 * time.Hour)
		done, err := f.engagements.Complete(f.ctx, f.otherSpecialist, e.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.EngagementStatusCompleted, done.Status)
		require.NotNil(t, done.ClosedAt)
		assert.Equal(t, f.clock.Now(), *done.ClosedAt)

		_, err = f.engagements.Complete(f.ctx, f.otherSpecialist, e.Id)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}

func TestEngagementUpdateContent(t *testing.T) {
	f := newFixture(t)
	e := f.open(t, f.requester, f.specialist)
	topic := "Maize rust"

	t.Run("Specialist cannot edit", func(t *testing.T) {
		_, err := f.engagements.UpdateContent(f.ctx, f.specialist, e.Id, &dto.UpdateEngagementRequest{Topic: &topic})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("Requester edits only what is given", func(t *testing.T) {
		got, err := f.engagements.UpdateContent(f.ctx, f.requester, e.Id, &dto.UpdateEngagementRequest{Topic: &topic})
		require.NoError(t, err)
		assert.Equal(t, topic, got.Topic)
		assert.Equal(t, e.Description, got.Description)
	})

	t.Run("Blank topic is rejected", func(t *testing.T) {
		blank := " "
		_, err := f.engagements.UpdateContent(f.ctx, f.requester, e.Id, &dto.UpdateEngagementRequest{Topic: &blank})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Terminal engagements are frozen", func(t *testing.T) {
		_, err := f.engagements.Reject(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		_, err = f.engagements.UpdateContent(f.ctx, f.requester, e.Id, &dto.UpdateEngagementRequest{Topic: &topic})
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}

func TestEngagementDeleteCascades(t *testing.T) {
	f := newFixture(t)
	e, channel := f.approved(t)

	_, err := f.messages.Send(f.ctx, f.requester, channel.Id, "hello")
	require.NoError(t, err)
	_, err = f.visits.Create(f.ctx, f.specialist, e.Id, &dto.CreateVisitRequest{ScheduledAt: baseTime.Add(24 * time.Hour)})
	require.NoError(t, err)
	_, err = f.reports.Create(f.ctx, f.specialist, e.Id, &dto.CreateReportRequest{Title: "Initial findings"})
	require.NoError(t, err)

	t.Run("Specialist cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, f.engagements.Delete(f.ctx, f.specialist, e.Id), apperror.ErrForbidden)
	})

	require.NoError(t, f.engagements.Delete(f.ctx, f.requester, e.Id))

	_, err = f.engagements.Get(f.ctx, f.requester, e.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	uow := f.factory.NewUnitOfWork(f.ctx)
	gone, err := uow.ChannelRepository().FindByID(f.ctx, channel.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	visits, err := uow.VisitRepository().FindByEngagementID(f.ctx, e.Id)
	require.NoError(t, err)
	assert.Empty(t, visits)

	unread, err := f.messages.UnreadCount(f.ctx, f.specialist)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestEngagementReads(t *testing.T) {
	f := newFixture(t)
	first := f.open(t, f.requester, f.specialist)
	f.clock.Advance(time.Minute)
	second := f.open(t, f.requester, f.otherSpecialist)
	_, err := f.engagements.Approve(f.ctx, f.otherSpecialist, second.Id)
	require.NoError(t, err)

	t.Run("Stranger cannot read", func(t *testing.T) {
		_, err := f.engagements.Get(f.ctx, f.otherRequester, first.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("List is scoped to the caller", func(t *testing.T) {
		mine, err := f.engagements.List(f.ctx, f.requester, entity.EngagementFilter{})
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		theirs, err := f.engagements.List(f.ctx, f.otherRequester, entity.EngagementFilter{})
		require.NoError(t, err)
		assert.Empty(t, theirs)

		assigned, err := f.engagements.List(f.ctx, f.specialist, entity.EngagementFilter{})
		require.NoError(t, err)
		require.Len(t, assigned, 1)
		assert.Equal(t, first.Id, assigned[0].Id)
	})

	t.Run("Status filter", func(t *testing.T) {
		approved := entity.EngagementStatusApproved
		list, err := f.engagements.List(f.ctx, f.requester, entity.EngagementFilter{Status: &approved})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, second.Id, list[0].Id)

		bogus := entity.EngagementStatus("ARCHIVED")
		_, err = f.engagements.List(f.ctx, f.requester, entity.EngagementFilter{Status: &bogus})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Date range must be ordered", func(t *testing.T) {
		from, to := baseTime.Add(time.Hour), baseTime
		_, err := f.engagements.List(f.ctx, f.requester, entity.EngagementFilter{From: &from, To: &to})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Recent is newest first", func(t *testing.T) {
		recent, err := f.engagements.Recent(f.ctx, f.requester, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, second.Id, recent[0].Id)
	})
}

// A complete consultation from request to feedback.
func TestEngagementFullScenario(t *testing.T) {
	f := newFixture(t)

	e := f.open(t, f.requester, f.specialist)
	_, err := f.engagements.Approve(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)

	room, err := f.channels.GetByEngagement(f.ctx, f.requester, e.Id)
	require.NoError(t, err)

	_, err = f.messages.Send(f.ctx, f.requester, room.Id, "Photos attached")
	require.NoError(t, err)
	unread, err := f.messages.UnreadCount(f.ctx, f.specialist)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	_, err = f.visits.Create(f.ctx, f.specialist, e.Id, &dto.CreateVisitRequest{ScheduledAt: baseTime.Add(72 * time.Hour)})
	require.NoError(t, err)

	_, err = f.feedback.Create(f.ctx, f.requester, e.Id, &dto.CreateFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	_, err = f.engagements.Complete(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)

	_, err = f.reports.Create(f.ctx, f.specialist, e.Id, &dto.CreateReportRequest{Title: "Final report"})
	require.NoError(t, err)
	_, err = f.visits.Create(f.ctx, f.specialist, e.Id, &dto.CreateVisitRequest{ScheduledAt: baseTime.Add(96 * time.Hour)})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	fb, err := f.feedback.Create(f.ctx, f.requester, e.Id, &dto.CreateFeedbackRequest{Rating: 4, Comment: "Helpful"})
	require.NoError(t, err)
	assert.Equal(t, 4, fb.Rating)

	assert.Contains(t, f.notifier.recipients(), f.specialist.Email)
}
