package service

import (
	"testing"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitCreateGate(t *testing.T) {
	f := newFixture(t)
	tomorrow := func() *dto.CreateVisitRequest {
		return &dto.CreateVisitRequest{ScheduledAt: f.clock.Now().Add(24 * time.Hour), Notes: " bring soil samples "}
	}

	pending := f.open(t, f.requester, f.specialist)
	_, err := f.visits.Create(f.ctx, f.specialist, pending.Id, tomorrow())
	assert.ErrorIs(t, err, apperror.ErrInvalidState, "pending engagements take no visits")

	_, err = f.engagements.Approve(f.ctx, f.specialist, pending.Id)
	require.NoError(t, err)

	cases := []struct {
		name    string
		actor   *entity.Principal
		id      uuid.UUID
		req     *dto.CreateVisitRequest
		wantErr error
	}{
		{"No principal", nil, pending.Id, tomorrow(), apperror.ErrUnauthorized},
		{"Requester", f.requester, pending.Id, tomorrow(), apperror.ErrForbidden},
		{"Other specialist", f.otherSpecialist, pending.Id, tomorrow(), apperror.ErrForbidden},
		{"Unknown engagement", f.specialist, uuid.New(), tomorrow(), apperror.ErrNotFound},
		{"In the past", f.specialist, pending.Id, &dto.CreateVisitRequest{ScheduledAt: f.clock.Now().Add(-time.Hour)}, apperror.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.visits.Create(f.ctx, tc.actor, tc.id, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("Assigned specialist", func(t *testing.T) {
		visit, err := f.visits.Create(f.ctx, f.specialist, pending.Id, tomorrow())
		require.NoError(t, err)
		assert.Equal(t, entity.VisitStatusScheduled, visit.Status)
		assert.Equal(t, "bring soil samples", visit.Notes)
		assert.Equal(t, f.specialist.UserId, visit.CreatedBy)
	})

	t.Run("Closed after completion", func(t *testing.T) {
		_, err := f.engagements.Complete(f.ctx, f.specialist, pending.Id)
		require.NoError(t, err)
		_, err = f.visits.Create(f.ctx, f.specialist, pending.Id, tomorrow())
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}

func TestVisitLifecycle(t *testing.T) {
	f := newFixture(t)
	e, _ := f.approved(t)

	late, err := f.visits.Create(f.ctx, f.specialist, e.Id, &dto.CreateVisitRequest{ScheduledAt: f.clock.Now().Add(72 * time.Hour)})
	require.NoError(t, err)
	early, err := f.visits.Create(f.ctx, f.specialist, e.Id, &dto.CreateVisitRequest{ScheduledAt: f.clock.Now().Add(48 * time.Hour)})
	require.NoError(t, err)

	t.Run("Listed by schedule for both participants", func(t *testing.T) {
		for _, p := range []*entity.Principal{f.requester, f.specialist} {
			list, err := f.visits.ListByEngagement(f.ctx, p, e.Id)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, early.Id, list[0].Id)
			assert.Equal(t, late.Id, list[1].Id)
		}
		_, err := f.visits.ListByEngagement(f.ctx, f.otherRequester, e.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("Reschedule", func(t *testing.T) {
		next := f.clock.Now().Add(96 * time.Hour)
		_, err := f.visits.Reschedule(f.ctx, f.requester, early.Id, next)
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = f.visits.Reschedule(f.ctx, f.specialist, early.Id, f.clock.Now())
		assert.ErrorIs(t, err, apperror.ErrValidation)

		moved, err := f.visits.Reschedule(f.ctx, f.specialist, early.Id, next)
		require.NoError(t, err)
		assert.Equal(t, next, moved.ScheduledAt)
	})

	t.Run("Final statuses are terminal", func(t *testing.T) {
		_, err := f.visits.SetStatus(f.ctx, f.specialist, late.Id, entity.VisitStatusScheduled)
		assert.ErrorIs(t, err, apperror.ErrValidation)

		done, err := f.visits.SetStatus(f.ctx, f.specialist, late.Id, entity.VisitStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, entity.VisitStatusCompleted, done.Status)

		_, err = f.visits.SetStatus(f.ctx, f.specialist, late.Id, entity.VisitStatusCancelled)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
		_, err = f.visits.Reschedule(f.ctx, f.specialist, late.Id, f.clock.Now().Add(time.Hour))
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.ErrorIs(t, f.visits.Delete(f.ctx, f.requester, early.Id), apperror.ErrForbidden)
		require.NoError(t, f.visits.Delete(f.ctx, f.specialist, early.Id))
		assert.ErrorIs(t, f.visits.Delete(f.ctx, f.specialist, early.Id), apperror.ErrNotFound)
	})
}
