package service

import (
	"testing"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackCreateGate(t *testing.T) {
	f := newFixture(t)
	e, _ := f.approved(t)
	req := &dto.CreateFeedbackRequest{Rating: 5, Comment: " Very helpful "}

	_, err := f.feedback.Create(f.ctx, f.requester, e.Id, req)
	assert.ErrorIs(t, err, apperror.ErrInvalidState, "feedback waits for completion")

	_, err = f.engagements.Complete(f.ctx, f.specialist, e.Id)
	require.NoError(t, err)

	cases := []struct {
		name    string
		actor   *entity.Principal
		rating  int
		wantErr error
	}{
		{"No principal", nil, 5, apperror.ErrUnauthorized},
		{"Specialist", f.specialist, 5, apperror.ErrForbidden},
		{"Other requester", f.otherRequester, 5, apperror.ErrForbidden},
		{"Rating too low", f.requester, 0, apperror.ErrValidation},
		{"Rating too high", f.requester, 6, apperror.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.feedback.Create(f.ctx, tc.actor, e.Id, &dto.CreateFeedbackRequest{Rating: tc.rating})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	fb, err := f.feedback.Create(f.ctx, f.requester, e.Id, req)
	require.NoError(t, err)
	assert.Equal(t, "Very helpful", fb.Comment)
	assert.Contains(t, f.notifier.recipients(), "sam@example.com")

	_, err = f.feedback.Create(f.ctx, f.requester, e.Id, req)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	t.Run("Specialist reads it", func(t *testing.T) {
		got, err := f.feedback.GetByEngagement(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		assert.Equal(t, fb.Id, got.Id)
	})
}

func TestFeedbackEditWindow(t *testing.T) {
	f := newFixture(t)
	e := f.completed(t)
	fb, err := f.feedback.Create(f.ctx, f.requester, e.Id, &dto.CreateFeedbackRequest{Rating: 3})
	require.NoError(t, err)

	f.clock.Advance(6 * 24 * time.Hour)
	updated, err := f.feedback.Update(f.ctx, f.requester, fb.Id, &dto.UpdateFeedbackRequest{Rating: 4, Comment: "Crop recovered"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	_, err = f.feedback.Update(f.ctx, f.specialist, fb.Id, &dto.UpdateFeedbackRequest{Rating: 1})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	f.clock.Advance(2 * 24 * time.Hour)
	_, err = f.feedback.Update(f.ctx, f.requester, fb.Id, &dto.UpdateFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrEditWindowExpired)

	got, err := f.feedback.GetByEngagement(f.ctx, f.requester, e.Id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestFeedbackDelete(t *testing.T) {
	f := newFixture(t)
	e := f.completed(t)
	fb, err := f.feedback.Create(f.ctx, f.requester, e.Id, &dto.CreateFeedbackRequest{Rating: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, f.feedback.Delete(f.ctx, f.specialist, fb.Id), apperror.ErrForbidden)
	require.NoError(t, f.feedback.Delete(f.ctx, f.requester, fb.Id))

	_, err = f.feedback.GetByEngagement(f.ctx, f.requester, e.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.feedback.Create(f.ctx, f.requester, e.Id, &dto.CreateFeedbackRequest{Rating: 4})
	assert.NoError(t, err, "a removed review can be written again")
}
