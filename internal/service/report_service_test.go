package service

import (
	"testing"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRequest(title string) *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		Title:           title,
		Findings:        "Nitrogen deficiency",
		Recommendations: "Side-dress with urea",
		Attachments: []dto.AttachmentRequest{
			{Name: "leaf.jpg", ContentType: "image/jpeg", Size: 2048, StorageRef: "reports/leaf.jpg"},
		},
	}
}

func TestReportCreateGate(t *testing.T) {
	f := newFixture(t)

	rejected := f.open(t, f.requester, f.specialist)
	_, err := f.engagements.Reject(f.ctx, f.specialist, rejected.Id)
	require.NoError(t, err)
	_, err = f.reports.Create(f.ctx, f.specialist, rejected.Id, reportRequest("Site visit"))
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	e, _ := f.approved(t)

	cases := []struct {
		name    string
		actor   *entity.Principal
		id      uuid.UUID
		title   string
		wantErr error
	}{
		{"No principal", nil, e.Id, "Site visit", apperror.ErrUnauthorized},
		{"Requester", f.requester, e.Id, "Site visit", apperror.ErrForbidden},
		{"Stranger", f.otherSpecialist, e.Id, "Site visit", apperror.ErrForbidden},
		{"Unknown engagement", f.specialist, uuid.New(), "Site visit", apperror.ErrNotFound},
		{"Blank title", f.specialist, e.Id, "   ", apperror.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reports.Create(f.ctx, tc.actor, tc.id, reportRequest(tc.title))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("Approved and completed both accept reports", func(t *testing.T) {
		report, err := f.reports.Create(f.ctx, f.specialist, e.Id, reportRequest("First visit"))
		require.NoError(t, err)
		require.Len(t, report.Attachments, 1)
		assert.Equal(t, "reports/leaf.jpg", report.Attachments[0].StorageRef)

		_, err = f.engagements.Complete(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		_, err = f.reports.Create(f.ctx, f.specialist, e.Id, reportRequest("Closing summary"))
		assert.NoError(t, err)
	})
}

func TestReportReadsAndWrites(t *testing.T) {
	f := newFixture(t)
	e, _ := f.approved(t)
	report, err := f.reports.Create(f.ctx, f.specialist, e.Id, reportRequest("First visit"))
	require.NoError(t, err)

	t.Run("Both participants read", func(t *testing.T) {
		got, err := f.reports.Get(f.ctx, f.requester, report.Id)
		require.NoError(t, err)
		assert.Equal(t, "First visit", got.Title)

		list, err := f.reports.ListByEngagement(f.ctx, f.specialist, e.Id)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = f.reports.Get(f.ctx, f.otherRequester, report.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("Only the author updates", func(t *testing.T) {
		req := &dto.UpdateReportRequest{Title: "First visit (revised)", Findings: "Confirmed deficiency"}
		_, err := f.reports.Update(f.ctx, f.requester, report.Id, req)
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		updated, err := f.reports.Update(f.ctx, f.specialist, report.Id, req)
		require.NoError(t, err)
		assert.Equal(t, "First visit (revised)", updated.Title)
		assert.Empty(t, updated.Attachments)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.ErrorIs(t, f.reports.Delete(f.ctx, f.requester, report.Id), apperror.ErrForbidden)
		require.NoError(t, f.reports.Delete(f.ctx, f.specialist, report.Id))
		_, err := f.reports.Get(f.ctx, f.specialist, report.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
