package service

import (
	"sync"
	"testing"

	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertEngagement writes a row directly, skipping Approve's provisioning.
func (f *fixture) insertEngagement(t *testing.T, status entity.EngagementStatus) *entity.Engagement {
	t.Helper()
	e := &entity.Engagement{
		Id:           uuid.New(),
		Topic:        "Orchard pests",
		Status:       status,
		RequesterId:  f.requester.UserId,
		SpecialistId: f.specialist.UserId,
		CreatedAt:    f.clock.Now(),
	}
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).EngagementRepository().Create(f.ctx, e))
	return e
}

func TestGetOrCreate(t *testing.T) {
	f := newFixture(t)

	t.Run("Never approved engagements get no channel", func(t *testing.T) {
		for _, st := range []entity.EngagementStatus{entity.EngagementStatusPending, entity.EngagementStatusRejected} {
			e := f.insertEngagement(t, st)
			_, err := f.channels.GetOrCreate(f.ctx, e)
			assert.ErrorIs(t, err, apperror.ErrInvalidState, st)
		}
	})

	t.Run("Concurrent callers share one channel", func(t *testing.T) {
		e := f.insertEngagement(t, entity.EngagementStatusApproved)

		const callers = 12
		var wg sync.WaitGroup
		ids := make([]uuid.UUID, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c, err := f.channels.GetOrCreate(f.ctx, e)
				errs[i] = err
				if c != nil {
					ids[i] = c.Id
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}

		c, err := f.channels.GetOrCreate(f.ctx, e)
		require.NoError(t, err)
		assert.Equal(t, ids[0], c.Id)
		assert.Equal(t, e.RequesterId, c.RequesterId)
		assert.Equal(t, e.SpecialistId, c.SpecialistId)
		assert.True(t, c.IsActive)
	})
}

func TestReconcileAll(t *testing.T) {
	f := newFixture(t)
	provisioned, _ := f.approved(t)

	missing := []*entity.Engagement{
		f.insertEngagement(t, entity.EngagementStatusApproved),
		f.insertEngagement(t, entity.EngagementStatusApproved),
		f.insertEngagement(t, entity.EngagementStatusApproved),
	}
	f.insertEngagement(t, entity.EngagementStatusPending)
	f.insertEngagement(t, entity.EngagementStatusRejected)

	created, err := f.channels.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, len(missing), created)

	for _, e := range missing {
		c, err := f.channels.GetByEngagement(f.ctx, f.requester, e.Id)
		require.NoError(t, err)
		assert.Equal(t, e.Id, c.EngagementId)
	}
	_, err = f.channels.GetByEngagement(f.ctx, f.requester, provisioned.Id)
	require.NoError(t, err)

	again, err := f.channels.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestReconcileAllWithTiedTimestamps(t *testing.T) {
	f := newFixture(t)

	total := 3*reconcileBatchSize + 50
	ids := make([]uuid.UUID, total)
	for i := range ids {
		ids[i] = f.insertEngagement(t, entity.EngagementStatusApproved).Id
	}

	created, err := f.channels.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, total, created)

	repo := f.factory.NewUnitOfWork(f.ctx).ChannelRepository()
	for _, id := range ids {
		c, err := repo.FindByEngagementID(f.ctx, id)
		require.NoError(t, err)
		require.NotNil(t, c, "engagement %s has no channel", id)
	}

	again, err := f.channels.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestGetByEngagement(t *testing.T) {
	f := newFixture(t)
	e, channel := f.approved(t)

	t.Run("Either participant", func(t *testing.T) {
		for _, p := range []*entity.Principal{f.requester, f.specialist} {
			got, err := f.channels.GetByEngagement(f.ctx, p, e.Id)
			require.NoError(t, err)
			assert.Equal(t, channel.Id, got.Id)
		}
	})

	t.Run("Stranger", func(t *testing.T) {
		_, err := f.channels.GetByEngagement(f.ctx, f.otherRequester, e.Id)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("Pending engagement has none", func(t *testing.T) {
		pending := f.open(t, f.requester, f.otherSpecialist)
		_, err := f.channels.GetByEngagement(f.ctx, f.requester, pending.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
