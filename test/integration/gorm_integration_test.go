package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"consultation-be/internal/entity"
	"consultation-be/internal/model"
	"consultation-be/internal/repository/contract"
	"consultation-be/internal/repository/unitofwork"
	"consultation-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gormDB))

	return unitofwork.NewRepositoryFactory(gormDB)
}

func seedUser(t *testing.T, uow unitofwork.UnitOfWork, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:       uuid.New(),
		Email:    "it-" + uuid.NewString() + "@example.com",
		FullName: "Integration " + string(role),
		Role:     role,
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func TestEngagementLifecycleAgainstPostgres(t *testing.T) {
	factory := openFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	requester := seedUser(t, uow, entity.UserRoleRequester)
	specialist := seedUser(t, uow, entity.UserRoleSpecialist)

	engagement := &entity.Engagement{
		Id:           uuid.New(),
		Topic:        "Leaf blight",
		Status:       entity.EngagementStatusPending,
		RequesterId:  requester.Id,
		SpecialistId: specialist.Id,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, uow.EngagementRepository().Create(ctx, engagement))

	t.Run("Second pending engagement for the same pair is rejected", func(t *testing.T) {
		dup := *engagement
		dup.Id = uuid.New()
		err := uow.EngagementRepository().Create(ctx, &dup)
		assert.ErrorIs(t, err, contract.ErrDuplicateKey)
	})

	t.Run("Conditional transition has exactly one winner", func(t *testing.T) {
		now := time.Now()
		won, err := uow.EngagementRepository().TransitionStatus(ctx, engagement.Id, entity.EngagementStatusPending, entity.EngagementStatusApproved, now, nil)
		require.NoError(t, err)
		assert.True(t, won)

		won, err = uow.EngagementRepository().TransitionStatus(ctx, engagement.Id, entity.EngagementStatusPending, entity.EngagementStatusRejected, now, nil)
		require.NoError(t, err)
		assert.False(t, won)
	})

	channel := &entity.Channel{
		Id:           uuid.New(),
		EngagementId: engagement.Id,
		RequesterId:  requester.Id,
		SpecialistId: specialist.Id,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	t.Run("One channel per engagement", func(t *testing.T) {
		require.NoError(t, uow.ChannelRepository().Create(ctx, channel))

		other := *channel
		other.Id = uuid.New()
		assert.ErrorIs(t, uow.ChannelRepository().Create(ctx, &other), contract.ErrDuplicateKey)
	})

	t.Run("Mark read clears unread in one write", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, uow.MessageRepository().Create(ctx, &entity.Message{
				Id:         uuid.New(),
				ChannelId:  channel.Id,
				SenderId:   requester.Id,
				ReceiverId: specialist.Id,
				Body:       "hello",
				Status:     entity.MessageStatusSent,
				SentAt:     time.Now(),
				CreatedAt:  time.Now(),
			}))
		}

		count, err := uow.MessageRepository().CountUnreadInChannel(ctx, channel.Id, specialist.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		updated, err := uow.MessageRepository().MarkReadForReceiver(ctx, channel.Id, specialist.Id, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)

		count, err = uow.MessageRepository().CountUnread(ctx, specialist.Id)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Last message time never moves backwards", func(t *testing.T) {
		later := time.Now().Add(time.Hour)
		require.NoError(t, uow.ChannelRepository().TouchLastMessage(ctx, channel.Id, later))
		require.NoError(t, uow.ChannelRepository().TouchLastMessage(ctx, channel.Id, later.Add(-30*time.Minute)))

		got, err := uow.ChannelRepository().FindByID(ctx, channel.Id)
		require.NoError(t, err)
		require.NotNil(t, got.LastMessageAt)
		assert.WithinDuration(t, later, *got.LastMessageAt, time.Millisecond)
	})

	t.Cleanup(func() {
		_ = uow.MessageRepository().DeleteByChannelID(ctx, channel.Id)
		_ = uow.ChannelRepository().DeleteByEngagementID(ctx, engagement.Id)
		_ = uow.EngagementRepository().Delete(ctx, engagement.Id)
	})
}

func TestApprovedWithoutChannelPagesByKeyset(t *testing.T) {
	factory := openFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	requester := seedUser(t, uow, entity.UserRoleRequester)
	specialist := seedUser(t, uow, entity.UserRoleSpecialist)

	tied := time.Now().UTC().Truncate(time.Microsecond)
	ours := map[uuid.UUID]int{}
	for i := 0; i < 5; i++ {
		e := &entity.Engagement{
			Id:           uuid.New(),
			Topic:        "Tied timestamps",
			Status:       entity.EngagementStatusApproved,
			RequesterId:  requester.Id,
			SpecialistId: specialist.Id,
			CreatedAt:    tied,
		}
		require.NoError(t, uow.EngagementRepository().Create(ctx, e))
		ours[e.Id] = 0
	}
	t.Cleanup(func() {
		for id := range ours {
			_ = uow.EngagementRepository().Delete(ctx, id)
		}
	})

	var cursor *entity.EngagementCursor
	for {
		page, err := uow.EngagementRepository().FindApprovedWithoutChannel(ctx, cursor, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, e := range page {
			if _, ok := ours[e.Id]; ok {
				ours[e.Id]++
			}
		}
		last := page[len(page)-1]
		cursor = &entity.EngagementCursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}

	for id, seen := range ours {
		assert.Equal(t, 1, seen, "engagement %s", id)
	}
}

func TestShareLockedReadHoldsOffStatusChange(t *testing.T) {
	factory := openFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	requester := seedUser(t, uow, entity.UserRoleRequester)
	specialist := seedUser(t, uow, entity.UserRoleSpecialist)

	engagement := &entity.Engagement{
		Id:           uuid.New(),
		Topic:        "Locked gate",
		Status:       entity.EngagementStatusApproved,
		RequesterId:  requester.Id,
		SpecialistId: specialist.Id,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, uow.EngagementRepository().Create(ctx, engagement))
	t.Cleanup(func() {
		_ = uow.EngagementRepository().Delete(ctx, engagement.Id)
	})

	gate := factory.NewUnitOfWork(ctx)
	require.NoError(t, gate.Begin(ctx))
	defer gate.Rollback()

	locked, err := gate.EngagementRepository().FindByIDForShare(ctx, engagement.Id)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, entity.EngagementStatusApproved, locked.Status)

	type result struct {
		won bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		now := time.Now()
		won, err := factory.NewUnitOfWork(ctx).EngagementRepository().
			TransitionStatus(ctx, engagement.Id, entity.EngagementStatusApproved, entity.EngagementStatusCompleted, now, &now)
		done <- result{won, err}
	}()

	select {
	case <-done:
		t.Fatal("status change went through while the row was share locked")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, gate.Commit())

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.True(t, res.won)
	case <-time.After(5 * time.Second):
		t.Fatal("status change never resumed after commit")
	}

	missing, err := uow.EngagementRepository().FindByIDForShare(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
