package websocket

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func registerClient(t *testing.T, hub *Hub, userID uuid.UUID) *Client {
	t.Helper()
	before := hub.ConnectedDevices(userID)
	client := NewClient(hub, nil, &entity.Principal{UserId: userID, Role: entity.UserRoleRequester})
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ConnectedDevices(userID) == before+1 }, time.Second, 5*time.Millisecond)
	return client
}

func readFrame(t *testing.T, c *Client) dto.OutboundFrame {
	t.Helper()
	select {
	case data := <-c.Send:
		var frame dto.OutboundFrame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return dto.OutboundFrame{}
}

func TestSendToUserReachesEveryDevice(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	phone := registerClient(t, hub, userID)
	laptop := registerClient(t, hub, userID)
	other := registerClient(t, hub, uuid.New())

	hub.SendToUser(userID, dto.FrameMessageNew, map[string]string{"text": "hello"})

	assert.Equal(t, dto.FrameMessageNew, readFrame(t, phone).Type)
	assert.Equal(t, dto.FrameMessageNew, readFrame(t, laptop).Type)
	assert.Len(t, other.Send, 0)
}

func TestFullBufferDropsClientWithoutBlocking(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	client := registerClient(t, hub, userID)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+10; i++ {
			hub.SendToUser(userID, dto.FrameMessageNew, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SendToUser blocked on a full client")
	}
	assert.Eventually(t, func() bool { return hub.ConnectedDevices(userID) == 0 }, time.Second, 5*time.Millisecond)

	// Replies after removal are discarded instead of panicking.
	client.Reply(dto.FrameError, dto.ErrorPayload{Code: "X"})
}

func TestReplyTargetsSingleConnection(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	first := registerClient(t, hub, userID)
	second := registerClient(t, hub, userID)

	first.Reply(dto.FrameError, dto.ErrorPayload{Code: "VALIDATION_ERROR", Message: "bad"})

	frame := readFrame(t, first)
	assert.Equal(t, dto.FrameError, frame.Type)
	assert.Len(t, second.Send, 0)
}

// silentRedis accepts connections and never answers, like a wedged server.
func silentRedis(t *testing.T) *redis.Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	rdb := redis.NewClient(&redis.Options{Addr: ln.Addr().String()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestSendToUserDoesNotWaitOnRedis(t *testing.T) {
	hub := NewHub(silentRedis(t), logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	userID := uuid.New()
	client := registerClient(t, hub, userID)

	start := time.Now()
	for i := 0; i < 10; i++ {
		hub.SendToUser(userID, dto.FrameMessageNew, i)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, dto.FrameMessageNew, readFrame(t, client).Type)
}

func TestStoppedHubRefusesRegistration(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	registered := make(chan bool, 1)
	go func() {
		registered <- hub.Register(NewClient(hub, nil, &entity.Principal{UserId: uuid.New()}))
	}()
	select {
	case ok := <-registered:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a stopped hub")
	}

	// Drops after shutdown must not pile up behind the unregister buffer.
	for i := 0; i < 100; i++ {
		hub.drop(NewClient(hub, nil, &entity.Principal{UserId: uuid.New()}))
	}
}
