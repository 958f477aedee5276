package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "cluster_events"
	// clusterBuffer bounds envelopes waiting for the redis publisher; the
	// overflow is dropped.
	clusterBuffer  = 1024
	publishTimeout = 2 * time.Second
)

// clusterEnvelope is what instances exchange over redis. Origin lets an
// instance skip envelopes it published itself, since it already delivered
// to its local clients.
type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	instanceID string

	// UserID -> one client per connected device.
	clients map[uuid.UUID][]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns.
	done chan struct{}

	// nil disables cross-instance fan-out.
	rdb      *redis.Client
	outbound chan []byte

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		instanceID: uuid.NewString(),
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		rdb:        rdb,
		outbound:   make(chan []byte, clusterBuffer),
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
		go h.publishToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register hands the client to the run loop. It reports false when the hub
// has already stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			client.closed = true
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

func (h *Hub) ConnectedDevices(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser encodes one outbound frame and delivers it to every device of
// the user on this instance and, through redis, on the others. It never
// blocks on a slow client or on redis.
func (h *Hub) SendToUser(userID uuid.UUID, frameType string, payload interface{}) {
	data, err := json.Marshal(dto.OutboundFrame{Type: frameType, Payload: payload})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"type": frameType, "error": err})
		return
	}

	h.deliverLocal(userID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{
			Origin:       h.instanceID,
			TargetUserID: userID.String(),
			Message:      data,
		})
		select {
		case h.outbound <- envelope:
		default:
			h.logger.Warn("Hub", "Cluster buffer full, dropping envelope", map[string]interface{}{"user_id": userID})
		}
	}
}

func (h *Hub) publishToRedis(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope := <-h.outbound:
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			err := h.rdb.Publish(pubCtx, clusterChannel, envelope).Err()
			cancel()
			if err != nil {
				h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err})
			}
		}
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
			h.drop(client)
		}
	}
}

// drop schedules removal without waiting on the run loop, which may be
// blocked on the lock held by the caller.
func (h *Hub) drop(client *Client) {
	client.dropOnce.Do(func() {
		go func() {
			select {
			case h.unregister <- client:
			case <-h.done:
			}
		}()
	})
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err})
			continue
		}
		if envelope.Origin == h.instanceID {
			continue
		}
		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, envelope.Message)
	}
}
