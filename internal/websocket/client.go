package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
)

// FrameHandler processes one inbound text frame from a client.
type FrameHandler func(client *Client, data []byte)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	UserID    uuid.UUID
	Principal *entity.Principal

	// Buffered channel of outbound frames. Closed by the hub only.
	Send chan []byte

	// closed is guarded by Hub.mu.
	closed   bool
	dropOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, principal *entity.Principal) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		UserID:    principal.UserId,
		Principal: principal,
		Send:      make(chan []byte, sendBuffer),
	}
}

// Reply queues a frame for this connection only.
func (c *Client) Reply(frameType string, payload interface{}) {
	data, err := json.Marshal(dto.OutboundFrame{Type: frameType, Payload: payload})
	if err != nil {
		return
	}
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.drop(c)
	}
}

func (c *Client) readPump(onFrame FrameHandler) {
	defer func() {
		c.Hub.drop(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err})
			}
			return
		}
		if msgType != websocket.TextMessage || onFrame == nil {
			continue
		}
		onFrame(c, data)
	}
}

// writePump sends one frame per websocket message so clients can
// json-decode each message independently.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
