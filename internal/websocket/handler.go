package websocket

import (
	"consultation-be/internal/entity"

	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, principal *entity.Principal, onFrame FrameHandler) {
	client := NewClient(hub, conn, principal)
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump(onFrame)
}
