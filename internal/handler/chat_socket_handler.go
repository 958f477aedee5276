package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/apperror"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/service"
	internalWS "consultation-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const frameTimeout = 10 * time.Second

// ChatSocketHandler is the realtime edge: it authenticates the handshake and
// turns inbound frames into MessageService calls.
type ChatSocketHandler struct {
	messages  service.IMessageService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewChatSocketHandler(messages service.IMessageService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		messages:  messages,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}

func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return apperror.Unauthorized("missing token (query 'token' or Authorization header)")
	}

	principal, err := serverutils.ParsePrincipal(tokenStr, h.jwtSecret)
	if err != nil {
		h.logger.Warn("ChatSocket", "Rejected websocket handshake", map[string]interface{}{"error": err})
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatSocket", "Session started", map[string]interface{}{"user_id": principal.UserId})
		internalWS.ServeWs(h.hub, conn, principal, h.HandleFrame)
		h.logger.Info("ChatSocket", "Session ended", map[string]interface{}{"user_id": principal.UserId})
	})(c)
}

// HandleFrame dispatches one inbound frame. Failures are answered on the
// originating connection only.
func (h *ChatSocketHandler) HandleFrame(client *internalWS.Client, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	if err := h.dispatch(ctx, client.Principal, data); err != nil {
		client.Reply(dto.FrameError, errorPayload(err))
	}
}

func (h *ChatSocketHandler) dispatch(ctx context.Context, p *entity.Principal, data []byte) error {
	var frame dto.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return apperror.Validation("malformed frame")
	}

	// Successful calls answer through the hub pushes the service performs.
	var err error
	switch frame.Type {
	case dto.FrameSend:
		_, err = h.messages.Send(ctx, p, frame.ChannelId, frame.Text)
	case dto.FrameRead:
		_, err = h.messages.MarkRead(ctx, p, frame.ChannelId)
	case dto.FrameDelivered:
		_, err = h.messages.MarkDelivered(ctx, p, frame.MessageId)
	default:
		return apperror.Validation("unknown frame type %q", frame.Type)
	}

	if err != nil && apperror.CodeOf(err) == apperror.CodeInternal {
		h.logger.Error("ChatSocket", "Frame failed", map[string]interface{}{
			"user_id": p.UserId,
			"type":    frame.Type,
			"error":   err,
		})
	}
	return err
}

func errorPayload(err error) dto.ErrorPayload {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code == apperror.CodeInternal {
		return dto.ErrorPayload{Code: string(apperror.CodeInternal), Message: "internal server error"}
	}
	return dto.ErrorPayload{Code: string(appErr.Code), Message: appErr.Message}
}
