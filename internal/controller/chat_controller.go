package controller

import (
	"consultation-be/internal/dto"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Rooms(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
	UnreadCountInRoom(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkDelivered(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Forward(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IMessageService
	auth    fiber.Handler
}

func NewChatController(service service.IMessageService, auth fiber.Handler) IChatController {
	return &chatController{service: service, auth: auth}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(c.auth)
	h.Get("rooms", c.Rooms)
	h.Get("unread", c.UnreadCount)
	h.Get("rooms/:id/unread", c.UnreadCountInRoom)
	h.Get("rooms/:id/messages", c.ListMessages)
	h.Post("rooms/:id/messages", c.Send)
	h.Post("rooms/:id/read", c.MarkRead)
	h.Post("messages/:id/delivered", c.MarkDelivered)
	h.Put("messages/:id", c.Edit)
	h.Delete("messages/:id", c.Delete)
	h.Post("messages/:id/forward", c.Forward)
}

func (c *chatController) Rooms(ctx *fiber.Ctx) error {
	res, err := c.service.RoomsForParticipant(ctx.UserContext(), serverutils.GetPrincipal(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list rooms", dto.NewRoomResponses(res)))
}

func (c *chatController) UnreadCount(ctx *fiber.Ctx) error {
	count, err := c.service.UnreadCount(ctx.UserContext(), serverutils.GetPrincipal(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get unread count", dto.UnreadCountResponse{UnreadCount: count}))
}

func (c *chatController) UnreadCountInRoom(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	count, err := c.service.UnreadCountInChannel(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get unread count", dto.UnreadCountResponse{UnreadCount: count}))
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.ListMessages(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, ctx.QueryInt("limit", 0), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", dto.NewMessageResponses(res)))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, req.Text)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send message", dto.NewMessageResponse(res)))
}

func (c *chatController) MarkRead(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	updated, err := c.service.MarkRead(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark read", dto.MarkReadResponse{Updated: updated}))
}

func (c *chatController) MarkDelivered(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.MarkDelivered(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark delivered", dto.NewMessageResponse(res)))
}

func (c *chatController) Edit(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.EditMessageRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Edit(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, req.Text)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit message", dto.NewMessageResponse(res)))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.GetPrincipal(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete message", nil))
}

func (c *chatController) Forward(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.ForwardMessageRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Forward(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, req.TargetChannelId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success forward message", dto.NewMessageResponse(res)))
}
