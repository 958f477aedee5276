package controller

import (
	"consultation-be/internal/dto"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type feedbackController struct {
	service service.IFeedbackService
	auth    fiber.Handler
}

func NewFeedbackController(service service.IFeedbackService, auth fiber.Handler) IFeedbackController {
	return &feedbackController{service: service, auth: auth}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/feedback/v1")
	h.Use(c.auth)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *feedbackController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFeedbackRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update feedback", dto.NewFeedbackResponse(res)))
}

func (c *feedbackController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.GetPrincipal(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete feedback", nil))
}
