package controller

import (
	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVisitController interface {
	RegisterRoutes(r fiber.Router)
	Reschedule(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type visitController struct {
	service service.IVisitService
	auth    fiber.Handler
}

func NewVisitController(service service.IVisitService, auth fiber.Handler) IVisitController {
	return &visitController{service: service, auth: auth}
}

func (c *visitController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/visit/v1")
	h.Use(c.auth)
	h.Put(":id/reschedule", c.Reschedule)
	h.Patch(":id/status", c.UpdateStatus)
	h.Delete(":id", c.Delete)
}

func (c *visitController) Reschedule(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.RescheduleVisitRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Reschedule(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, req.ScheduledAt)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reschedule visit", dto.NewVisitResponse(res)))
}

func (c *visitController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateVisitStatusRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetStatus(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, entity.VisitStatus(req.Status))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update visit status", dto.NewVisitResponse(res)))
}

func (c *visitController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.GetPrincipal(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete visit", nil))
}
