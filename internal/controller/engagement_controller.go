package controller

import (
	"context"

	"consultation-be/internal/dto"
	"consultation-be/internal/entity"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEngagementController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Room(ctx *fiber.Ctx) error
}

// EngagementServices groups the services reachable under /engagement/v1/:id.
type EngagementServices struct {
	Engagement service.IEngagementService
	Channel    service.IChannelService
	Visit      service.IVisitService
	Report     service.IReportService
	Feedback   service.IFeedbackService
}

type engagementController struct {
	services EngagementServices
	auth     fiber.Handler
}

func NewEngagementController(services EngagementServices, auth fiber.Handler) IEngagementController {
	return &engagementController{services: services, auth: auth}
}

func (c *engagementController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/engagement/v1")
	h.Use(c.auth)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("recent", c.Recent)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/approve", c.Approve)
	h.Post(":id/reject", c.Reject)
	h.Post(":id/complete", c.Complete)
	h.Get(":id/room", c.Room)

	h.Post(":id/visits", c.CreateVisit)
	h.Get(":id/visits", c.ListVisits)
	h.Post(":id/reports", c.CreateReport)
	h.Get(":id/reports", c.ListReports)
	h.Post(":id/feedback", c.CreateFeedback)
	h.Get(":id/feedback", c.ShowFeedback)
}

func (c *engagementController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateEngagementRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.services.Engagement.Create(ctx.UserContext(), serverutils.GetPrincipal(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create engagement", dto.NewEngagementResponse(res)))
}

func (c *engagementController) List(ctx *fiber.Ctx) error {
	filter := entity.EngagementFilter{
		Limit:  ctx.QueryInt("limit", 0),
		Offset: ctx.QueryInt("offset", 0),
	}
	if raw := ctx.Query("status"); raw != "" {
		status := entity.EngagementStatus(raw)
		filter.Status = &status
	}
	for _, raw := range serverutils.QueryList(ctx, "statuses") {
		filter.Statuses = append(filter.Statuses, entity.EngagementStatus(raw))
	}

	var err error
	if filter.From, err = serverutils.QueryTime(ctx, "from"); err != nil {
		return err
	}
	if filter.To, err = serverutils.QueryTime(ctx, "to"); err != nil {
		return err
	}

	res, err := c.services.Engagement.List(ctx.UserContext(), serverutils.GetPrincipal(ctx), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list engagements", dto.NewEngagementResponses(res)))
}

func (c *engagementController) Recent(ctx *fiber.Ctx) error {
	res, err := c.services.Engagement.Recent(ctx.UserContext(), serverutils.GetPrincipal(ctx), ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list recent engagements", dto.NewEngagementResponses(res)))
}

func (c *engagementController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.services.Engagement.Get(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show engagement", dto.NewEngagementResponse(res)))
}

func (c *engagementController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateEngagementRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.services.Engagement.UpdateContent(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update engagement", dto.NewEngagementResponse(res)))
}

func (c *engagementController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.services.Engagement.Delete(ctx.UserContext(), serverutils.GetPrincipal(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete engagement", nil))
}

func (c *engagementController) Approve(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.services.Engagement.Approve, "Success approve engagement")
}

func (c *engagementController) Reject(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.services.Engagement.Reject, "Success reject engagement")
}

func (c *engagementController) Complete(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.services.Engagement.Complete, "Success complete engagement")
}

type transitionFunc func(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Engagement, error)

func (c *engagementController) transition(ctx *fiber.Ctx, fn transitionFunc, message string) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := fn(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(message, dto.NewEngagementResponse(res)))
}

func (c *engagementController) Room(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.services.Channel.GetByEngagement(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get room", dto.NewChannelResponse(res)))
}

func (c *engagementController) CreateVisit(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateVisitRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.services.Visit.Create(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create visit", dto.NewVisitResponse(res)))
}

func (c *engagementController) ListVisits(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.services.Visit.ListByEngagement(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list visits", dto.NewVisitResponses(res)))
}

func (c *engagementController) CreateReport(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateReportRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.services.Report.Create(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create report", dto.NewReportResponse(res)))
}

func (c *engagementController) ListReports(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.services.Report.ListByEngagement(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list reports", dto.NewReportResponses(res)))
}

func (c *engagementController) CreateFeedback(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateFeedbackRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.services.Feedback.Create(ctx.UserContext(), serverutils.GetPrincipal(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create feedback", dto.NewFeedbackResponse(res)))
}

func (c *engagementController) ShowFeedback(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.services.Feedback.GetByEngagement(ctx.UserContext(), serverutils.GetPrincipal(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show feedback", dto.NewFeedbackResponse(res)))
}
