package handler

import (
	"context"
	"time"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	"job-tracker/internal/workflow"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationWorkflow interface {
	GetApplication(ctx context.Context, actor workflow.Actor, id uuid.UUID) (application.Application, error)
	CreateApplication(ctx context.Context, actor workflow.Actor, in workflow.CreateApplicationInput) (application.Application, error)
	EditApplication(ctx context.Context, actor workflow.Actor, id uuid.UUID, patch workflow.ApplicationPatch) (application.Application, error)
	UpdateApplicationStatus(ctx context.Context, actor workflow.Actor, id uuid.UUID, status application.Status) (application.Application, error)
	WithdrawApplication(ctx context.Context, actor workflow.Actor, id uuid.UUID) (application.Application, error)
	DeleteApplication(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
}

type ApplicationLister interface {
	ListMine(ctx context.Context, actor workflow.Actor, params usecase.ApplicationListParams) ([]application.Application, error)
	ListForJob(ctx context.Context, actor workflow.Actor, jobID uuid.UUID, params usecase.ApplicationListParams) ([]application.Application, error)
}

type ApplicationsHandler struct {
	workflow ApplicationWorkflow
	lists    ApplicationLister
}

type createApplicationRequest struct {
	JobID       uuid.UUID `json:"job_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CoverLetter string    `json:"cover_letter"`
	Notes       string    `json:"notes"`
	Priority    int       `json:"priority"`
	Source      string    `json:"source"`
}

type editApplicationRequest struct {
	FullName    *string             `json:"full_name"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	CoverLetter *string             `json:"cover_letter"`
	Notes       *string             `json:"notes"`
	Priority    *int                `json:"priority"`
	Source      *string             `json:"source"`
	Status      *application.Status `json:"status"`
	ReviewerID  *uuid.UUID          `json:"reviewed_by"`
	InterviewAt *time.Time          `json:"interview_at"`
}

func NewApplicationsHandler(wf ApplicationWorkflow, lists ApplicationLister) *ApplicationsHandler {
	return &ApplicationsHandler{workflow: wf, lists: lists}
}

func (h *ApplicationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.HandleCreate)
	r.Get("/mine", h.HandleListMine)
	r.Get("/:id", h.HandleGet)
	r.Patch("/:id", h.HandleEdit)
	r.Patch("/:id/status", h.HandleUpdateStatus)
	r.Post("/:id/withdraw", h.HandleWithdraw)
	r.Delete("/:id", h.HandleDelete)
}

// RegisterJobRoutes mounts the per-job listing under the jobs group.
func (h *ApplicationsHandler) RegisterJobRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:id/applications", h.HandleListForJob)
}

func (h *ApplicationsHandler) HandleCreate(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req createApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	app, err := h.workflow.CreateApplication(c.Context(), actor, workflow.CreateApplicationInput{
		JobID:       req.JobID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
		Notes:       req.Notes,
		Priority:    req.Priority,
		Source:      req.Source,
	})
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewApplicationResponse(app))
}

func (h *ApplicationsHandler) HandleGet(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.workflow.GetApplication(c.Context(), actor, id)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationsHandler) HandleEdit(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req editApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	app, err := h.workflow.EditApplication(c.Context(), actor, id, workflow.ApplicationPatch{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
		Notes:       req.Notes,
		Priority:    req.Priority,
		Source:      req.Source,
		Status:      req.Status,
		ReviewerID:  req.ReviewerID,
		InterviewAt: req.InterviewAt,
	})
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationsHandler) HandleUpdateStatus(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest[application.Status]
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	app, err := h.workflow.UpdateApplicationStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationsHandler) HandleWithdraw(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.workflow.WithdrawApplication(c.Context(), actor, id)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationsHandler) HandleDelete(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.workflow.DeleteApplication(c.Context(), actor, id); err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}

func (h *ApplicationsHandler) HandleListMine(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	params, err := applicationListParams(c)
	if err != nil {
		return err
	}

	items, err := h.lists.ListMine(c.Context(), actor, params)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, response.Page{
		Items:  dto.NewApplicationListResponse(items),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func (h *ApplicationsHandler) HandleListForJob(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	params, err := applicationListParams(c)
	if err != nil {
		return err
	}

	items, err := h.lists.ListForJob(c.Context(), actor, jobID, params)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, response.Page{
		Items:  dto.NewApplicationListResponse(items),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func applicationListParams(c fiber.Ctx) (usecase.ApplicationListParams, error) {
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return usecase.ApplicationListParams{}, badRequest(err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return usecase.ApplicationListParams{}, badRequest(err)
	}
	return usecase.ApplicationListParams{
		Status: application.Status(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}, nil
}
