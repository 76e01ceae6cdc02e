package handler

import (
	"context"
	"time"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	"job-tracker/internal/workflow"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobWorkflow interface {
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	CreateJob(ctx context.Context, actor workflow.Actor, in workflow.JobInput) (job.Job, error)
	EditJob(ctx context.Context, actor workflow.Actor, id uuid.UUID, in workflow.JobInput) (job.Job, error)
	UpdateJobStatus(ctx context.Context, actor workflow.Actor, id uuid.UUID, status job.Status) (job.Job, error)
	DeleteJob(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
}

type JobsHandler struct {
	uc       usecase.JobListUsecase
	workflow JobWorkflow
}

type jobRequest struct {
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Salary          *string    `json:"salary"`
	Status          job.Status `json:"status"`
	Deadline        *time.Time `json:"deadline"`
	EmploymentType  string     `json:"employment_type"`
	ExperienceLevel string     `json:"experience_level"`
	Remote          bool       `json:"is_remote"`
}

func (r jobRequest) input() workflow.JobInput {
	return workflow.JobInput{
		Title:           r.Title,
		Company:         r.Company,
		Description:     r.Description,
		Location:        r.Location,
		Salary:          r.Salary,
		Status:          r.Status,
		Deadline:        r.Deadline,
		EmploymentType:  r.EmploymentType,
		ExperienceLevel: r.ExperienceLevel,
		Remote:          r.Remote,
	}
}

type statusRequest[S ~string] struct {
	Status S `json:"status"`
}

func NewJobsHandler(uc usecase.JobListUsecase, wf JobWorkflow) *JobsHandler {
	return &JobsHandler{uc: uc, workflow: wf}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.HandleListJobs)
	r.Post("", h.HandleCreateJob)
	r.Get("/:id", h.HandleGetJob)
	r.Put("/:id", h.HandleEditJob)
	r.Patch("/:id/status", h.HandleUpdateJobStatus)
	r.Delete("/:id", h.HandleDeleteJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return badRequest(err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}
	after, err := parseQueryTime(c, "posted_after")
	if err != nil {
		return badRequest(err)
	}
	before, err := parseQueryTime(c, "posted_before")
	if err != nil {
		return badRequest(err)
	}

	items, err := h.uc.ListJobs(c.Context(), usecase.JobListParams{
		Status:       job.Status(c.Query("status")),
		Company:      c.Query("company"),
		PostedAfter:  after,
		PostedBefore: before,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return mapWorkflowError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, response.Page{
		Items:  dto.NewJobListResponse(items),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	j, err := h.workflow.GetJob(c.Context(), id)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.workflow.CreateJob(c.Context(), actor, req.input())
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleEditJob(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.workflow.EditJob(c.Context(), actor, id, req.input())
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleUpdateJobStatus(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest[job.Status]
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.workflow.UpdateJobStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleDeleteJob(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.workflow.DeleteJob(c.Context(), actor, id); err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}
