package handler

import (
	"errors"

	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	"job-tracker/internal/workflow"

	"github.com/gofiber/fiber/v3"
)

func mapWorkflowError(err error) error {
	if err == nil {
		return nil
	}

	var verr *workflow.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", verr.Fields, err)
	case errors.Is(err, workflow.ErrValidationFailed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", nil, err)
	case errors.Is(err, workflow.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, workflow.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, workflow.ErrDuplicateApplication):
		return middleware.NewAppError(fiber.StatusConflict, "Already applied to this job", nil, err)
	case errors.Is(err, workflow.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid status transition", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

func currentActor(c fiber.Ctx) (workflow.Actor, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return workflow.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return actor, nil
}
