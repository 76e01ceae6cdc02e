package handler

import (
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/workflow"
	"job-tracker/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type RealtimeStatsSource interface {
	Stats() ws.Stats
}

type RealtimeHandler struct {
	source RealtimeStatsSource
}

func NewRealtimeHandler(source RealtimeStatsSource) *RealtimeHandler {
	return &RealtimeHandler{source: source}
}

func (h *RealtimeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/stats", h.HandleStats)
}

func (h *RealtimeHandler) HandleStats(c fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(actor.Role, workflow.OpViewRealtimeStatistics); err != nil {
		return mapWorkflowError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.source.Stats())
}
