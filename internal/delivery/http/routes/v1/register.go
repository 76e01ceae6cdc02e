package v1

import (
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Jobs         *handler.JobsHandler
	Applications *handler.ApplicationsHandler
	Dashboard    *handler.DashboardHandler
	Realtime     *handler.RealtimeHandler
}

func Register(r fiber.Router, h Handlers, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", auth.Middleware())

	RegisterUsers(protected.Group("/users"), h.Users)
	RegisterJobs(protected.Group("/jobs"), h.Jobs, h.Applications)
	RegisterApplications(protected.Group("/applications"), h.Applications)

	if h.Dashboard != nil {
		h.Dashboard.RegisterRoutes(protected.Group("/dashboard", middleware.RequireRoles(user.RoleRecruiter, user.RoleAdmin)))
	}
	if h.Realtime != nil {
		h.Realtime.RegisterRoutes(protected.Group("/realtime"))
	}
}
