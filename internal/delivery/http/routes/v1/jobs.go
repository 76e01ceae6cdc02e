package v1

import (
	"job-tracker/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobsHandler *handler.JobsHandler, applicationsHandler *handler.ApplicationsHandler) {
	if r == nil {
		return
	}
	if applicationsHandler != nil {
		applicationsHandler.RegisterJobRoutes(r)
	}
	if jobsHandler != nil {
		jobsHandler.RegisterRoutes(r)
	}
}

func RegisterApplications(r fiber.Router, applicationsHandler *handler.ApplicationsHandler) {
	if r == nil {
		return
	}
	if applicationsHandler == nil {
		return
	}

	applicationsHandler.RegisterRoutes(r)
}
