package v1

import (
	"skillsync/internal/delivery/http/handler"
	"skillsync/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth           *middleware.AuthMiddleware
	Classification *handler.ClassificationHandler
	Program        *handler.ProgramHandler
	Assessment     *handler.AssessmentHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	RegisterCatalog(r, h.Classification, h.Program)

	if h.Auth == nil {
		return
	}

	if h.Assessment != nil {
		r.Use("/assessments", h.Auth.Middleware())
		h.Assessment.RegisterRoutes(r)
	}

	admin := r.Group("/admin", h.Auth.Middleware(), h.Auth.RequireAdmin())
	if h.Program != nil {
		h.Program.RegisterAdminRoutes(admin)
	}
}
