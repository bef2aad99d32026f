package v1

import (
	"skillsync/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RegisterCatalog mounts the read-only public routes.
func RegisterCatalog(r fiber.Router, classification *handler.ClassificationHandler, program *handler.ProgramHandler) {
	if r == nil {
		return
	}
	if classification != nil {
		classification.RegisterRoutes(r)
	}
	if program != nil {
		program.RegisterRoutes(r)
	}
}
