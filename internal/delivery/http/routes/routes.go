package routes

import (
	"skillsync/internal/delivery/http/handler"
	v1 "skillsync/internal/delivery/http/routes/v1"
	"skillsync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	events *ws.Handler
	v1     v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, events *ws.Handler, handlers v1.Handlers) *Registry {
	return &Registry{health: health, events: events, v1: handlers}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerEvents(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerEvents(app *fiber.App) {
	if r.events == nil {
		return
	}
	app.Get("/ws/events", r.events.HandleEvents)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
