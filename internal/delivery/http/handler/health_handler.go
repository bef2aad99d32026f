package handler

import (
	"context"
	"time"

	"skillsync/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler treats a nil cache as not configured.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{"database": "ok", "cache": "disabled"}
	status := fiber.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		data["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// the engine keeps serving without a cache
			data["cache"] = "unavailable"
		} else {
			data["cache"] = "ok"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, data)
	}
	return response.Success(c, status, response.MessageOK, data)
}
