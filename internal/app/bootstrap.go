package app

import (
	"context"
	"fmt"
	"strings"

	"skillsync/internal/delivery/http/handler"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/delivery/http/routes"
	v1 "skillsync/internal/delivery/http/routes/v1"
	"skillsync/internal/pkg/jwt"
	"skillsync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Hub: c.Hub}
}

// Bootstrap connects every dependency, applies migrations and builds the
// HTTP app. The returned cleanup releases what Bootstrap opened.
func Bootstrap(ctx context.Context, c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}
	if err := c.Migrate(ctx, "migrations"); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	if c.Config.App.SeedDemo {
		if err := c.Seed(ctx); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(c.Config.JWT.AccessSecret, c.Config.JWT.AccessExpiresIn)

	var cachePinger handler.Pinger
	if c.Cache != nil && c.Config.Redis.Enabled {
		cachePinger = c.Cache
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		ws.NewHandler(c.Hub, c.Logger),
		v1.Handlers{
			Auth:           middleware.NewAuthMiddleware(jwtSvc),
			Classification: handler.NewClassificationHandler(c.Aggregation),
			Program:        handler.NewProgramHandler(c.FuzzyMatching, c.ProgramSkills),
			Assessment:     handler.NewAssessmentHandler(c.Scoring, c.Recommendations),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
