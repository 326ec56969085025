package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hint-engine-api/internal/config"
	"github.com/noah-isme/hint-engine-api/internal/handler"
	"github.com/noah-isme/hint-engine-api/internal/middleware"
	"github.com/noah-isme/hint-engine-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HintHandler      *handler.HintHandler
	ReportHandler    *handler.ReportHandler
	APIKeyMiddleware fiber.Handler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	apiKey := deps.APIKeyMiddleware
	if apiKey == nil {
		apiKey = func(c *fiber.Ctx) error { return c.Next() }
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.HintHandler != nil {
		hints := api.Group("/hints", apiKey, middleware.RateLimit("hints", cfg.RateLimitMax, cfg.RateLimitTTL))
		deps.HintHandler.Register(hints)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware)
		deps.ReportHandler.Register(reports)
	}
}
