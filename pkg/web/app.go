package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// App wires the handlers into a fiber application.
func (h *APIHandlers) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowgraph API")
	})

	app.Get("/health", h.HealthCheck)

	app.Get("/node-types", h.GetNodeTypes)
	app.Get("/node-types/:type", h.GetNodeType)

	app.Post("/plans", h.CreatePlan)
	app.Post("/workflows/validate", h.ValidateWorkflow)

	e := app.Group("/executions")
	e.Get("/", h.GetExecutions)
	e.Post("/", h.CreateExecution)
	e.Get("/:id", h.GetExecution)

	app.All("/webhooks/*", h.HandleWebhook)

	return app
}
