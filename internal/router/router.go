package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskscore/taskscore-api/internal/config"
	"github.com/taskscore/taskscore-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TaskHandler       *handler.TaskHandler
	EvaluationHandler *handler.EvaluationHandler
	ReportHandler     *handler.ReportHandler
	PaymentHandler    *handler.PaymentHandler
	JWTMiddleware     fiber.Handler
	EvaluateLimiter   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)

		if deps.EvaluationHandler != nil {
			deps.EvaluationHandler.Register(tasks, deps.EvaluateLimiter)
		}
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware)
		deps.ReportHandler.Register(reports)
	}

	if deps.PaymentHandler != nil {
		payments := api.Group("/payments", jwtMiddleware)
		deps.PaymentHandler.Register(payments)
	}
}
