package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration. Auth and
// AuthMiddleware are nil when admin authentication is disabled.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Employees      *handlers.EmployeesHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimit      fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Metrics)
	app.Get("/api/docs", handlers.Docs)

	guards := []fiber.Handler{}
	if cfg.RateLimit != nil {
		guards = append(guards, cfg.RateLimit)
	}
	if cfg.Auth != nil && cfg.AuthMiddleware != nil {
		app.Post("/auth/login", cfg.Auth.Login)
		guards = append(guards, cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	}

	employees := app.Group("/employees", guards...)
	employees.Get("/", cfg.Employees.ListEmployees)
	employees.Post("/", cfg.Employees.CreateEmployee)
	employees.Get("/:id", cfg.Employees.GetEmployee)
	employees.Put("/:id", cfg.Employees.UpdateEmployee)
	employees.Delete("/:id", cfg.Employees.DeleteEmployee)
}
