package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/maintenance-core/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Session           *handlers.SessionHandler
	Tickets           *handlers.TicketsHandler
	Inventory         *handlers.InventoryHandler
	Procurement       *handlers.ProcurementHandler
	Scenarios         *handlers.ScenarioHandler
	SessionMiddleware *auth.SessionMiddleware
	Metrics           *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/session", cfg.Session.Create)
	app.Get("/session/roles", cfg.Session.ListRoles)

	api := app.Group("/api/v1", cfg.SessionMiddleware.Handle)

	api.Get("/tickets", cfg.Tickets.List)
	api.Post("/tickets", cfg.Tickets.Create)
	api.Get("/tickets/:id", cfg.Tickets.Get)
	api.Patch("/tickets/:id", cfg.Tickets.Update)
	api.Get("/tickets/:id/priority", cfg.Tickets.Priority)

	api.Get("/parts", cfg.Inventory.ListParts)
	api.Get("/parts/low-stock", cfg.Inventory.LowStock)
	api.Get("/parts/:id", cfg.Inventory.GetPart)
	api.Get("/parts/:id/available", cfg.Inventory.Available)
	api.Get("/movements", cfg.Inventory.ListMovements)
	api.Post("/inventory/reserve", cfg.Inventory.Reserve)
	api.Post("/inventory/release", cfg.Inventory.Release)
	api.Post("/inventory/issue", cfg.Inventory.Issue)
	api.Post("/inventory/adjust", cfg.Inventory.Adjust)

	api.Get("/purchase-orders", cfg.Procurement.List)
	api.Post("/purchase-orders", cfg.Procurement.Create)
	api.Post("/purchase-orders/:id/receive", cfg.Procurement.Receive)
	api.Post("/purchase-orders/:id/cancel", cfg.Procurement.Cancel)

	api.Post("/scenarios", cfg.Scenarios.Run)
	api.Post("/reset", cfg.Scenarios.Reset)
}
