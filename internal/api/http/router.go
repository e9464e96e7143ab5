package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/demand-analytics/internal/api/http/handlers"
	"github.com/spec-kit/demand-analytics/internal/auth"
	"github.com/spec-kit/demand-analytics/internal/domain"
	"github.com/spec-kit/demand-analytics/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reports        *handlers.ReportsHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	authn := cfg.AuthMiddleware
	anyRole := authn.RequireRole(domain.RoleAnalyst, domain.RoleManager, domain.RoleAdmin)

	reports := app.Group("/reports", authn.Handle)
	reports.Get("/general", anyRole, cfg.Reports.General)
	reports.Get("/units/:id", anyRole, cfg.Reports.Unit)
	reports.Get("/performance", authn.RequireRole(domain.RoleManager, domain.RoleAdmin), cfg.Reports.Performance)
	reports.Get("/neighborhoods", anyRole, cfg.Reports.Neighborhoods)
	reports.Get("/export.csv", anyRole, cfg.Reports.Export)

	sla := app.Group("/sla", authn.Handle, anyRole)
	sla.Get("/deadline", cfg.Reports.Deadline)
}
