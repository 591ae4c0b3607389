package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/freight-console/internal/api/http/handlers"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Session    *handlers.SessionHandler
	Navigation *handlers.NavigationHandler
	Ledgers    *handlers.LedgerHandler
	Users      *handlers.RecordHandler[domain.User]
	Agencies   *handlers.RecordHandler[domain.Agency]
	Jobs       *handlers.RecordHandler[domain.Job]
	Charges    *handlers.RecordHandler[domain.Charge]
	Refunds    *handlers.RecordHandler[domain.Refund]
	Lookups    *handlers.LookupsHandler
	Reports    *handlers.ReportsHandler
	Views      *handlers.ViewHandler

	Registry      *session.Registry
	SessionCookie SessionMiddlewareConfig
	Gatherer      prometheus.Gatherer
	AssetsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.AssetsDir != "" {
		app.Static("/assets", cfg.AssetsDir)
	}

	withSession := sessionMiddleware(cfg.Registry, cfg.SessionCookie)

	api := app.Group("/api", withSession)

	sessionGroup := api.Group("/session")
	sessionGroup.Post("/login", cfg.Session.Login)
	sessionGroup.Post("/logout", cfg.Session.Logout)
	sessionGroup.Post("/refresh", cfg.Session.Refresh)
	sessionGroup.Get("/me", cfg.Session.Me)
	sessionGroup.Post("/forgot-password", cfg.Session.ForgotPassword)
	sessionGroup.Post("/reset-password", cfg.Session.ResetPassword)
	sessionGroup.Post("/verify-email", cfg.Session.VerifyEmail)

	api.Get("/navigation", cfg.Navigation.Menu)

	ledgers := api.Group("/ledgers/:kind")
	ledgers.Get("/accounts", cfg.Ledgers.Accounts)
	ledgers.Get("/accounts/:id/statement", cfg.Ledgers.Statement)
	ledgers.Post("/transactions", cfg.Ledgers.CreateTransaction)

	mountRecords(api.Group("/users"), cfg.Users)
	mountRecords(api.Group("/agencies"), cfg.Agencies)
	mountRecords(api.Group("/jobs"), cfg.Jobs)
	mountRecords(api.Group("/charges"), cfg.Charges)
	mountRecords(api.Group("/refunds"), cfg.Refunds)

	lookups := api.Group("/lookups")
	lookups.Get("/charge-categories", cfg.Lookups.ChargeCategories)
	lookups.Get("/charge-subcategories", cfg.Lookups.ChargeSubcategories)
	lookups.Get("/charge-statuses", cfg.Lookups.ChargeStatuses)
	lookups.Get("/configuration/:category", cfg.Lookups.Configuration)

	api.Get("/reports/petty-cash", cfg.Reports.PettyCash)

	api.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	app.Get("/*", withSession, cfg.Views.Navigate)
}

func mountRecords[T any](r fiber.Router, h *handlers.RecordHandler[T]) {
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/", h.Create)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}
