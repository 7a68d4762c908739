package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/rp-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/rp-admin-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	DiscordAuth    *handlers.DiscordAuthHandler
	Accounts       *handlers.AccountsHandler
	Forms          *handlers.FormsHandler
	Submissions    *handlers.SubmissionsHandler
	Changelogs     *handlers.ChangelogsHandler
	Status         *handlers.StatusHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        http.Handler
}

// RegisterRoutes wires HTTP routes. Admin routes are gated on staff or admin
// authority; finer predicates are applied by each service operation.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	api := app.Group("/api")

	// Public routes are registered before the protected groups so the group
	// middleware never runs for them.
	api.Post("/admin/login", cfg.Auth.Login)
	api.Get("/auth/discord/login", cfg.DiscordAuth.Login)
	api.Get("/auth/discord/callback", cfg.DiscordAuth.Callback)

	api.Get("/applications", cfg.Forms.PublicList)
	api.Post("/applications/submit", cfg.Submissions.Submit)
	api.Get("/applications/:id", cfg.Forms.PublicGet)
	api.Get("/changelogs", cfg.Changelogs.PublicList)

	api.Get("/server-stats", cfg.Status.ServerStats)
	api.Get("/discord/messages", cfg.Status.DiscordMessages)
	api.Get("/discord/news", cfg.Status.DiscordNews)
	api.Get("/status", cfg.Status.Overview)

	user := api.Group("/user", cfg.AuthMiddleware.Handle)
	user.Get("/me", cfg.Auth.Me)
	user.Post("/change-password", cfg.Auth.ChangePassword)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.Require(auth.RequireStaffOrAdmin))

	admin.Get("/me", cfg.Auth.Me)

	admin.Get("/users", cfg.Accounts.List)
	admin.Post("/users", cfg.Accounts.Create)
	admin.Post("/create-user", cfg.Accounts.Create)
	admin.Get("/users/:id", cfg.Accounts.Get)
	admin.Put("/users/:id", cfg.Accounts.Update)
	admin.Delete("/users/:id", cfg.Accounts.Delete)

	admin.Get("/application-forms", cfg.Forms.List)
	admin.Post("/application-forms", cfg.Forms.Create)
	admin.Get("/application-forms/:id", cfg.Forms.Get)
	admin.Put("/application-forms/:id", cfg.Forms.Update)
	admin.Delete("/application-forms/:id", cfg.Forms.Delete)

	admin.Get("/submissions", cfg.Submissions.List)
	admin.Get("/submissions/:id", cfg.Submissions.Get)
	admin.Put("/submissions/:id/status", cfg.Submissions.UpdateStatus)
	admin.Patch("/submissions/:id/status", cfg.Submissions.UpdateStatus)

	admin.Get("/changelogs", cfg.Changelogs.List)
	admin.Post("/changelogs", cfg.Changelogs.Create)
	admin.Put("/changelogs/:id", cfg.Changelogs.Update)
	admin.Delete("/changelogs/:id", cfg.Changelogs.Delete)
}
