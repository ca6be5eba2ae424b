package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-market/marketplace-service/internal/api/http/handlers"
	"github.com/campus-market/marketplace-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Metrics   *handlers.MetricsHandler
	Listings  *handlers.ListingsHandler
	Interests *handlers.InterestsHandler
	Users     *handlers.UsersHandler
	Stats     *handlers.StatsHandler
	AuthGate  *auth.Gate

	// StaticDir, when set, is mounted at StaticPath to serve uploaded
	// images from the disk blob store.
	StaticDir  string
	StaticPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Get)
	}

	if cfg.StaticDir != "" && cfg.StaticPath != "" {
		app.Static(cfg.StaticPath, cfg.StaticDir)
	}

	listings := app.Group("/listings", cfg.AuthGate.Handle)
	listings.Get("/", cfg.Listings.List)
	listings.Get("/mine", cfg.Listings.Mine)
	listings.Post("/", cfg.Listings.Create)
	listings.Put("/:id", cfg.Listings.Update)
	listings.Patch("/:id", cfg.Listings.Update)
	listings.Patch("/:id/status", cfg.Listings.UpdateStatus)
	listings.Delete("/:id", cfg.Listings.Delete)
	listings.Post("/:id/interest", cfg.Listings.CreateInterest)
	listings.Get("/:id/interests", cfg.Listings.ListInterests)

	interests := app.Group("/interests", cfg.AuthGate.Handle)
	interests.Get("/", cfg.Interests.ListForListing)
	interests.Get("/my", cfg.Interests.Mine)
	interests.Delete("/:id", cfg.Interests.Revoke)
	interests.Post("/:id/remind", cfg.Interests.Remind)

	users := app.Group("/users", cfg.AuthGate.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Get("/:uid", cfg.Users.GetByID)

	app.Get("/stats", cfg.AuthGate.Handle, cfg.Stats.Get)
}
