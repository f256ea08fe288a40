package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/life-bridge/internal/api/http/handlers"
	"github.com/spec-kit/life-bridge/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Requests       *handlers.RequestsHandler
	Donations      *handlers.DonationsHandler
	Pickups        *handlers.PickupsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	authed := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authed, cfg.Auth.Me)

	for _, prefix := range []string{"/requests", "/blood-requests"} {
		requests := api.Group(prefix, authed)
		requests.Post("/", cfg.Requests.Create)
		requests.Get("/", cfg.Requests.List)
		requests.Get("/user", cfg.Requests.ListMine)
	}

	donations := api.Group("/donations", authed)
	donations.Get("/", cfg.Donations.List)
	donations.Post("/", cfg.Donations.Create)
	donations.Get("/user", cfg.Donations.ListMine)
	donations.Get("/:id", cfg.Donations.Get)
	donations.Put("/:id", cfg.Donations.Update)
	donations.Delete("/:id", cfg.Donations.Delete)

	pickups := api.Group("/pickups", authed)
	pickups.Post("/", cfg.Pickups.Schedule)
	pickups.Get("/", cfg.Pickups.ListMine)

	admin := api.Group("/admin", authed, auth.RequireAdmin())
	admin.Get("/pickups", cfg.Pickups.List)
	admin.Put("/pickups/:id", cfg.Pickups.UpdateStatus)
	admin.Get("/donations", cfg.Donations.List)
	admin.Put("/donations/:id", cfg.Donations.Update)
	admin.Get("/requests", cfg.Admin.ListRequests)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Get("/stats", cfg.Admin.Stats)
}
