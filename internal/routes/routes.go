package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/apps"
	"github.com/techhelp/backend/internal/config"
	"github.com/techhelp/backend/internal/handlers"
	"github.com/techhelp/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	deps apps.Deps,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	dashboardHandler *handlers.DashboardHandler,
	realtimeHandler *handlers.RealtimeHandler,
	usersHandler *handlers.UsersHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Get("/verify", authHandler.VerifyEmail)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so the public routes above stay public
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Put("/me", middleware.JWTProtected(cfg), authHandler.UpdateMe)
	api.Post("/me/avatar", middleware.JWTProtected(cfg), authHandler.UploadAvatar)

	// Change feed (JWT via query token for EventSource)
	api.Get("/realtime", middleware.JWTProtected(cfg), realtimeHandler.Stream)

	// Protected group for the dashboard and domain plugins
	protected := api.Group("/", middleware.JWTProtected(cfg))
	protected.Get("/dashboard/summary", dashboardHandler.Summary)

	// Admin console (JWT + admin role)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", usersHandler.List)
	admin.Put("/users/:id/role", usersHandler.UpdateRole)
	admin.Delete("/users/:id", usersHandler.Delete)
	admin.Get("/analytics", analyticsHandler.Summary)

	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}
