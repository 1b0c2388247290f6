package internal

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"videoprofiles/internal/config"
	"videoprofiles/internal/database"
	"videoprofiles/internal/http"
	"videoprofiles/internal/http/middleware"
	"videoprofiles/internal/profiles"
)

// publicCORSConfig lets a separately hosted form page post registrations.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, X-Request-Id",
}

// MountAppRoutes mounts all application routes on app
func MountAppRoutes(app *fiber.App, cfg *config.Config, dbManager *database.DBManager, logger *slog.Logger) {
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())

	// Rate limiting only in production; in development/test it would interfere with testing
	submitLimiter := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.IsProduction() {
		submitLimiter = cartridgemiddleware.RateLimiter(
			cartridgemiddleware.WithMax(20),
			cartridgemiddleware.WithDuration(time.Minute),
		)
	}

	publicCORS := cors.New(publicCORSConfig)
	submitter := profiles.NewSubmitter(profiles.NewGormStore(dbManager.GetConnection()), logger)

	// Health check
	app.Get("/_health", http.HealthIndexAction(dbManager, logger))
	app.Head("/_health", http.HealthIndexAction(dbManager, logger))

	// Registration
	app.Get("/form", publicCORS, http.FormIndexAction())
	app.Options("/profiles", publicCORS)
	app.Post("/profiles", publicCORS, submitLimiter, http.ProfileSubmitAction(submitter, logger))
}
