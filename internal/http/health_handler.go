package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"videoprofiles/internal/database"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	DBStatus      string    `json:"db_status"`
	ProfilesTable bool      `json:"profiles_table"`
}

// HealthIndexAction handles the health check endpoint
func HealthIndexAction(dbManager *database.DBManager, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "ok"

		if err := dbManager.Ping(c.UserContext()); err != nil {
			dbStatus = "error"
			logger.Error("Database ping failed", slog.Any("error", err))
		}

		health := HealthStatus{
			Status:        "ok",
			Timestamp:     time.Now(),
			DBStatus:      dbStatus,
			ProfilesTable: dbStatus == "ok" && dbManager.HasProfilesTable(),
		}

		if dbStatus != "ok" || !health.ProfilesTable {
			health.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(health)
		}

		return c.JSON(health)
	}
}
