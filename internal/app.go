// Package internal contains core application functionality
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"videoprofiles/internal/config"
	"videoprofiles/internal/database"
)

// Application bundles the HTTP server with the store handle it serves from.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.DBManager
	Server    *fiber.App
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := cartridge.NewLogger(cfg, nil)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := NewServer(cfg, logger)
	MountAppRoutes(server, cfg, dbManager, logger)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
		Server:    server,
	}, nil
}

// NewServer creates the fiber app with the application's error handling.
func NewServer(cfg *config.Config, logger *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.GetAppName(),
		BodyLimit:             cfg.GetMaxUploadBytes(),
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("Unhandled request error", slog.String("path", c.Path()), slog.Any("error", err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": errorMessage(code, err),
			})
		},
	})
}

func errorMessage(code int, err error) string {
	if code >= fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// StartAsync starts serving HTTP in the background.
func (a *Application) StartAsync() error {
	if a.Server == nil {
		return errors.New("server not initialized")
	}

	addr := ":" + a.Config.GetPort()
	go func() {
		if err := a.Server.Listen(addr); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	a.Logger.Info("HTTP server listening", slog.String("addr", addr))
	return nil
}

// Shutdown stops the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}
	if a.DBManager != nil {
		if err := a.DBManager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
