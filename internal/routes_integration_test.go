package internal

import (
	"io"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"videoprofiles/internal/config"
	"videoprofiles/internal/database"
)

func newRoutesTestServer(t *testing.T, env string) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppName:           "videoprofiles",
		Environment:       env,
		MaxUploadSizeInMb: 4,
		DatabaseType:      config.SQLiteDatabase,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := NewServer(cfg, logger)
	MountAppRoutes(app, cfg, database.NewDBManagerWithConnection(nil, logger), logger)
	return app
}

func findRoute(app *fiber.App, method, path string) *fiber.Route {
	routes := app.GetRoutes(true)
	for idx := range routes {
		if routes[idx].Method == method && routes[idx].Path == path {
			return &routes[idx]
		}
	}
	return nil
}

func TestProfileSubmitRouteRateLimited(t *testing.T) {
	for _, env := range []string{config.Test, config.Production} {
		t.Run(env, func(t *testing.T) {
			app := newRoutesTestServer(t, env)

			submitRoute := findRoute(app, fiber.MethodPost, "/profiles")
			require.NotNil(t, submitRoute, "expected profile submission route to be registered")

			// Outside production the limiter is a pass-through closure defined in MountAppRoutes.
			hasRateLimiter := false
			var handlerNames []string
			for _, handler := range submitRoute.Handlers {
				name := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
				handlerNames = append(handlerNames, name)
				if strings.Contains(name, "middleware/limiter") || strings.Contains(name, "MountAppRoutes.func") ||
					strings.Contains(name, "cartridge/middleware") {
					hasRateLimiter = true
					break
				}
			}

			require.Truef(t, hasRateLimiter, "expected rate limiter middleware for profile submission route, handlers: %v", handlerNames)
		})
	}
}

func TestRegistrationRoutesRegistered(t *testing.T) {
	app := newRoutesTestServer(t, config.Test)

	require.NotNil(t, findRoute(app, fiber.MethodGet, "/_health"), "expected health route")
	require.NotNil(t, findRoute(app, fiber.MethodHead, "/_health"), "expected health HEAD route")
	require.NotNil(t, findRoute(app, fiber.MethodGet, "/form"), "expected form catalog route")
	require.NotNil(t, findRoute(app, fiber.MethodOptions, "/profiles"), "expected CORS preflight route")
}
