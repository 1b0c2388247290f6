package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in requests and responses.
const RequestIDHeader = fiber.HeaderXRequestID

// RequestID middleware reuses an incoming X-Request-Id or assigns a new UUID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     RequestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// RequestLogger middleware logs one line per request once the handler returns.
// Dependencies are injected via the factory function.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// Let the app error handler write the response so the status is final.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			slog.String("request_id", c.GetRespHeader(RequestIDHeader)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.String("ip", c.IP()),
		}
		if chainErr != nil {
			attrs = append(attrs, slog.Any("error", chainErr))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", attrs...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
		return nil
	}
}
