package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hotelfinder/internal/pkg/logging"
)

// quietPaths are polled by infrastructure and logged at debug level.
var quietPaths = map[string]bool{
	"/metrics":   true,
	"/v1/health": true,
	"/v1/ready":  true,
}

// AccessLogMiddleware logs one structured line per request through the
// request-scoped logger.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("ip", c.IP()),
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case quietPaths[path]:
			level = slog.LevelDebug
		}

		ctx := c.UserContext()
		logging.FromContext(ctx).LogAttrs(ctx, level, method+" "+path, attrs...)

		return err
	}
}
