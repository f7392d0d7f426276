package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler reports whether the directory is loaded and the optional
// backends are reachable. Backends that are not configured do not fail it.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		if deps.Directory != nil && deps.Directory.Loaded() {
			checks["directory"] = "ok"
		} else {
			checks["directory"] = "not loaded"
			allOK = false
		}

		if deps.DB != nil {
			if err := deps.DB.Ping(ctx); err != nil {
				checks["database"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["database"] = "ok"
			}
		} else {
			checks["database"] = "not configured"
		}

		if deps.Events != nil {
			if deps.Events.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		if deps.Storage != nil {
			if err := deps.Storage.Ping(ctx); err != nil {
				checks["valkey"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["valkey"] = "ok"
			}
		} else {
			checks["valkey"] = "not configured"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
