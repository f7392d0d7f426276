package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control on GET responses that did
// not set one. Hotel searches are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"
		case path == "/metrics":
			ttl = "no-cache"
		case strings.HasPrefix(path, "/v1/hotels"):
			ttl = "no-store"
		case strings.HasPrefix(path, "/v1/cities"):
			ttl = "public, max-age=3600" // directory is static per process
		case path == "/" || strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=300"
		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
