package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
)

const (
	defaultRateLimit = 120
	// hotelsTimeout leaves room for the Overpass client timeout.
	hotelsTimeout = 40 * time.Second
	apiTimeout    = 15 * time.Second
)

// SetupRoutes registers the page, REST, GraphQL and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	limiterCfg := limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// Long-lived session connections are not counted per message.
			return c.Path() == "/ws"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}
	if deps.Storage != nil {
		limiterCfg.Storage = deps.Storage
	}
	app.Use(limiter.New(limiterCfg))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/", IndexHandler())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/cities", timeout.NewWithContext(ListCitiesHandler(deps), apiTimeout))
	v1.Get("/cities/:name", timeout.NewWithContext(GetCityHandler(deps), apiTimeout))
	v1.Get("/hotels", timeout.NewWithContext(HotelsHandler(deps), hotelsTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.OpenAPIPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
