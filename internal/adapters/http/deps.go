package http

import (
	natsadapter "github.com/samirrijal/hotelfinder/internal/adapters/nats"
	"github.com/samirrijal/hotelfinder/internal/adapters/postgres"
	"github.com/samirrijal/hotelfinder/internal/adapters/valkey"
	"github.com/samirrijal/hotelfinder/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// Events, DB and Storage are optional; nil means not configured.
type Dependencies struct {
	Directory *usecases.DirectoryService
	Hotels    *usecases.HotelService
	Events    *natsadapter.Publisher
	DB        *postgres.DB
	Storage   *valkey.Storage

	// RateLimit is requests per minute per IP; zero uses the default.
	RateLimit int
	// OpenAPIPath is the OpenAPI document served at /docs/openapi.yaml.
	OpenAPIPath string
}
