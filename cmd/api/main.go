package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/hotelfinder/internal/adapters/http"
	"github.com/samirrijal/hotelfinder/internal/adapters/locations"
	natsadapter "github.com/samirrijal/hotelfinder/internal/adapters/nats"
	"github.com/samirrijal/hotelfinder/internal/adapters/overpass"
	"github.com/samirrijal/hotelfinder/internal/adapters/postgres"
	"github.com/samirrijal/hotelfinder/internal/adapters/valkey"
	"github.com/samirrijal/hotelfinder/internal/core/ports"
	"github.com/samirrijal/hotelfinder/internal/core/usecases"
	"github.com/samirrijal/hotelfinder/internal/pkg/config"
	"github.com/samirrijal/hotelfinder/internal/pkg/logging"
	"github.com/samirrijal/hotelfinder/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("hotelfinder-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		RateLimit:   cfg.Server.RateLimit,
		OpenAPIPath: cfg.Server.OpenAPIPath,
	}

	// Directory source
	var source ports.DirectorySource
	switch cfg.Directory.Source {
	case config.SourceHTTP:
		source = locations.NewHTTPSource(cfg.Directory.URL, nil)
	case config.SourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db
		source = postgres.NewCityRepo(db)
	default:
		source = locations.NewFileSource(cfg.Directory.Path)
	}

	// Limiter storage
	if cfg.Valkey.Enabled {
		store, err := valkey.New(ctx, cfg.Valkey.Addr, "hotelfinder:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer store.Close()
			deps.Storage = store
		}
	}

	// Search events
	var events ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, search events disabled", "error", err)
		} else {
			defer pub.Close()
			deps.Events = pub
			events = pub
		}
	}

	// Use cases
	directory := usecases.NewDirectoryService(source, cfg.Directory.FallbackCity)
	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := directory.Load(loadCtx); err != nil {
		// Keep serving: the page and the API report the directory as unavailable.
		slog.Error("location directory unavailable", "source", source.Name(), "error", err)
	}
	loadCancel()

	poi := overpass.NewClient(cfg.Overpass.URL,
		overpass.WithTimeout(time.Duration(cfg.Overpass.Timeout)*time.Second),
		overpass.WithRateLimit(cfg.Overpass.RateLimit),
		overpass.WithUserAgent(cfg.Overpass.UserAgent),
	)
	deps.Directory = directory
	deps.Hotels = usecases.NewHotelService(directory, poi, events).WithQueryTimeout(cfg.Overpass.QueryTimeout)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "Hotelfinder API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "directory_source", source.Name())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
