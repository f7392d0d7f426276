// Command seed loads a directory document into the cities table so the API
// can run with directory.source=postgres.
//
//	seed [path]   (default: directory.path from config)
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/hotelfinder/internal/adapters/locations"
	"github.com/samirrijal/hotelfinder/internal/adapters/postgres"
	"github.com/samirrijal/hotelfinder/internal/pkg/config"
	"github.com/samirrijal/hotelfinder/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("hotelfinder-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	path := cfg.Directory.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src := locations.NewFileSource(path)
	dir, err := src.Load(ctx)
	if err != nil {
		log.Fatalf("read directory: %v", err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	start := time.Now()
	if err := postgres.NewCityRepo(db).UpsertBatch(ctx, dir.Records()); err != nil {
		log.Fatalf("upsert cities: %v", err)
	}

	slog.Info("directory seeded", "source", src.Name(), "cities", dir.Len(), "elapsed", time.Since(start).String())
}
