//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/hotelfinder/internal/adapters/postgres"
	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/pkg/config"
)

func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("hotelfinder-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `TRUNCATE cities`); err != nil {
		t.Fatalf("truncate cities: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestCityRepo_UpsertAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewCityRepo(db)
	ctx := context.Background()

	cities := []domain.CityRecord{
		{Name: "Hà Nội", BBox: "20.95,105.75,21.10,105.95", Center: domain.GeoPoint{Lat: 21.03, Lon: 105.85}},
		{Name: "TP. Hồ Chí Minh", BBox: "10.70,106.60,10.85,106.80", Center: domain.GeoPoint{Lat: 10.78, Lon: 106.70}},
	}
	if err := repo.UpsertBatch(ctx, cities); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Re-running is idempotent.
	if err := repo.UpsertBatch(ctx, cities); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	dir, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := dir.Names()
	if len(names) != 2 || names[0] != "Hà Nội" || names[1] != "TP. Hồ Chí Minh" {
		t.Fatalf("unexpected order: %v", names)
	}
	hn, _ := dir.Lookup("Hà Nội")
	if hn.Bounds.MaxLat != 21.10 {
		t.Errorf("bounds not parsed: %+v", hn.Bounds)
	}
}

func TestCityRepo_LoadEmpty(t *testing.T) {
	db := setupTestDB(t)
	_, err := postgres.NewCityRepo(db).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for empty table")
	}
}
