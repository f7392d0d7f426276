package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// CityRepo implements ports.CityRepository over the cities table.
type CityRepo struct {
	db *DB
}

// NewCityRepo creates a new CityRepo.
func NewCityRepo(db *DB) *CityRepo {
	return &CityRepo{db: db}
}

func (r *CityRepo) Name() string { return "postgres:cities" }

// Load reads all cities ordered by position and builds the directory.
// Rows are validated the same way as the JSON document.
func (r *CityRepo) Load(ctx context.Context) (*domain.Directory, error) {
	dir, err := r.load(ctx)
	if err != nil {
		return nil, &domain.DirectoryLoadError{Source: r.Name(), Err: err}
	}
	return dir, nil
}

func (r *CityRepo) load(ctx context.Context) (*domain.Directory, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, bbox, center_lat, center_lon
		FROM cities
		ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query cities: %w", err)
	}
	defer rows.Close()

	var records []domain.CityRecord
	for rows.Next() {
		var c domain.CityRecord
		if err := rows.Scan(&c.Name, &c.BBox, &c.Center.Lat, &c.Center.Lon); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		if c.Bounds, err = domain.ParseBounds(c.BBox); err != nil {
			return nil, fmt.Errorf("city %q: %w", c.Name, err)
		}
		if !c.Center.Valid() {
			return nil, fmt.Errorf("city %q: center out of range", c.Name)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return domain.NewDirectory(records)
}

// UpsertBatch inserts or updates cities using pgx.Batch. Slice order becomes
// the stored position.
func (r *CityRepo) UpsertBatch(ctx context.Context, cities []domain.CityRecord) error {
	batch := &pgx.Batch{}
	for i, c := range cities {
		batch.Queue(`
			INSERT INTO cities (name, position, bbox, center_lat, center_lon)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE
			SET position = EXCLUDED.position, bbox = EXCLUDED.bbox,
			    center_lat = EXCLUDED.center_lat, center_lon = EXCLUDED.center_lon,
			    updated_at = NOW()
		`, c.Name, i, c.BBox, c.Center.Lat, c.Center.Lon)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range cities {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
