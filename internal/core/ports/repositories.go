package ports

import (
	"context"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// DirectorySource loads the city directory from a static document or store.
type DirectorySource interface {
	// Name identifies the source in logs and errors.
	Name() string
	Load(ctx context.Context) (*domain.Directory, error)
}

// CityRepository persists directory entries for the postgres source.
type CityRepository interface {
	DirectorySource
	UpsertBatch(ctx context.Context, cities []domain.CityRecord) error
}
