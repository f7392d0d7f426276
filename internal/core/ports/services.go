package ports

import (
	"context"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// POIQueryService executes a query against a remote POI data service.
type POIQueryService interface {
	Query(ctx context.Context, query string) ([]domain.POIElement, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSearch(ctx context.Context, event *domain.SearchEvent) error
}
