package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/core/ports"
	"github.com/samirrijal/hotelfinder/internal/pkg/logging"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
	"github.com/samirrijal/hotelfinder/internal/pkg/telemetry"
)

// DirectoryService owns the loaded location directory.
type DirectoryService struct {
	source   ports.DirectorySource
	fallback string

	mu       sync.RWMutex
	dir      *domain.Directory
	loadErr  error
	loadedAt time.Time
}

// NewDirectoryService creates a DirectoryService. fallback names the city
// used when a requested city is absent; empty means domain.DefaultCity.
func NewDirectoryService(source ports.DirectorySource, fallback string) *DirectoryService {
	if fallback == "" {
		fallback = domain.DefaultCity
	}
	return &DirectoryService{source: source, fallback: fallback}
}

// Load fetches the directory from its source. Failures are not retried.
func (s *DirectoryService) Load(ctx context.Context) error {
	ctx, span := telemetry.Tracer("hotelfinder/directory").Start(ctx, telemetry.SpanDirectoryLoad)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrDirectorySrc, s.source.Name()))

	log := logging.FromContext(ctx)

	dir, err := s.source.Load(ctx)
	if err != nil {
		var loadErr *domain.DirectoryLoadError
		if !errors.As(err, &loadErr) {
			err = &domain.DirectoryLoadError{Source: s.source.Name(), Err: err}
		}
		metrics.DirectoryLoadErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory load failed")

		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		return err
	}

	for _, r := range dir.Records() {
		if !r.Bounds.Contains(r.Center) {
			log.Warn("city center outside its bbox", "city", r.Name, "bbox", r.BBox)
		}
	}

	s.mu.Lock()
	s.dir = dir
	s.loadErr = nil
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.DirectoryCities.Set(float64(dir.Len()))
	log.Info("location directory loaded", "source", s.source.Name(), "cities", dir.Len())
	if _, ok := dir.Lookup(s.fallback); !ok {
		log.Warn("fallback city missing from directory", "fallback", s.fallback)
	}
	return nil
}

// Directory returns the loaded directory, or the load error.
func (s *DirectoryService) Directory() (*domain.Directory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dir == nil {
		if s.loadErr != nil {
			return nil, s.loadErr
		}
		return nil, domain.ErrDirectoryUnavailable
	}
	return s.dir, nil
}

// Loaded reports whether a directory is available.
func (s *DirectoryService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir != nil
}

// LoadedAt returns when the directory was last loaded.
func (s *DirectoryService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// FallbackCity returns the default city name.
func (s *DirectoryService) FallbackCity() string {
	return s.fallback
}

// Cities returns all records in document order.
func (s *DirectoryService) Cities() ([]domain.CityRecord, error) {
	dir, err := s.Directory()
	if err != nil {
		return nil, err
	}
	return dir.Records(), nil
}

// Get returns the record for an exact city name, without fallback.
func (s *DirectoryService) Get(name string) (*domain.CityRecord, error) {
	dir, err := s.Directory()
	if err != nil {
		return nil, err
	}
	rec, ok := dir.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrCityNotResolved, name)
	}
	return &rec, nil
}

// Resolve returns the record for city, substituting the fallback city when
// city is absent. fallback reports whether the substitution happened.
func (s *DirectoryService) Resolve(city string) (rec domain.CityRecord, fallback bool, err error) {
	dir, err := s.Directory()
	if err != nil {
		return domain.CityRecord{}, false, err
	}
	if rec, ok := dir.Lookup(city); ok {
		return rec, false, nil
	}
	if rec, ok := dir.Lookup(s.fallback); ok {
		return rec, true, nil
	}
	return domain.CityRecord{}, false, fmt.Errorf("%w: %q and fallback %q both absent", domain.ErrCityNotResolved, city, s.fallback)
}
