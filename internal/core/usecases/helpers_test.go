package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// ---- Fakes ----

type fakeSource struct {
	dir   *domain.Directory
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(ctx context.Context) (*domain.Directory, error) {
	f.calls++
	return f.dir, f.err
}

type mockPOI struct {
	queryFn func(ctx context.Context, query string) ([]domain.POIElement, error)
}

func (m *mockPOI) Query(ctx context.Context, query string) ([]domain.POIElement, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, query)
	}
	return nil, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.SearchEvent
	err    error
}

func (m *mockPublisher) PublishSearch(ctx context.Context, e *domain.SearchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return m.err
}

// ---- Fixtures ----

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

func city(t *testing.T, name, bbox string, lat, lon float64) domain.CityRecord {
	t.Helper()
	b, err := domain.ParseBounds(bbox)
	require.NoError(t, err)
	return domain.CityRecord{Name: name, BBox: bbox, Bounds: b, Center: domain.GeoPoint{Lat: lat, Lon: lon}}
}

func testDirectory(t *testing.T, records ...domain.CityRecord) *domain.Directory {
	t.Helper()
	d, err := domain.NewDirectory(records)
	require.NoError(t, err)
	return d
}

func hanoi(t *testing.T) domain.CityRecord {
	return city(t, "Hanoi", "20.95,105.75,21.10,105.95", 21.03, 105.85)
}

func saigon(t *testing.T) domain.CityRecord {
	return city(t, domain.DefaultCity, "10.70,106.60,10.85,106.80", 10.7769, 106.7009)
}
