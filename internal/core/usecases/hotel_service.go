package usecases

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/core/ports"
	"github.com/samirrijal/hotelfinder/internal/pkg/geospatial"
	"github.com/samirrijal/hotelfinder/internal/pkg/logging"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
	"github.com/samirrijal/hotelfinder/internal/pkg/telemetry"
)

// DefaultQueryTimeout is the server-side budget, in seconds, requested from Overpass.
const DefaultQueryTimeout = 25

// hotelQueryFormat selects named hotels of every geometry kind inside a bbox,
// then recurses down so way/relation members come back as skeleton geometry.
const hotelQueryFormat = `[out:json][timeout:%[1]d];
(
  node["tourism"="hotel"]["name"](%[2]s);
  way["tourism"="hotel"]["name"](%[2]s);
  relation["tourism"="hotel"]["name"](%[2]s);
);
out body;
>;
out skel qt;
`

// BuildHotelQuery renders the Overpass QL query for hotels inside b.
func BuildHotelQuery(b domain.Bounds, timeoutSeconds int) string {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultQueryTimeout
	}
	return fmt.Sprintf(hotelQueryFormat, timeoutSeconds, b.String())
}

// FilterHotelPoints keeps renderable point elements in input order and
// computes their distance from center.
func FilterHotelPoints(elements []domain.POIElement, center domain.GeoPoint) []domain.Hotel {
	hotels := make([]domain.Hotel, 0, len(elements))
	for _, e := range elements {
		if !e.Renderable() {
			continue
		}
		h := domain.Hotel{
			ID:       e.ID,
			Lat:      *e.Lat,
			Lon:      *e.Lon,
			Distance: geospatial.Haversine(center.Lat, center.Lon, *e.Lat, *e.Lon),
		}
		if e.Name != nil {
			h.Name = *e.Name
		}
		hotels = append(hotels, h)
	}
	return hotels
}

// HotelService runs the city-scoped hotel retrieval pipeline.
type HotelService struct {
	directory    *DirectoryService
	poi          ports.POIQueryService
	events       ports.EventPublisher
	queryTimeout int
}

// NewHotelService creates a new HotelService. events may be nil.
func NewHotelService(directory *DirectoryService, poi ports.POIQueryService, events ports.EventPublisher) *HotelService {
	return &HotelService{
		directory:    directory,
		poi:          poi,
		events:       events,
		queryTimeout: DefaultQueryTimeout,
	}
}

// WithQueryTimeout sets the [timeout:N] budget sent with each query.
func (s *HotelService) WithQueryTimeout(seconds int) *HotelService {
	if seconds > 0 {
		s.queryTimeout = seconds
	}
	return s
}

// Directory exposes the directory the service resolves cities against.
func (s *HotelService) Directory() *DirectoryService {
	return s.directory
}

// Search resolves city, queries the POI service once and filters the
// response to hotel points. An empty city selects the fallback city.
// Zero hotels is reported as StatusEmpty, not as an error.
func (s *HotelService) Search(ctx context.Context, city string) (*domain.SearchResult, error) {
	if city == "" {
		city = s.directory.FallbackCity()
	}

	ctx, span := telemetry.Tracer("hotelfinder/search").Start(ctx, telemetry.SpanHotelSearch)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrCity, city))

	start := time.Now()
	res, err := s.search(ctx, city)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hotel search failed")
	} else {
		span.SetAttributes(attribute.String(telemetry.AttrResolvedCity, res.ResolvedCity))
	}
	s.record(ctx, city, res, err, elapsed)
	return res, err
}

func (s *HotelService) search(ctx context.Context, city string) (*domain.SearchResult, error) {
	rec, fallback, err := s.directory.Resolve(city)
	if err != nil {
		return nil, err
	}
	if fallback {
		metrics.FallbackResolutions.Inc()
		logging.FromContext(ctx).Info("city not in directory, using fallback", "city", city, "fallback", rec.Name)
	}

	elements, err := s.poi.Query(ctx, BuildHotelQuery(rec.Bounds, s.queryTimeout))
	if err != nil {
		return nil, fmt.Errorf("search hotels in %s: %w", rec.Name, err)
	}

	res := &domain.SearchResult{
		City:         city,
		ResolvedCity: rec.Name,
		Fallback:     fallback,
		Center:       rec.Center,
		Status:       domain.StatusReady,
		Hotels:       FilterHotelPoints(elements, rec.Center),
	}
	if len(res.Hotels) == 0 {
		res.Status = domain.StatusEmpty
		res.Message = domain.NoResultsMessage(city)
	}
	return res, nil
}

func (s *HotelService) record(ctx context.Context, city string, res *domain.SearchResult, err error, elapsed time.Duration) {
	log := logging.FromContext(ctx)

	event := &domain.SearchEvent{
		City:       city,
		DurationMS: elapsed.Milliseconds(),
		At:         time.Now().UTC(),
	}
	if err != nil {
		event.Status = domain.StatusError
		event.Error = err.Error()
		log.Warn("hotel search failed", "city", city, "error", err)
	} else {
		event.Status = res.Status
		event.ResolvedCity = res.ResolvedCity
		event.Hotels = len(res.Hotels)
		metrics.HotelsReturned.Observe(float64(len(res.Hotels)))
		log.Info("hotel search finished", "city", city, "resolved_city", res.ResolvedCity,
			"status", res.Status, "hotels", len(res.Hotels), "elapsed", elapsed.String())
	}
	metrics.HotelSearches.WithLabelValues(string(event.Status)).Inc()

	if s.events != nil {
		if err := s.events.PublishSearch(ctx, event); err != nil {
			log.Warn("publish search event", "error", err)
		}
	}
}
