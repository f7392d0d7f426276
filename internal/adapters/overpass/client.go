// Package overpass is a client for the Overpass API interpreter endpoint.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
	"github.com/samirrijal/hotelfinder/internal/pkg/telemetry"
)

const (
	// DefaultURL is the public Overpass interpreter.
	DefaultURL = "https://overpass-api.de/api/interpreter"
	// DefaultUserAgent identifies the service per the Overpass usage policy.
	DefaultUserAgent = "hotelfinder/1.0"
	// DefaultTimeout stays above the [timeout:25] server-side budget.
	DefaultTimeout = 35 * time.Second
	// DefaultRateLimit is one request per second.
	DefaultRateLimit = rate.Limit(1.0)

	maxErrorBody = 512
)

// Client executes Overpass QL queries. It implements ports.POIQueryService.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit sets requests per second. Zero or less disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the interpreter at url.
func NewClient(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		url:        url,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`
}

func (e element) toDomain() domain.POIElement {
	var kind domain.ElementKind
	switch e.Type {
	case "node":
		kind = domain.KindPoint
	case "way":
		kind = domain.KindWay
	case "relation":
		kind = domain.KindRelation
	default:
		kind = domain.ElementKind(e.Type)
	}
	out := domain.POIElement{ID: e.ID, Kind: kind, Lat: e.Lat, Lon: e.Lon}
	if name, ok := e.Tags["name"]; ok {
		out.Name = &name
	}
	return out
}

// Query sends query as the body of a single POST. There is no retry: any
// transport failure, non-2xx status or undecodable body is a *domain.POIQueryError.
func (c *Client) Query(ctx context.Context, query string) ([]domain.POIElement, error) {
	ctx, span := telemetry.Tracer("hotelfinder/overpass").Start(ctx, telemetry.SpanOverpassQuery)
	defer span.End()

	start := time.Now()
	elements, status, err := c.do(ctx, query)
	metrics.OverpassDuration.Observe(time.Since(start).Seconds())

	if status != 0 {
		span.SetAttributes(attribute.Int(telemetry.AttrHTTPStatusCode, status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "overpass query failed")
		return nil, err
	}

	metrics.OverpassRequests.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int(telemetry.AttrElements, len(elements)))
	return elements, nil
}

func (c *Client) do(ctx context.Context, query string) ([]domain.POIElement, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.OverpassRequests.WithLabelValues("transport_error").Inc()
		return nil, 0, &domain.POIQueryError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		metrics.OverpassRequests.WithLabelValues("transport_error").Inc()
		return nil, 0, &domain.POIQueryError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.OverpassRequests.WithLabelValues("transport_error").Inc()
		return nil, 0, &domain.POIQueryError{Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.OverpassRequests.WithLabelValues("http_error").Inc()
		return nil, resp.StatusCode, &domain.POIQueryError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.OverpassRequests.WithLabelValues("decode_error").Inc()
		return nil, resp.StatusCode, &domain.POIQueryError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	out := make([]domain.POIElement, 0, len(payload.Elements))
	for _, e := range payload.Elements {
		out = append(out, e.toDomain())
	}
	return out, resp.StatusCode, nil
}
