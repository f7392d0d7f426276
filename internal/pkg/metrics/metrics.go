package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hotelfinder",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10, 30},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hotelfinder",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Overpass client metrics
	OverpassRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "overpass",
		Name:      "requests_total",
		Help:      "Total Overpass API requests by outcome",
	}, []string{"outcome"})

	OverpassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hotelfinder",
		Subsystem: "overpass",
		Name:      "request_duration_seconds",
		Help:      "Duration of Overpass API requests",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	})

	// Search pipeline metrics
	HotelSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "search",
		Name:      "total",
		Help:      "Total hotel searches by final status",
	}, []string{"status"})

	HotelsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hotelfinder",
		Subsystem: "search",
		Name:      "hotels_returned",
		Help:      "Number of hotel points returned per successful search",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
	})

	FallbackResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "search",
		Name:      "fallback_resolutions_total",
		Help:      "Searches for unknown cities resolved to the fallback city",
	})

	// Directory metrics
	DirectoryCities = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hotelfinder",
		Subsystem: "directory",
		Name:      "cities",
		Help:      "Number of cities in the loaded location directory",
	})

	DirectoryLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "directory",
		Name:      "load_errors_total",
		Help:      "Total failed directory loads",
	})

	// Session metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hotelfinder",
		Subsystem: "ws",
		Name:      "active_sessions",
		Help:      "Current number of active WebSocket search sessions",
	})

	StaleResults = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hotelfinder",
		Subsystem: "session",
		Name:      "stale_results_total",
		Help:      "Search outcomes discarded because a newer search was issued",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
