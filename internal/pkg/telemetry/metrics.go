package telemetry

// Span and attribute names used for tracing.
const (
	SpanOverpassQuery  = "overpass.query"
	SpanDirectoryLoad  = "directory.load"
	SpanHotelSearch    = "hotels.search"
	AttrCity           = "hotelfinder.city"
	AttrResolvedCity   = "hotelfinder.resolved_city"
	AttrElements       = "overpass.elements"
	AttrHTTPStatusCode = "http.status_code"
	AttrDirectorySrc   = "directory.source"
)
