package domain

import (
	"fmt"
	"time"
)

// DefaultCity is the city selected when the user has not chosen one.
const DefaultCity = "TP. Hồ Chí Minh"

// CityRecord is one entry of the location directory.
type CityRecord struct {
	Name   string   `json:"name"`
	BBox   string   `json:"bbox"`
	Bounds Bounds   `json:"bounds"`
	Center GeoPoint `json:"center"`
}

// Directory maps city names to records and keeps the source document order.
// It is immutable once built.
type Directory struct {
	order   []string
	records map[string]CityRecord
}

// NewDirectory builds a directory from records in display order.
func NewDirectory(records []CityRecord) (*Directory, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("directory is empty")
	}
	d := &Directory{
		order:   make([]string, 0, len(records)),
		records: make(map[string]CityRecord, len(records)),
	}
	for _, r := range records {
		if r.Name == "" {
			return nil, fmt.Errorf("directory entry with empty city name")
		}
		if _, dup := d.records[r.Name]; dup {
			return nil, fmt.Errorf("duplicate city %q", r.Name)
		}
		d.order = append(d.order, r.Name)
		d.records[r.Name] = r
	}
	return d, nil
}

// Lookup returns the record for name.
func (d *Directory) Lookup(name string) (CityRecord, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Names returns city names in document order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Records returns all records in document order.
func (d *Directory) Records() []CityRecord {
	out := make([]CityRecord, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}

// Len returns the number of cities.
func (d *Directory) Len() int {
	return len(d.order)
}

// ElementKind is the geometry kind of a POI element.
type ElementKind string

const (
	KindPoint    ElementKind = "point"
	KindWay      ElementKind = "way"
	KindRelation ElementKind = "relation"
)

// POIElement is one element of a POI service response.
// Lat, Lon and Name are nil when the service omitted them.
type POIElement struct {
	ID   int64       `json:"id"`
	Kind ElementKind `json:"kind"`
	Lat  *float64    `json:"lat,omitempty"`
	Lon  *float64    `json:"lon,omitempty"`
	Name *string     `json:"name,omitempty"`
}

// Renderable reports whether the element can be placed as a map marker.
func (e POIElement) Renderable() bool {
	return e.Kind == KindPoint && e.Lat != nil && e.Lon != nil
}

// Hotel is a renderable hotel point.
type Hotel struct {
	ID       int64   `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Name     string  `json:"name,omitempty"`
	Distance float64 `json:"distance_m"` // from the city center
}

// SearchStatus is the state of a hotel search.
type SearchStatus string

const (
	StatusIdle    SearchStatus = "idle"
	StatusLoading SearchStatus = "loading"
	StatusReady   SearchStatus = "ready"
	StatusEmpty   SearchStatus = "empty"
	StatusError   SearchStatus = "error"
)

// SearchResult is the outcome of a successful pipeline run.
type SearchResult struct {
	City         string       `json:"city"`
	ResolvedCity string       `json:"resolved_city"`
	Fallback     bool         `json:"fallback"`
	Center       GeoPoint     `json:"center"`
	Status       SearchStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
	Hotels       []Hotel      `json:"hotels"`
}

// SearchEvent is published after every search attempt.
type SearchEvent struct {
	City         string       `json:"city"`
	ResolvedCity string       `json:"resolved_city,omitempty"`
	Status       SearchStatus `json:"status"`
	Hotels       int          `json:"hotels"`
	DurationMS   int64        `json:"duration_ms"`
	Error        string       `json:"error,omitempty"`
	At           time.Time    `json:"at"`
}
