package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within WGS 84 ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Bounds represents a geographic bounding box.
// MinLat/MinLon/MaxLat/MaxLon are south/west/north/east.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ParseBounds parses "south,west,north,east" decimal degrees.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bbox %q: expected 4 components, got %d", s, len(parts))
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bbox %q: component %d: %w", s, i+1, err)
		}
		v[i] = f
	}

	b := Bounds{MinLat: v[0], MinLon: v[1], MaxLat: v[2], MaxLon: v[3]}
	if err := b.Validate(); err != nil {
		return Bounds{}, fmt.Errorf("bbox %q: %w", s, err)
	}
	return b, nil
}

// Validate checks coordinate ranges and corner ordering.
func (b Bounds) Validate() error {
	if !(GeoPoint{Lat: b.MinLat, Lon: b.MinLon}).Valid() || !(GeoPoint{Lat: b.MaxLat, Lon: b.MaxLon}).Valid() {
		return fmt.Errorf("coordinates out of range")
	}
	if b.MinLat > b.MaxLat {
		return fmt.Errorf("south %.6f is north of north %.6f", b.MinLat, b.MaxLat)
	}
	if b.MinLon > b.MaxLon {
		return fmt.Errorf("west %.6f is east of east %.6f", b.MinLon, b.MaxLon)
	}
	return nil
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// String formats the box in Overpass order: south,west,north,east.
func (b Bounds) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(b.MinLat, 'f', -1, 64),
		strconv.FormatFloat(b.MinLon, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLat, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLon, 'f', -1, 64),
	}, ",")
}
