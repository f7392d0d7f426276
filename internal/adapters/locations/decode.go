// Package locations loads the city directory from a JSON document of the form
// {"<city>": {"bbox": "s,w,n,e", "center": [lat, lon]}, ...}.
package locations

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// Entry is the on-disk shape of one directory entry.
type Entry struct {
	BBox   string    `json:"bbox" validate:"required"`
	Center []float64 `json:"center" validate:"required,len=2"`
}

var validate = validator.New()

// Decode parses a directory document. Cities keep their document order.
// Any malformed entry rejects the whole document.
func Decode(r io.Reader) (*domain.Directory, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode directory: expected object, got %v", tok)
	}

	var records []domain.CityRecord
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode directory: %w", err)
		}
		name, _ := tok.(string)

		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode city %q: %w", name, err)
		}
		rec, err := e.Record(name)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}

	return domain.NewDirectory(records)
}

// Record validates e and converts it to a CityRecord named name.
func (e Entry) Record(name string) (domain.CityRecord, error) {
	if err := validate.Struct(e); err != nil {
		return domain.CityRecord{}, fmt.Errorf("city %q: %w", name, err)
	}
	bounds, err := domain.ParseBounds(e.BBox)
	if err != nil {
		return domain.CityRecord{}, fmt.Errorf("city %q: %w", name, err)
	}
	center := domain.GeoPoint{Lat: e.Center[0], Lon: e.Center[1]}
	if !center.Valid() {
		return domain.CityRecord{}, fmt.Errorf("city %q: center %v out of range", name, e.Center)
	}
	return domain.CityRecord{Name: name, BBox: e.BBox, Bounds: bounds, Center: center}, nil
}
