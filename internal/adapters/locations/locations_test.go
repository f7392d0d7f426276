package locations_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/hotelfinder/internal/adapters/locations"
	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

const sampleDoc = `{
  "TP. Hồ Chí Minh": {"bbox": "10.70,106.60,10.85,106.80", "center": [10.7769, 106.7009]},
  "Hà Nội": {"bbox": "20.95,105.75,21.10,105.95", "center": [21.0285, 105.8542]},
  "Đà Nẵng": {"bbox": "15.95,108.10,16.15,108.30", "center": [16.0544, 108.2022]}
}`

func TestDecode_PreservesOrder(t *testing.T) {
	dir, err := locations.Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"TP. Hồ Chí Minh", "Hà Nội", "Đà Nẵng"}, dir.Names())

	hn, ok := dir.Lookup("Hà Nội")
	require.True(t, ok)
	assert.Equal(t, "20.95,105.75,21.10,105.95", hn.BBox)
	assert.Equal(t, domain.Bounds{MinLat: 20.95, MinLon: 105.75, MaxLat: 21.10, MaxLon: 105.95}, hn.Bounds)
	assert.Equal(t, domain.GeoPoint{Lat: 21.0285, Lon: 105.8542}, hn.Center)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":        `nope`,
		"array":           `[1,2]`,
		"empty":           `{}`,
		"three parts":     `{"A": {"bbox": "1,2,3", "center": [1, 2]}}`,
		"non numeric":     `{"A": {"bbox": "1,x,3,4", "center": [1, 2]}}`,
		"south > north":   `{"A": {"bbox": "5,2,3,4", "center": [4, 3]}}`,
		"missing bbox":    `{"A": {"center": [1, 2]}}`,
		"missing center":  `{"A": {"bbox": "1,2,3,4"}}`,
		"short center":    `{"A": {"bbox": "1,2,3,4", "center": [1]}}`,
		"center range":    `{"A": {"bbox": "1,2,3,4", "center": [91, 2]}}`,
		"truncated":       `{"A": {"bbox": "1,2,3,4", "center": [2, 3]}`,
		"one bad of many": `{"A": {"bbox": "1,2,3,4", "center": [2, 3]}, "B": {"bbox": "bad", "center": [2, 3]}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := locations.Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	dir, err := locations.NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())
}

func TestFileSource_Missing(t *testing.T) {
	src := locations.NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	_, err := src.Load(context.Background())

	var loadErr *domain.DirectoryLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, src.Name(), loadErr.Source)
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
}

func TestHTTPSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	dir, err := locations.NewHTTPSource(srv.URL, srv.Client()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TP. Hồ Chí Minh", dir.Names()[0])
}

func TestHTTPSource_ErrorStatusNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := locations.NewHTTPSource(srv.URL, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, 1, calls)
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"A": {"bbox": "oops"}}`))
	}))
	defer srv.Close()

	_, err := locations.NewHTTPSource(srv.URL, nil).Load(context.Background())
	var loadErr *domain.DirectoryLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestShippedDirectory(t *testing.T) {
	dir, err := locations.NewFileSource("../../../data/vietnam_locations.json").Load(context.Background())
	require.NoError(t, err)

	_, ok := dir.Lookup(domain.DefaultCity)
	assert.True(t, ok, "default city must be in the shipped directory")
	assert.Equal(t, domain.DefaultCity, dir.Names()[0])

	for _, rec := range dir.Records() {
		assert.True(t, rec.Bounds.Contains(rec.Center), "%s: center outside bbox", rec.Name)
	}
}
