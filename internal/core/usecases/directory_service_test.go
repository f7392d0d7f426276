package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/core/usecases"
)

func TestDirectoryService_NotLoaded(t *testing.T) {
	svc := usecases.NewDirectoryService(&fakeSource{}, "")

	assert.False(t, svc.Loaded())
	_, err := svc.Directory()
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
	_, _, err = svc.Resolve("Hanoi")
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
}

func TestDirectoryService_LoadFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	svc := usecases.NewDirectoryService(src, "")

	err := svc.Load(context.Background())
	require.Error(t, err)

	var loadErr *domain.DirectoryLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "fake", loadErr.Source)
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)

	_, err = svc.Cities()
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
	assert.Equal(t, 1, src.calls, "load must not be retried")
}

func TestDirectoryService_Resolve(t *testing.T) {
	src := &fakeSource{dir: testDirectory(t, hanoi(t), saigon(t))}
	svc := usecases.NewDirectoryService(src, "")
	require.NoError(t, svc.Load(context.Background()))

	rec, fallback, err := svc.Resolve("Hanoi")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "Hanoi", rec.Name)

	rec, fallback, err = svc.Resolve("Danang")
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, domain.DefaultCity, rec.Name)
}

func TestDirectoryService_ResolveEveryCityHasFourComponentBBox(t *testing.T) {
	src := &fakeSource{dir: testDirectory(t, hanoi(t), saigon(t))}
	svc := usecases.NewDirectoryService(src, "")
	require.NoError(t, svc.Load(context.Background()))

	cities, err := svc.Cities()
	require.NoError(t, err)
	for _, c := range cities {
		rec, _, err := svc.Resolve(c.Name)
		require.NoError(t, err)
		b, err := domain.ParseBounds(rec.Bounds.String())
		require.NoError(t, err, c.Name)
		assert.Equal(t, rec.Bounds, b)
	}
}

func TestDirectoryService_ResolveFallbackAbsent(t *testing.T) {
	src := &fakeSource{dir: testDirectory(t, hanoi(t))}
	svc := usecases.NewDirectoryService(src, "")
	require.NoError(t, svc.Load(context.Background()))

	_, _, err := svc.Resolve("Danang")
	assert.ErrorIs(t, err, domain.ErrCityNotResolved)
}

func TestDirectoryService_GetHasNoFallback(t *testing.T) {
	src := &fakeSource{dir: testDirectory(t, hanoi(t), saigon(t))}
	svc := usecases.NewDirectoryService(src, "")
	require.NoError(t, svc.Load(context.Background()))

	rec, err := svc.Get("Hanoi")
	require.NoError(t, err)
	assert.Equal(t, 21.03, rec.Center.Lat)

	_, err = svc.Get("Danang")
	assert.ErrorIs(t, err, domain.ErrCityNotResolved)
}
