package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/core/usecases"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
)

// gatedSearcher blocks each search until its city's gate is released.
type gatedSearcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
}

func newGatedSearcher(cities ...string) *gatedSearcher {
	g := &gatedSearcher{gates: map[string]chan struct{}{}, errs: map[string]error{}}
	for _, c := range cities {
		g.gates[c] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) release(city string) { close(g.gates[city]) }

func (g *gatedSearcher) Search(ctx context.Context, city string) (*domain.SearchResult, error) {
	g.mu.Lock()
	gate, err := g.gates[city], g.errs[city]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &domain.SearchResult{
		City:         city,
		ResolvedCity: city,
		Center:       domain.GeoPoint{Lat: 16.0, Lon: 108.0},
		Status:       domain.StatusReady,
		Hotels:       []domain.Hotel{{ID: int64(len(city)), Name: city + " Hotel"}},
	}, nil
}

type recorder struct {
	ch chan usecases.SessionState
}

func newRecorder() *recorder { return &recorder{ch: make(chan usecases.SessionState, 32)} }

func (r *recorder) notify(s usecases.SessionState) { r.ch <- s }

func (r *recorder) next(t *testing.T) usecases.SessionState {
	t.Helper()
	select {
	case s := <-r.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session state")
		return usecases.SessionState{}
	}
}

func TestSession_StartsIdle(t *testing.T) {
	s := usecases.NewSession(context.Background(), "s1", newGatedSearcher(), nil)
	defer s.Close()

	st := s.State()
	assert.Equal(t, domain.StatusIdle, st.Status)
	assert.Zero(t, st.Seq)
}

func TestSession_SelectLoadingThenReady(t *testing.T) {
	g := newGatedSearcher("Huế")
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", g, rec.notify)
	defer s.Close()

	token := s.Select("Huế")
	loading := rec.next(t)
	assert.Equal(t, domain.StatusLoading, loading.Status)
	assert.Equal(t, token, loading.Seq)
	assert.Empty(t, loading.Hotels)

	g.release("Huế")
	ready := rec.next(t)
	assert.Equal(t, domain.StatusReady, ready.Status)
	assert.Equal(t, token, ready.Seq)
	require.NotNil(t, ready.Center)
	require.Len(t, ready.Hotels, 1)
}

func TestSession_StaleResultIsDiscarded(t *testing.T) {
	g := newGatedSearcher("Hà Nội", "Huế")
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", g, rec.notify)
	defer s.Close()
	staleBefore := testutil.ToFloat64(metrics.StaleResults)

	first := s.Select("Hà Nội")
	second := s.Select("Huế")
	require.Greater(t, second, first)
	assert.Equal(t, first, rec.next(t).Seq)
	assert.Equal(t, second, rec.next(t).Seq)

	// Newer search completes first, then the superseded one.
	g.release("Huế")
	ready := rec.next(t)
	assert.Equal(t, "Huế", ready.City)
	assert.Equal(t, domain.StatusReady, ready.Status)

	g.release("Hà Nội")
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.StaleResults) == staleBefore+1
	}, 2*time.Second, 5*time.Millisecond, "superseded outcome was not counted as stale")

	st := s.State()
	assert.Equal(t, "Huế", st.City)
	assert.Equal(t, second, st.Seq)
	assert.Equal(t, domain.StatusReady, st.Status)
	select {
	case extra := <-rec.ch:
		t.Fatalf("stale outcome was applied: %+v", extra)
	default:
	}
}

func TestSession_SelectConcurrentWithClose(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := usecases.NewSession(context.Background(), "s1", newGatedSearcher("Hà Nội"), nil)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Select("Hà Nội")
		}()
		go func() {
			defer wg.Done()
			s.Close()
		}()
		wg.Wait()
		s.Close()

		// Once closed, selections are ignored.
		seq := s.State().Seq
		assert.Equal(t, seq, s.Select("Huế"))
		assert.Equal(t, seq, s.Refresh())
	}
}

func TestSession_ErrorState(t *testing.T) {
	g := newGatedSearcher()
	g.errs["Huế"] = &domain.POIQueryError{StatusCode: 500, Err: errors.New("boom")}
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", g, rec.notify)
	defer s.Close()

	s.Select("Huế")
	rec.next(t) // loading
	st := rec.next(t)
	assert.Equal(t, domain.StatusError, st.Status)
	assert.Equal(t, domain.MsgPOIQueryFailed, st.Message)
	assert.Empty(t, st.Hotels)
}

func TestSession_RefreshRepeatsCurrentCity(t *testing.T) {
	g := newGatedSearcher()
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", g, rec.notify)
	defer s.Close()

	s.Select("Đà Lạt")
	rec.next(t)
	rec.next(t)

	token := s.Refresh()
	loading := rec.next(t)
	assert.Equal(t, "Đà Lạt", loading.City)
	assert.Equal(t, token, loading.Seq)
	assert.Equal(t, domain.StatusReady, rec.next(t).Status)
}

func TestSession_Fail(t *testing.T) {
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", newGatedSearcher(), rec.notify)
	defer s.Close()

	s.Fail(domain.ErrDirectoryUnavailable)
	st := rec.next(t)
	assert.Equal(t, domain.StatusError, st.Status)
	assert.Equal(t, domain.MsgDirectoryUnavailable, st.Message)
}

func TestSession_CloseCancelsAndSilences(t *testing.T) {
	g := newGatedSearcher("Vinh")
	rec := newRecorder()
	s := usecases.NewSession(context.Background(), "s1", g, rec.notify)

	s.Select("Vinh")
	rec.next(t)
	s.Close() // in-flight search returns ctx error; must not be applied

	assert.Equal(t, domain.StatusLoading, s.State().Status)
	select {
	case extra := <-rec.ch:
		t.Fatalf("unexpected state after close: %+v", extra)
	default:
	}
}
