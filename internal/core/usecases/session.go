package usecases

import (
	"context"
	"sync"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
)

// Searcher runs one hotel search. HotelService implements it.
type Searcher interface {
	Search(ctx context.Context, city string) (*domain.SearchResult, error)
}

// SessionState is a snapshot of a search session as seen by the renderer.
type SessionState struct {
	Seq          uint64              `json:"seq"`
	City         string              `json:"city"`
	ResolvedCity string              `json:"resolved_city,omitempty"`
	Status       domain.SearchStatus `json:"status"`
	Center       *domain.GeoPoint    `json:"center,omitempty"`
	Hotels       []domain.Hotel      `json:"hotels"`
	Message      string              `json:"message,omitempty"`
}

// Session is the state machine behind one interactive map view:
// idle → loading → ready | empty | error, and back to loading on every
// selection or refresh.
//
// Each search is tagged with the sequence number current when it started.
// Its outcome is applied only if no newer search has been issued since;
// superseded searches keep running but their results are dropped.
type Session struct {
	ID string

	searcher Searcher
	notify   func(SessionState)
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu     sync.Mutex
	state  SessionState
	closed bool
}

// NewSession creates an idle session. notify receives every state change in
// order; it is called with the session lock held and must not call back into
// the session.
func NewSession(parent context.Context, id string, searcher Searcher, notify func(SessionState)) *Session {
	ctx, cancel := context.WithCancel(parent)
	if notify == nil {
		notify = func(SessionState) {}
	}
	return &Session{
		ID:       id,
		searcher: searcher,
		notify:   notify,
		ctx:      ctx,
		cancel:   cancel,
		state:    SessionState{Status: domain.StatusIdle, Hotels: []domain.Hotel{}},
	}
}

// Select starts a search for city and returns its sequence token.
func (s *Session) Select(city string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(city)
}

// Refresh re-runs the search for the current city. The city is read and the
// search started under one lock, so a concurrent Select either precedes it
// or supersedes it. Sessions are driven by a single reader in practice.
func (s *Session) Refresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(s.state.City)
}

// startLocked moves to loading and launches the search. The goroutine is
// counted before the lock is released so Close always waits for it.
func (s *Session) startLocked(city string) uint64 {
	if s.closed {
		return s.state.Seq
	}
	token := s.state.Seq + 1
	s.state = SessionState{
		Seq:    token,
		City:   city,
		Status: domain.StatusLoading,
		Hotels: []domain.Hotel{},
	}
	s.notify(s.state)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.searcher.Search(s.ctx, city)
		s.apply(token, res, err)
	}()
	return token
}

// Fail moves the session straight to the error state without searching,
// e.g. when the directory is unavailable at session start.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.Seq++
	s.state = SessionState{
		Seq:     s.state.Seq,
		City:    s.state.City,
		Status:  domain.StatusError,
		Hotels:  []domain.Hotel{},
		Message: domain.UserMessage(err),
	}
	s.notify(s.state)
}

// apply installs the outcome of search token. It reports false when the
// outcome is stale or the session is closed.
func (s *Session) apply(token uint64, res *domain.SearchResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if token != s.state.Seq {
		metrics.StaleResults.Inc()
		return false
	}

	next := SessionState{Seq: token, City: s.state.City, Hotels: []domain.Hotel{}}
	if err != nil {
		next.Status = domain.StatusError
		next.Message = domain.UserMessage(err)
	} else {
		center := res.Center
		next.ResolvedCity = res.ResolvedCity
		next.Status = res.Status
		next.Center = &center
		next.Hotels = res.Hotels
		next.Message = res.Message
	}
	s.state = next
	s.notify(s.state)
	return true
}

// State returns the current snapshot.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels in-flight searches and waits for them to return.
// No notifications are delivered after Close.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}
