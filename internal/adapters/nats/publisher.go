package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

const (
	// StreamName is the JetStream stream holding search events.
	StreamName = "HOTEL_SEARCHES"
	// SubjectPrefix is followed by the search status, e.g. hotels.search.ready.
	SubjectPrefix = "hotels.search."
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the search stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("hotelfinder-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := StreamConfig()
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// StreamConfig describes the search event stream.
func StreamConfig() nats.StreamConfig {
	return nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
}

// Subject returns the subject an event with status is published on.
func Subject(status domain.SearchStatus) string {
	return SubjectPrefix + string(status)
}

// PublishSearch publishes one search event.
func (p *Publisher) PublishSearch(ctx context.Context, event *domain.SearchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(Subject(event.Status), data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", Subject(event.Status), err)
	}
	return nil
}

// IsConnected reports the connection state for the readiness probe.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
