// Package valkey provides Valkey-backed shared state for the HTTP layer.
package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const opTimeout = 2 * time.Second

// Storage implements fiber.Storage on Valkey so rate-limit counters are
// shared across API instances. All keys are namespaced under prefix.
type Storage struct {
	client valkey.Client
	prefix string
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr, prefix string) (*Storage, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	s := &Storage{client: client, prefix: prefix}
	if err := s.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) key(k string) string { return s.prefix + k }

// Get returns nil, nil for a missing key.
func (s *Storage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get: %w", err)
	}
	return b, nil
}

// Set stores val. A zero exp keeps the key until deleted.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	set := s.client.B().Set().Key(s.key(key)).Value(valkey.BinaryString(val))
	var err error
	if exp > 0 {
		err = s.client.Do(ctx, set.Ex(exp).Build()).Error()
	} else {
		err = s.client.Do(ctx, set.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).Error()
}

// Reset deletes every key under the prefix.
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cursor uint64
	for {
		entry, err := s.client.Do(ctx,
			s.client.B().Scan().Cursor(cursor).Match(s.prefix+"*").Count(100).Build(),
		).AsScanEntry()
		if err != nil {
			return fmt.Errorf("valkey scan: %w", err)
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return fmt.Errorf("valkey del: %w", err)
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks connectivity; used by the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Storage) Close() error {
	s.client.Close()
	return nil
}
