package natsadapter_test

import (
	"testing"

	natsadapter "github.com/samirrijal/hotelfinder/internal/adapters/nats"
	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

func TestSubject(t *testing.T) {
	tests := map[domain.SearchStatus]string{
		domain.StatusReady: "hotels.search.ready",
		domain.StatusEmpty: "hotels.search.empty",
		domain.StatusError: "hotels.search.error",
	}
	for status, want := range tests {
		if got := natsadapter.Subject(status); got != want {
			t.Errorf("Subject(%s) = %s, want %s", status, got, want)
		}
	}
}

func TestStreamConfig_CoversSubjects(t *testing.T) {
	cfg := natsadapter.StreamConfig()
	if cfg.Name != natsadapter.StreamName {
		t.Fatalf("stream name = %s", cfg.Name)
	}
	if len(cfg.Subjects) != 1 || cfg.Subjects[0] != "hotels.search.>" {
		t.Fatalf("subjects = %v", cfg.Subjects)
	}
}
