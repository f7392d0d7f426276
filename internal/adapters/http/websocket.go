package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
	"github.com/samirrijal/hotelfinder/internal/core/usecases"
	"github.com/samirrijal/hotelfinder/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsRequest is sent by the client.
// {"action":"select","city":"Hà Nội"} or {"action":"refresh"}
type wsRequest struct {
	Action string `json:"action"`
	City   string `json:"city"`
}

// wsMessage is pushed to the client. Type is "cities", "state" or "error".
type wsMessage struct {
	Type     string                 `json:"type"`
	Fallback string                 `json:"fallback,omitempty"`
	Cities   []domain.CityRecord    `json:"cities,omitempty"`
	State    *usecases.SessionState `json:"state,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// WebSocketHandler runs one search session per connection. On connect it
// sends the city list and selects the fallback city; afterwards every state
// change of the session is pushed as it happens.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		id := uuid.NewString()
		log := slog.Default().With("session_id", id, "remote", c.RemoteAddr().String())
		log.Info("ws session opened")

		metrics.ActiveSessions.Inc()
		defer metrics.ActiveSessions.Dec()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		session := usecases.NewSession(context.Background(), id, deps.Hotels, func(s usecases.SessionState) {
			if err := writeJSON(wsMessage{Type: "state", State: &s}); err != nil {
				log.Debug("ws write failed", "error", err)
			}
		})

		if cities, err := deps.Directory.Cities(); err != nil {
			log.Warn("session started without directory", "error", err)
			session.Fail(err)
		} else {
			_ = writeJSON(wsMessage{
				Type:     "cities",
				Fallback: deps.Directory.FallbackCity(),
				Cities:   cities,
			})
			session.Select(deps.Directory.FallbackCity())
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				_ = writeJSON(wsMessage{Type: "error", Error: "invalid JSON"})
				continue
			}

			switch req.Action {
			case "select":
				city := strings.TrimSpace(req.City)
				if city == "" {
					_ = writeJSON(wsMessage{Type: "error", Error: "city is required"})
					continue
				}
				session.Select(city)
			case "refresh":
				session.Refresh()
			default:
				_ = writeJSON(wsMessage{Type: "error", Error: "unknown action: " + req.Action})
			}
		}

		close(done)
		session.Close()
		log.Info("ws session closed")
	}
}
