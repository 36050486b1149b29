package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/globeview/internal/adapters/nats"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
)

// wsMessage is a renderer event sent from the client.
type wsMessage struct {
	Action   string   `json:"action"` // hover | leave | select | close | toggle | zoom
	Country  string   `json:"country,omitempty"`
	MarkerID string   `json:"marker_id,omitempty"`
	Layer    string   `json:"layer,omitempty"`
	Zoom     *float64 `json:"zoom,omitempty"`
}

// WebSocketUpgrade admits upgrade requests for a live session and stores the
// session in Locals for WebSocketHandler.
func WebSocketUpgrade(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		s, err := deps.Sessions.Get(c.Query("session"))
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Locals("session", s)
		return c.Next()
	}
}

// WebSocketHandler relays the session's NATS events to the client and applies
// renderer events (hover, click, toggle, zoom) sent back by it.
// Clients send JSON such as {"action":"hover","country":"France"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		s, ok := c.Locals("session").(*usecases.Session)
		if !ok {
			return
		}
		log := slog.Default().With("session", s.ID(), "remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex

		// Helper: thread-safe write
		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeRaw(data)
		}

		// Relay per-session events published by the core
		if deps.NATS != nil {
			sub, err := deps.NATS.Subscribe(natsadapter.SessionWildcard(s.ID()), func(msg *nats.Msg) {
				data, err := natsadapter.EventJSON(msg.Data)
				if err != nil {
					log.Debug("ws drop malformed event", "subject", msg.Subject, "error", err)
					return
				}
				_ = writeRaw(data)
			})
			if err != nil {
				log.Error("ws subscribe failed", "error", err)
			} else {
				defer func() { _ = sub.Unsubscribe() }()
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
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

		// Read renderer events
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			_ = writeJSON(applyRendererEvent(s, m))
		}

		log.Info("ws client disconnected")
	}
}

// applyRendererEvent mutates the session for one client event and returns
// the reply frame.
func applyRendererEvent(s *usecases.Session, m wsMessage) fiber.Map {
	ctx := context.Background()
	switch m.Action {
	case "hover":
		s.HoverCountry(m.Country)
		return fiber.Map{"status": "ok", "action": m.Action, "hovered_country": m.Country}

	case "leave":
		s.LeaveCountry()
		return fiber.Map{"status": "ok", "action": m.Action}

	case "select":
		d, err := s.SelectMarker(m.MarkerID)
		if err != nil {
			return fiber.Map{"error": err.Error()}
		}
		return fiber.Map{"status": "ok", "action": m.Action, "selected": d}

	case "close":
		s.CloseSelection()
		return fiber.Map{"status": "ok", "action": m.Action}

	case "toggle":
		l, err := s.ToggleLayer(ctx, domain.LayerID(m.Layer))
		if err != nil {
			return fiber.Map{"error": err.Error()}
		}
		return fiber.Map{"status": "ok", "action": m.Action, "layer": l}

	case "zoom":
		if m.Zoom == nil || *m.Zoom < 0 {
			return fiber.Map{"error": "zoom must be a non-negative number"}
		}
		s.SetZoom(ctx, *m.Zoom)
		return fiber.Map{"status": "ok", "action": m.Action, "marker_count": s.Snapshot().MarkerCount}

	default:
		return fiber.Map{"error": "unknown action: " + m.Action}
	}
}
