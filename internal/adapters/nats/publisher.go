package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "GLOBE_SESSIONS",
			Subjects:  []string{"globe.style.>", "globe.layers.>", "globe.markers.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.MemoryStorage,
		},
		{
			Name:      "GLOBE_CATALOG",
			Subjects:  []string{SubjectCatalogUpdated},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishStyleChanged(ctx context.Context, sessionID, renderKey string, style domain.StyleConfig) error {
	data, err := encodeEvent(KindStyleChanged, stylePayload(sessionID, renderKey, style))
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectStyle+sessionID, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishLayerToggled(ctx context.Context, sessionID string, layer domain.Layer) error {
	data, err := encodeEvent(KindLayerToggled, layerPayload(sessionID, layer))
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectLayers+sessionID, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishMarkersRecomputed(ctx context.Context, sessionID string, markerCount int) error {
	data, err := encodeEvent(KindMarkersRecomputed, map[string]any{
		"session_id":   sessionID,
		"marker_count": markerCount,
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectMarkers+sessionID, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishCatalogUpdated(ctx context.Context, organizations, products int) error {
	data, err := encodeEvent(KindCatalogUpdated, map[string]any{
		"organizations": organizations,
		"products":      products,
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectCatalogUpdated, data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("globeview"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
