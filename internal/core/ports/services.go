package ports

import (
	"context"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// EventPublisher publishes globe events to a message broker.
type EventPublisher interface {
	PublishStyleChanged(ctx context.Context, sessionID, renderKey string, style domain.StyleConfig) error
	PublishLayerToggled(ctx context.Context, sessionID string, layer domain.Layer) error
	PublishMarkersRecomputed(ctx context.Context, sessionID string, markerCount int) error
	PublishCatalogUpdated(ctx context.Context, organizations, products int) error
}

// EventSubscriber subscribes to globe events from a message broker.
type EventSubscriber interface {
	SubscribeCatalogUpdates(ctx context.Context, handler func(ctx context.Context) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Authenticator verifies bearer tokens against the identity provider.
type Authenticator interface {
	Verify(ctx context.Context, token string) (bool, error)
}
