package ports

import (
	"context"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// EntitySource fetches entity collections from the managed backend.
type EntitySource interface {
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// CountrySource fetches the country outline collection.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]domain.CountryPolygon, error)
}

// KeyValueStore is durable key-value persistence for client state (saved styles).
// Get returns domain.ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
