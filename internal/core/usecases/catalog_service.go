package usecases

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
	"github.com/samirrijal/globeview/internal/pkg/telemetry"
)

const (
	CacheKeyOrganizations = "catalog:organizations"
	CacheKeyProducts      = "catalog:products"
)

// CatalogService fetches entity collections from the backend with read-through caching.
type CatalogService struct {
	source   ports.EntitySource
	cache    ports.CacheService
	cacheTTL int
}

// NewCatalogService creates a CatalogService. cache may be nil.
func NewCatalogService(source ports.EntitySource, cache ports.CacheService, cacheTTLSeconds int) *CatalogService {
	return &CatalogService{source: source, cache: cache, cacheTTL: cacheTTLSeconds}
}

// Fetch loads organizations and products in parallel. A failing collection is
// logged and returned empty; Fetch itself never fails.
func (s *CatalogService) Fetch(ctx context.Context) domain.Catalog {
	ctx, span := telemetry.Tracer().Start(ctx, "catalog.fetch")
	defer span.End()

	var cat domain.Catalog
	var g errgroup.Group
	g.Go(func() error {
		cat.Organizations = fetchCached(ctx, s, CacheKeyOrganizations, "organizations", s.source.ListOrganizations)
		return nil
	})
	g.Go(func() error {
		cat.Products = fetchCached(ctx, s, CacheKeyProducts, "products", s.source.ListProducts)
		return nil
	})
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("organizations", len(cat.Organizations)),
		attribute.Int("products", len(cat.Products)),
	)
	return cat
}

// Warm fetches both collections straight from the backend and stores them in
// the cache, returning the first fetch error.
func (s *CatalogService) Warm(ctx context.Context) (domain.Catalog, error) {
	var cat domain.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orgs, err := s.source.ListOrganizations(gctx)
		if err != nil {
			return err
		}
		cat.Organizations = orgs
		s.store(gctx, CacheKeyOrganizations, orgs)
		return nil
	})
	g.Go(func() error {
		products, err := s.source.ListProducts(gctx)
		if err != nil {
			return err
		}
		cat.Products = products
		s.store(gctx, CacheKeyProducts, products)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}

// Invalidate drops the cached collections so the next Fetch hits the backend.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, CacheKeyOrganizations); err != nil {
		return err
	}
	return s.cache.Delete(ctx, CacheKeyProducts)
}

func (s *CatalogService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
}

func fetchCached[T any](ctx context.Context, s *CatalogService, key, collection string, fetch func(context.Context) ([]T, error)) []T {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var items []T
			if err := json.Unmarshal(data, &items); err == nil {
				metrics.CacheHits.WithLabelValues(collection).Inc()
				return items
			}
		}
		metrics.CacheMisses.WithLabelValues(collection).Inc()
	}

	items, err := fetch(ctx)
	if err != nil {
		metrics.EntityFetchErrors.WithLabelValues(collection).Inc()
		slog.ErrorContext(ctx, "entity fetch failed", "collection", collection, "error", err)
		return []T{}
	}

	s.store(ctx, key, items)
	return items
}
