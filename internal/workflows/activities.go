package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/core/usecases"
)

// CatalogCounts summarizes one warmed catalog.
type CatalogCounts struct {
	Organizations int
	Products      int
}

// CatalogActivities holds the activity implementations for the catalog refresh workflow.
type CatalogActivities struct {
	Catalogs  *usecases.CatalogService
	Publisher ports.EventPublisher
}

// WarmCatalog refetches both entity collections and writes them to the cache.
func (a *CatalogActivities) WarmCatalog(ctx context.Context) (CatalogCounts, error) {
	cat, err := a.Catalogs.Warm(ctx)
	if err != nil {
		return CatalogCounts{}, fmt.Errorf("warm catalog: %w", err)
	}
	return CatalogCounts{Organizations: len(cat.Organizations), Products: len(cat.Products)}, nil
}

// AnnounceCatalog tells API instances that fresh collections are cached.
func (a *CatalogActivities) AnnounceCatalog(ctx context.Context, counts CatalogCounts) error {
	if a.Publisher == nil {
		slog.InfoContext(ctx, "catalog refreshed (no publisher)",
			"organizations", counts.Organizations, "products", counts.Products)
		return nil
	}
	if err := a.Publisher.PublishCatalogUpdated(ctx, counts.Organizations, counts.Products); err != nil {
		return fmt.Errorf("publish catalog update: %w", err)
	}
	return nil
}
