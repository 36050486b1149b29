package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
)

// CountryService holds the process-wide country polygon list.
type CountryService struct {
	source ports.CountrySource

	mu       sync.RWMutex
	polygons []domain.CountryPolygon
	loading  bool
}

// NewCountryService creates an empty CountryService.
func NewCountryService(source ports.CountrySource) *CountryService {
	return &CountryService{source: source}
}

// Start loads the polygons in the background. Nothing waits for it; until it
// finishes the globe renders without country styling.
func (s *CountryService) Start(ctx context.Context) {
	go s.Load(ctx)
}

// Load fetches the polygons. On failure the list stays as it was.
func (s *CountryService) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	polygons, err := s.source.FetchCountries(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		metrics.CountryFetches.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "country polygon fetch failed", "error", err)
		return
	}
	metrics.CountryFetches.WithLabelValues("ok").Inc()
	s.polygons = polygons
	slog.InfoContext(ctx, "country polygons loaded", "count", len(polygons))
}

// Polygons returns the loaded polygons and whether a fetch is in flight.
func (s *CountryService) Polygons() ([]domain.CountryPolygon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.polygons, s.loading
}

// Names returns the lookup key of every loaded polygon.
func (s *CountryService) Names() []string {
	polygons, _ := s.Polygons()
	names := make([]string, 0, len(polygons))
	for _, p := range polygons {
		names = append(names, p.Name())
	}
	return names
}
