package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
	"github.com/samirrijal/globeview/internal/pkg/telemetry"
)

// Session is one globe-view instance: its layers, entity snapshot, auth and
// zoom context, hover/selection state and style. All methods are safe for
// concurrent use; markers are recomputed synchronously under the session lock
// whenever an input changes.
type Session struct {
	mu sync.Mutex

	id       string
	clientID string

	registry   *LayerRegistry
	aggregator *MarkerAggregator
	view       *GlobeView
	style      *StyleStore
	publisher  ports.EventPublisher

	catalog       domain.Catalog
	authenticated bool
	zoom          float64
	markers       []domain.Marker
	loading       bool
	lastSeen      time.Time
}

// Snapshot is a read-only view of a session's state.
type Snapshot struct {
	ID            string             `json:"id"`
	ClientID      string             `json:"client_id"`
	Authenticated bool               `json:"authenticated"`
	Zoom          float64            `json:"zoom"`
	Loading       bool               `json:"loading"`
	Layers        []LayerStatus      `json:"layers"`
	MarkerCount   int                `json:"marker_count"`
	Style         domain.StyleConfig `json:"style"`
	RenderKey     string             `json:"render_key"`
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) touch() { s.lastSeen = time.Now() }

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Refresh refetches every entity collection and recomputes markers.
func (s *Session) Refresh(ctx context.Context, catalogs *CatalogService) {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	s.reload(ctx, catalogs)
}

// reload is Refresh without marking the session active.
func (s *Session) reload(ctx context.Context, catalogs *CatalogService) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	cat := catalogs.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
	s.loading = false
	s.recompute(ctx)
}

// recompute rebuilds the marker list from scratch and pushes the layer
// counters. Callers hold s.mu.
func (s *Session) recompute(ctx context.Context) {
	_, span := telemetry.Tracer().Start(ctx, "globe.recompute")
	defer span.End()
	start := time.Now()

	layers := s.registry.Layers()
	set := NewEntitySet(s.catalog, layers)
	for _, l := range layers {
		_ = s.registry.SetCount(l.ID, len(set.ByLayer[l.ID]))
	}

	s.markers = s.aggregator.Aggregate(set, layers, s.authenticated, s.zoom)

	plotted := PlottedByLayer(s.markers)
	for _, l := range layers {
		_ = s.registry.SetPlottedCount(l.ID, plotted[l.ID])
	}
	s.view.Reconcile(s.markers)

	metrics.MarkersComputed.Observe(float64(len(s.markers)))
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())

	if s.publisher != nil {
		if err := s.publisher.PublishMarkersRecomputed(ctx, s.id, len(s.markers)); err != nil {
			slog.DebugContext(ctx, "publish markers recomputed failed", "session", s.id, "error", err)
		}
	}
}

// ToggleLayer flips one layer and recomputes.
func (s *Session) ToggleLayer(ctx context.Context, id domain.LayerID) (domain.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, err := s.registry.Toggle(id); err != nil {
		return domain.Layer{}, err
	}
	s.recompute(ctx)
	layer, _ := s.registry.Layer(id)

	if s.publisher != nil {
		if err := s.publisher.PublishLayerToggled(ctx, s.id, layer); err != nil {
			slog.DebugContext(ctx, "publish layer toggled failed", "session", s.id, "error", err)
		}
	}
	return layer, nil
}

// SetZoom updates the zoom level and recomputes.
func (s *Session) SetZoom(ctx context.Context, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.zoom = zoom
	s.recompute(ctx)
}

// SetAuthenticated updates the auth context and recomputes.
func (s *Session) SetAuthenticated(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.authenticated = authenticated
	s.recompute(ctx)
}

// Markers returns the current marker list.
func (s *Session) Markers() []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	out := make([]domain.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// LayerPanel returns every layer with its visibility reason.
func (s *Session) LayerPanel() []LayerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.registry.Panel(s.authenticated, s.zoom)
}

// HoverCountry highlights a country polygon; "" clears.
func (s *Session) HoverCountry(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.view.HoverCountry(name)
}

// LeaveCountry clears the highlight.
func (s *Session) LeaveCountry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.view.LeaveCountry()
}

// SelectMarker selects a marker by id.
func (s *Session) SelectMarker(id string) (domain.MarkerDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	m, err := s.view.SelectByID(s.markers, id)
	if err != nil {
		return domain.MarkerDetail{}, err
	}
	return Detail(m), nil
}

// SelectNear selects the marker closest to a clicked point.
func (s *Session) SelectNear(point domain.Coordinate, maxDegrees float64) (domain.MarkerDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	m, err := s.view.SelectNearest(s.markers, point, maxDegrees)
	if err != nil {
		return domain.MarkerDetail{}, err
	}
	return Detail(m), nil
}

// CloseSelection clears the selection.
func (s *Session) CloseSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.view.CloseSelection()
}

// Props returns the renderer props for the given polygons.
func (s *Session) Props(polygons []domain.CountryPolygon) RenderProps {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.view.Props(s.markers, polygons, s.style.Current(), s.style.RenderKey())
}

// Style returns the active style and its render key.
func (s *Session) Style() (domain.StyleConfig, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.style.Current(), s.style.RenderKey()
}

// ApplyPreset replaces the style with a named preset.
func (s *Session) ApplyPreset(ctx context.Context, name string) (domain.StyleConfig, error) {
	return s.changeStyle(ctx, func(st *StyleStore) error { return st.ApplyPreset(name) })
}

// UpdateStyle merges a partial style change.
func (s *Session) UpdateStyle(ctx context.Context, p domain.StylePatch) (domain.StyleConfig, error) {
	return s.changeStyle(ctx, func(st *StyleStore) error { return st.Update(p) })
}

// ResetStyle restores the default preset.
func (s *Session) ResetStyle(ctx context.Context) (domain.StyleConfig, error) {
	return s.changeStyle(ctx, func(st *StyleStore) error { st.Reset(); return nil })
}

// SaveStyle persists the active style.
func (s *Session) SaveStyle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.style.Persist(ctx)
}

func (s *Session) changeStyle(ctx context.Context, fn func(*StyleStore) error) (domain.StyleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := fn(s.style); err != nil {
		return s.style.Current(), err
	}
	cur := s.style.Current()
	if s.publisher != nil {
		if err := s.publisher.PublishStyleChanged(ctx, s.id, s.style.RenderKey(), cur); err != nil {
			slog.DebugContext(ctx, "publish style changed failed", "session", s.id, "error", err)
		}
	}
	return cur, nil
}

// Snapshot summarizes the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.snapshot()
}

// View returns the snapshot and the renderer props of one consistent state.
func (s *Session) View(polygons []domain.CountryPolygon) (Snapshot, RenderProps) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.snapshot(), s.view.Props(s.markers, polygons, s.style.Current(), s.style.RenderKey())
}

// snapshot requires s.mu.
func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:            s.id,
		ClientID:      s.clientID,
		Authenticated: s.authenticated,
		Zoom:          s.zoom,
		Loading:       s.loading,
		Layers:        s.registry.Panel(s.authenticated, s.zoom),
		MarkerCount:   len(s.markers),
		Style:         s.style.Current(),
		RenderKey:     s.style.RenderKey(),
	}
}
