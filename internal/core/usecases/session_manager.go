package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/globeview/internal/catalog"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/pkg/geospatial"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
)

const defaultClientID = "default"

// SessionConfig wires the collaborators shared by every session.
type SessionConfig struct {
	Catalog         *catalog.Catalog
	Catalogs        *CatalogService
	// SharedCatalogCache reports that Catalogs caches in a store the
	// refresher also writes to, so an announced update is already cached.
	SharedCatalogCache bool
	Countries       *CountryService
	Aggregator      *MarkerAggregator
	Styles          ports.KeyValueStore
	StyleKeyPrefix  string
	Auth            ports.Authenticator
	Publisher       ports.EventPublisher
	IdleTTL         time.Duration
	JanitorInterval time.Duration
}

// CreateOptions are the per-mount inputs of a new session.
type CreateOptions struct {
	ClientID string
	Zoom     float64
	Token    string
}

// SessionManager creates, finds and evicts globe sessions.
type SessionManager struct {
	cfg SessionConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Aggregator == nil {
		cfg.Aggregator = NewMarkerAggregator(geospatial.NewResolver())
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = time.Minute
	}
	return &SessionManager{cfg: cfg, sessions: make(map[string]*Session)}
}

// Countries exposes the shared country polygon service.
func (m *SessionManager) Countries() *CountryService { return m.cfg.Countries }

// Catalog exposes the static layer and preset tables.
func (m *SessionManager) Catalog() *catalog.Catalog { return m.cfg.Catalog }

// Create mounts a new session: verifies the token, loads the saved style and
// fetches the entity collections.
func (m *SessionManager) Create(ctx context.Context, opts CreateOptions) (*Session, error) {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	s := &Session{
		id:         uuid.NewString(),
		clientID:   clientID,
		registry:   NewLayerRegistry(m.cfg.Catalog.Layers()),
		aggregator: m.cfg.Aggregator,
		view:       NewGlobeView(),
		style:      NewStyleStore(m.cfg.Catalog, m.cfg.Styles, m.styleKey(clientID)),
		publisher:  m.cfg.Publisher,
		zoom:       opts.Zoom,
		lastSeen:   time.Now(),
	}

	s.authenticated = m.verify(ctx, opts.Token)
	s.style.LoadPersisted(ctx)

	if m.cfg.Catalogs != nil {
		s.Refresh(ctx, m.cfg.Catalogs)
	} else {
		s.mu.Lock()
		s.recompute(ctx)
		s.mu.Unlock()
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	slog.InfoContext(ctx, "globe session created",
		"session", s.id, "client", clientID, "authenticated", s.authenticated)
	return s, nil
}

// Get returns a live session.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrSessionExpired)
	}
	return s, nil
}

// Delete unmounts a session.
func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return ok
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Refresh refetches the entity collections of one session.
func (m *SessionManager) Refresh(ctx context.Context, s *Session) {
	if m.cfg.Catalogs == nil {
		return
	}
	s.Refresh(ctx, m.cfg.Catalogs)
}

// Reauthenticate re-verifies a token for an existing session.
func (m *SessionManager) Reauthenticate(ctx context.Context, s *Session, token string) bool {
	ok := m.verify(ctx, token)
	s.SetAuthenticated(ctx, ok)
	return ok
}

// ReloadCatalog handles a catalog-updated announcement. A shared cache already
// holds the refreshed collections and is kept; a process-local cache is stale
// and is dropped. Live sessions then reload without counting as activity.
func (m *SessionManager) ReloadCatalog(ctx context.Context) error {
	if m.cfg.Catalogs == nil {
		return nil
	}
	if !m.cfg.SharedCatalogCache {
		if err := m.cfg.Catalogs.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate catalog cache: %w", err)
		}
	}

	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	for _, s := range live {
		s.reload(ctx, m.cfg.Catalogs)
	}
	slog.InfoContext(ctx, "catalog reloaded", "sessions", len(live), "shared_cache", m.cfg.SharedCatalogCache)
	return nil
}

// EvictIdle removes sessions untouched since before cutoff.
func (m *SessionManager) EvictIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return n
}

// Run evicts idle sessions until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.EvictIdle(now.Add(-m.cfg.IdleTTL)); n > 0 {
				slog.Info("evicted idle globe sessions", "count", n)
			}
		}
	}
}

func (m *SessionManager) styleKey(clientID string) string {
	prefix := m.cfg.StyleKeyPrefix
	if prefix == "" {
		prefix = "globe-style"
	}
	return prefix + ":" + clientID
}

func (m *SessionManager) verify(ctx context.Context, token string) bool {
	if token == "" || m.cfg.Auth == nil {
		return false
	}
	ok, err := m.cfg.Auth.Verify(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "token verification failed", "error", err)
		return false
	}
	return ok
}
