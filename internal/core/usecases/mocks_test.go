package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// --- Mock EntitySource ---

type mockEntitySource struct {
	listOrgsFn     func(ctx context.Context) ([]domain.Organization, error)
	listProductsFn func(ctx context.Context) ([]domain.Product, error)
}

func (m *mockEntitySource) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if m.listOrgsFn != nil {
		return m.listOrgsFn(ctx)
	}
	return nil, nil
}

func (m *mockEntitySource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

// --- Mock CountrySource ---

type mockCountrySource struct {
	fetchFn func(ctx context.Context) ([]domain.CountryPolygon, error)
}

func (m *mockCountrySource) FetchCountries(ctx context.Context) ([]domain.CountryPolygon, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return nil, nil
}

// --- In-memory KeyValueStore / CacheService ---

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.puts++
	return nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return m.Put(ctx, key, value)
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock Authenticator ---

type mockAuth struct {
	verifyFn func(ctx context.Context, token string) (bool, error)
}

func (m *mockAuth) Verify(ctx context.Context, token string) (bool, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, token)
	}
	return false, errors.New("not configured")
}

// --- Recording EventPublisher ---

type recordingPublisher struct {
	mu         sync.Mutex
	styleKeys  []string
	toggled    []domain.LayerID
	recomputed []int
	catalog    int
}

func (p *recordingPublisher) PublishStyleChanged(ctx context.Context, sessionID, renderKey string, style domain.StyleConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styleKeys = append(p.styleKeys, renderKey)
	return nil
}

func (p *recordingPublisher) PublishLayerToggled(ctx context.Context, sessionID string, layer domain.Layer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggled = append(p.toggled, layer.ID)
	return nil
}

func (p *recordingPublisher) PublishMarkersRecomputed(ctx context.Context, sessionID string, markerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recomputed = append(p.recomputed, markerCount)
	return nil
}

func (p *recordingPublisher) PublishCatalogUpdated(ctx context.Context, organizations, products int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog++
	return nil
}

// --- Fixtures ---

func strPtr(s string) *string { return &s }

func fixtureCatalog() domain.Catalog {
	return domain.Catalog{
		Organizations: []domain.Organization{
			{ID: "o1", Name: "Hemp Co", Description: "Fibres", Location: strPtr("Paris, France")},
			{ID: "o2", Name: "Atlantis Labs", Description: "Deep sea", Location: strPtr("Atlantis")},
			{ID: "o3", Name: "Nowhere Inc", Description: "No address", Location: nil},
			{ID: "o4", Name: "Blank Ltd", Description: "Blank", Location: strPtr("   ")},
			{ID: "o5", Name: "Berlin Greens", Description: "Urban farm", Location: strPtr("Berlin, Germany")},
		},
		Products: []domain.Product{
			{ID: "p1", Name: "Tote Bag", Description: "Canvas", Price: 12.5, CompanyID: strPtr("o1")},
			{ID: "p2", Name: "Cap", Description: "Green", Price: 20, Company: &domain.ProductCompany{Name: "berlin greens"}},
			{ID: "p3", Name: "Orphan Mug", Description: "No owner", Price: 8},
			{ID: "p4", Name: "Sticker", Description: "Ownerless org", Price: 1, CompanyID: strPtr("o3")},
		},
	}
}

func fixtureLayers() []domain.Layer {
	return []domain.Layer{
		{ID: "organizations", Name: "Organizations", Color: "#10b981", EntityType: domain.MarkerOrganization, MarkerSize: 0.6, Enabled: true},
		{ID: "shops", Name: "Shops", Color: "#f59e0b", EntityType: domain.MarkerProduct, MarkerSize: 0.4, Enabled: true},
	}
}
