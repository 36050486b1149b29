package workflows_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/globeview/internal/adapters/memory"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
	"github.com/samirrijal/globeview/internal/workflows"
)

type stubSource struct {
	err error
}

func (s stubSource) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Organization{{ID: "o1", Name: "Hemp Co"}, {ID: "o2", Name: "Berlin Greens"}}, nil
}

func (s stubSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Product{{ID: "p1", Name: "Tote Bag"}}, nil
}

type countingPublisher struct {
	mu    sync.Mutex
	calls []workflows.CatalogCounts
	err   error
}

func (p *countingPublisher) PublishStyleChanged(ctx context.Context, sessionID, renderKey string, style domain.StyleConfig) error {
	return nil
}

func (p *countingPublisher) PublishLayerToggled(ctx context.Context, sessionID string, layer domain.Layer) error {
	return nil
}

func (p *countingPublisher) PublishMarkersRecomputed(ctx context.Context, sessionID string, markerCount int) error {
	return nil
}

func (p *countingPublisher) PublishCatalogUpdated(ctx context.Context, organizations, products int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, workflows.CatalogCounts{Organizations: organizations, Products: products})
	return p.err
}

func TestCatalogRefreshWorkflow_WarmsAndAnnounces(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	cache := memory.New()
	pub := &countingPublisher{}
	env.RegisterWorkflow(workflows.CatalogRefreshWorkflow)
	env.RegisterActivity(&workflows.CatalogActivities{
		Catalogs:  usecases.NewCatalogService(stubSource{}, cache, 60),
		Publisher: pub,
	})

	env.ExecuteWorkflow(workflows.CatalogRefreshWorkflow, workflows.RefreshInput{Reason: "test"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var counts workflows.CatalogCounts
	require.NoError(t, env.GetWorkflowResult(&counts))
	assert.Equal(t, workflows.CatalogCounts{Organizations: 2, Products: 1}, counts)
	assert.Equal(t, []workflows.CatalogCounts{counts}, pub.calls)

	_, err := cache.Get(context.Background(), usecases.CacheKeyOrganizations)
	assert.NoError(t, err, "organizations should be cached")
}

func TestCatalogRefreshWorkflow_AnnounceFailureIsNotFatal(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	pub := &countingPublisher{err: errors.New("nats down")}
	env.RegisterWorkflow(workflows.CatalogRefreshWorkflow)
	env.RegisterActivity(&workflows.CatalogActivities{
		Catalogs:  usecases.NewCatalogService(stubSource{}, memory.New(), 60),
		Publisher: pub,
	})

	env.ExecuteWorkflow(workflows.CatalogRefreshWorkflow, workflows.RefreshInput{Reason: "test"})

	require.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())
	assert.NotEmpty(t, pub.calls)
}

func TestCatalogRefreshWorkflow_WarmFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	pub := &countingPublisher{}
	env.RegisterWorkflow(workflows.CatalogRefreshWorkflow)
	env.RegisterActivity(&workflows.CatalogActivities{
		Catalogs:  usecases.NewCatalogService(stubSource{err: errors.New("backend down")}, memory.New(), 60),
		Publisher: pub,
	})

	env.ExecuteWorkflow(workflows.CatalogRefreshWorkflow, workflows.RefreshInput{Reason: "test"})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
	assert.Empty(t, pub.calls, "nothing is announced when the warm fails")
}

func TestAnnounceCatalog_NoPublisher(t *testing.T) {
	a := &workflows.CatalogActivities{}
	assert.NoError(t, a.AnnounceCatalog(context.Background(), workflows.CatalogCounts{Organizations: 1}))
}
