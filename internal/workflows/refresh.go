package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// RefreshWorkflowID is the fixed id of the catalog refresh workflow, so that
// concurrent triggers collapse into one run.
const RefreshWorkflowID = "catalog-refresh"

// RefreshInput is the input for the catalog refresh workflow.
type RefreshInput struct {
	Reason string
}

// CatalogRefreshWorkflow warms the entity cache and then announces the update.
// A failed warm is retried by Temporal; nothing is announced unless the cache
// holds the new collections.
func CatalogRefreshWorkflow(ctx workflow.Context, input RefreshInput) (CatalogCounts, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting catalog refresh", "reason", input.Reason)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 2 * time.Second,
			MaximumAttempts: 5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var counts CatalogCounts
	if err := workflow.ExecuteActivity(ctx, "WarmCatalog").Get(ctx, &counts); err != nil {
		return CatalogCounts{}, err
	}

	if err := workflow.ExecuteActivity(ctx, "AnnounceCatalog", counts).Get(ctx, nil); err != nil {
		// The cache is already warm; sessions pick it up on their next refresh.
		logger.Warn("catalog announce failed", "error", err)
	}

	logger.Info("Catalog refreshed", "organizations", counts.Organizations, "products", counts.Products)
	return counts, nil
}
