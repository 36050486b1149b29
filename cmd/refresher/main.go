package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/globeview/internal/adapters/backend"
	"github.com/samirrijal/globeview/internal/adapters/memory"
	natsadapter "github.com/samirrijal/globeview/internal/adapters/nats"
	"github.com/samirrijal/globeview/internal/adapters/valkey"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/core/usecases"
	"github.com/samirrijal/globeview/internal/pkg/config"
	"github.com/samirrijal/globeview/internal/pkg/logging"
	"github.com/samirrijal/globeview/internal/workflows"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "refresher",
	Short: "Catalog refresh worker and trigger",
	Long: `Runs the Temporal catalog refresh workflow, which refetches organizations
and products from the backend, writes them to the shared cache and announces
the update to API instances over NATS.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load("globeview-refresher")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

// workerCmd hosts the workflow and its activities.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the catalog refresh worker",
	RunE:  runWorker,
}

// triggerCmd starts one refresh run and optionally waits for it.
var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Start a catalog refresh",
	RunE:  runTrigger,
}

var (
	triggerReason string
	triggerWait   bool
)

func init() {
	triggerCmd.Flags().StringVar(&triggerReason, "reason", "manual", "reason recorded on the workflow run")
	triggerCmd.Flags().BoolVar(&triggerWait, "wait", false, "block until the refresh completes")
	rootCmd.AddCommand(workerCmd, triggerCmd)
}

func dialTemporal() (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
		Logger:   slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	return c, nil
}

func runWorker(cmd *cobra.Command, args []string) error {
	c, err := dialTemporal()
	if err != nil {
		return err
	}
	defer c.Close()

	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		// An in-process cache only proves the backend is reachable.
		slog.Warn("valkey unavailable, warming an in-memory cache", "error", err)
		cache = memory.New()
	} else {
		defer vc.Close()
		cache = vc
	}

	acts := &workflows.CatalogActivities{
		Catalogs: usecases.NewCatalogService(
			backend.New(cfg.Backend.ServerURL, cfg.Backend.CountriesURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second),
			cache, cfg.Backend.CacheTTL),
	}
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, refreshes will not be announced", "error", err)
	} else {
		defer pub.Close()
		acts.Publisher = pub
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.CatalogRefreshWorkflow)
	w.RegisterActivity(acts)

	slog.Info("refresher worker started", "queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	return nil
}

func runTrigger(cmd *cobra.Command, args []string) error {
	c, err := dialTemporal()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflows.RefreshWorkflowID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.CatalogRefreshWorkflow, workflows.RefreshInput{Reason: triggerReason})
	if err != nil {
		return fmt.Errorf("start refresh: %w", err)
	}
	slog.Info("catalog refresh started", "workflow", run.GetID(), "run", run.GetRunID())

	if !triggerWait {
		return nil
	}
	var counts workflows.CatalogCounts
	if err := run.Get(ctx, &counts); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d organizations, %d products\n", counts.Organizations, counts.Products)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
