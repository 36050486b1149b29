package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/globeview/internal/adapters/backend"
	"github.com/samirrijal/globeview/internal/adapters/http"
	"github.com/samirrijal/globeview/internal/adapters/memory"
	natsadapter "github.com/samirrijal/globeview/internal/adapters/nats"
	"github.com/samirrijal/globeview/internal/adapters/postgres"
	"github.com/samirrijal/globeview/internal/adapters/valkey"
	"github.com/samirrijal/globeview/internal/core/ports"
	"github.com/samirrijal/globeview/internal/core/usecases"
	"github.com/samirrijal/globeview/internal/pkg/config"
	"github.com/samirrijal/globeview/internal/pkg/geospatial"
	"github.com/samirrijal/globeview/internal/pkg/logging"
	"github.com/samirrijal/globeview/internal/pkg/metrics"
	"github.com/samirrijal/globeview/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("globeview-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var catalogCache ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, caching in memory", "error", err)
		catalogCache = memory.New()
	} else {
		defer cache.Close()
		catalogCache = cache
	}

	// Saved styles
	var db *postgres.DB
	var styles ports.KeyValueStore
	switch cfg.Storage.Backend {
	case "postgres":
		db, err = postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		styles = postgres.NewKVStore(db)
	case "valkey":
		if cache == nil {
			log.Fatalf("storage backend valkey requires a reachable valkey at %s", cfg.Valkey.Addr)
		}
		styles = cache
	default:
		styles = memory.New()
	}
	slog.Info("style storage ready", "backend", cfg.Storage.Backend)

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		publisher = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Backend
	client := backend.New(cfg.Backend.ServerURL, cfg.Backend.CountriesURL,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)

	resolver := geospatial.NewResolver(geospatial.WithObserver(func(t geospatial.Tier) {
		metrics.LocationResolutions.WithLabelValues(string(t)).Inc()
	}))

	countries := usecases.NewCountryService(client)
	countries.Start(ctx)

	sessions := usecases.NewSessionManager(usecases.SessionConfig{
		Catalogs:           usecases.NewCatalogService(client, catalogCache, cfg.Backend.CacheTTL),
		SharedCatalogCache: cache != nil,
		Countries:          countries,
		Aggregator:         usecases.NewMarkerAggregator(resolver),
		Styles:             styles,
		StyleKeyPrefix:     cfg.Storage.StyleKey,
		Auth:               client,
		Publisher:          publisher,
		IdleTTL:            time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute,
	})
	go sessions.Run(ctx)

	// Catalog refresh announcements from the refresher worker
	if sub, err := natsadapter.NewSubscriber(cfg.NATS.URL); err != nil {
		slog.Warn("catalog subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		if err := sub.SubscribeCatalogUpdates(ctx, sessions.ReloadCatalog); err != nil {
			slog.Warn("catalog subscription failed", "error", err)
		}
	}

	// DB pool metrics
	if db != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					metrics.UpdateDBPoolMetrics(db.Pool.Stat())
				}
			}
		}()
	}

	deps := &http.Dependencies{
		Sessions: sessions,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Globeview API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		ExposeHeaders:    "ETag, Link, Location",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
