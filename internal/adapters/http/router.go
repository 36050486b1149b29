package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/globeview/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// withTimeout bounds a handler's UserContext.
func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: hover and viewport events are chatty, so allow more than a
	// plain REST API would.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ws"
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Static tables
	v1.Get("/layers", ListLayersHandler(deps))
	v1.Get("/style/presets", ListPresetsHandler(deps))
	v1.Get("/countries", CountriesHandler(deps))

	// Globe sessions: 15s per-request timeout on mutating routes
	v1.Post("/sessions", withTimeout(CreateSessionHandler(deps)))
	sess := v1.Group("/sessions/:id")
	sess.Get("", GetSessionHandler(deps))
	sess.Delete("", DeleteSessionHandler(deps))
	sess.Get("/markers", SessionMarkersHandler(deps))
	sess.Get("/layers", SessionLayersHandler(deps))
	sess.Post("/layers/:layer/toggle", withTimeout(ToggleLayerHandler(deps)))
	sess.Put("/viewport", withTimeout(ViewportHandler(deps)))
	sess.Put("/auth", withTimeout(AuthHandler(deps)))
	sess.Post("/refresh", withTimeout(RefreshHandler(deps)))
	sess.Put("/hover", HoverHandler(deps))
	sess.Delete("/hover", LeaveHandler(deps))
	sess.Put("/selection", SelectHandler(deps))
	sess.Delete("/selection", CloseSelectionHandler(deps))
	sess.Get("/style", GetStyleHandler(deps))
	sess.Patch("/style", withTimeout(PatchStyleHandler(deps)))
	sess.Post("/style/preset/:name", withTimeout(ApplyPresetHandler(deps)))
	sess.Post("/style/reset", withTimeout(ResetStyleHandler(deps)))
	sess.Post("/style/save", withTimeout(SaveStyleHandler(deps)))

	// GraphQL
	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app, DefaultSpecPath)

	// WebSocket
	app.Use("/ws", WebSocketUpgrade(deps))
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
