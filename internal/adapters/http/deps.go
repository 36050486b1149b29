package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/globeview/internal/adapters/postgres"
	"github.com/samirrijal/globeview/internal/adapters/valkey"
	"github.com/samirrijal/globeview/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sessions *usecases.SessionManager
	NATS     *nats.Conn    // optional; enables the WebSocket event relay
	DB       *postgres.DB  // optional; only with the postgres storage backend
	Cache    *valkey.Cache // optional
}
