// Package consultingservice tracks consulting engagements and serves the
// revenue and utilization metrics shown on the business dashboard.
package consultingservice

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/internal-ops/consulting-service/adapters/http"
	"statecraft/contexts/internal-ops/consulting-service/adapters/memory"
	"statecraft/contexts/internal-ops/consulting-service/application"
	"statecraft/contexts/internal-ops/consulting-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Consulting application.Service
	Store      *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Consulting: service,
			Logger:     deps.Logger,
		},
		Consulting: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
