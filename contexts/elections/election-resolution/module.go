// Package electionresolution projects state races onto the electoral map and
// resolves a deterministic national outcome.
package electionresolution

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/elections/election-resolution/adapters/http"
	"statecraft/contexts/elections/election-resolution/adapters/memory"
	"statecraft/contexts/elections/election-resolution/application"
	"statecraft/contexts/elections/election-resolution/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Elections application.Service
	Store     *memory.Store
}

type Dependencies struct {
	Repository     ports.ResultRepository
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
			Elections: service,
			Logger:    deps.Logger,
		},
		Elections: service,
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
