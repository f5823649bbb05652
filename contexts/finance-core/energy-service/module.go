// Package energyservice dispatches player-owned plants and batteries.
package energyservice

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/finance-core/energy-service/adapters/http"
	"statecraft/contexts/finance-core/energy-service/adapters/memory"
	"statecraft/contexts/finance-core/energy-service/application"
	"statecraft/contexts/finance-core/energy-service/domain/entities"
	"statecraft/contexts/finance-core/energy-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Energy  application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.AssetRepository
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
			Energy: service,
			Logger: deps.Logger,
		},
		Energy: service,
	}
}

func NewInMemoryModule(seed []entities.Asset, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
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
