// Package marketservice runs the player market: listings, fills, and a
// realtime ticker fed from the in-process bus.
package marketservice

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/community-experience/market-service/adapters/http"
	"statecraft/contexts/community-experience/market-service/adapters/memory"
	"statecraft/contexts/community-experience/market-service/application"
	"statecraft/contexts/community-experience/market-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Market  application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Publisher      ports.EventPublisher
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Publisher:      deps.Publisher,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Market: service,
			Logger: deps.Logger,
		},
		Market: service,
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Publisher:      publisher,
		Idempotency:    store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
