// Package lobbysystem pays lobby offers out to members the moment they cast a
// matching floor vote.
package lobbysystem

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/legislation/lobby-system/adapters/http"
	"statecraft/contexts/legislation/lobby-system/adapters/memory"
	"statecraft/contexts/legislation/lobby-system/application"
	"statecraft/contexts/legislation/lobby-system/application/workers"
	"statecraft/contexts/legislation/lobby-system/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Offers   application.Service
	Consumer workers.SettlementConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Seats          ports.SeatSource
	Idempotency    ports.IdempotencyStore
	EventDedup     ports.EventDedupStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	EventDedupTTL  time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Seats:          deps.Seats,
		Idempotency:    deps.Idempotency,
		EventDedup:     deps.EventDedup,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		EventDedupTTL:  deps.EventDedupTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Offers: service,
			Logger: deps.Logger,
		},
		Offers: service,
		Consumer: workers.SettlementConsumer{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []ports.LobbyOffer, seats ports.SeatSource, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:     store,
		Seats:          seats,
		Idempotency:    store,
		EventDedup:     store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		EventDedupTTL:  24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
