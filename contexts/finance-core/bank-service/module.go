// Package bankservice holds player loans and deposits and rolls daily
// interest forward.
package bankservice

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/finance-core/bank-service/adapters/http"
	"statecraft/contexts/finance-core/bank-service/adapters/memory"
	"statecraft/contexts/finance-core/bank-service/application"
	"statecraft/contexts/finance-core/bank-service/application/workers"
	"statecraft/contexts/finance-core/bank-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Bank    application.Service
	Accrual workers.InterestAccrual
	Store   *memory.Store
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
	var clock func() time.Time
	if deps.Clock != nil {
		clock = deps.Clock.Now
	}
	return Module{
		Handler: httpadapter.Handler{
			Bank:   service,
			Logger: deps.Logger,
		},
		Bank: service,
		Accrual: workers.InterestAccrual{
			Service: service,
			Clock:   clock,
			Logger:  deps.Logger,
		},
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
