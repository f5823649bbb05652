// Package crimeservice backs the underworld UI cards: facilities, smuggling
// routes, and the communication channels that expose them.
package crimeservice

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/underworld/crime-service/adapters/http"
	"statecraft/contexts/underworld/crime-service/adapters/memory"
	"statecraft/contexts/underworld/crime-service/application"
	"statecraft/contexts/underworld/crime-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Crime   application.Service
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
	return Module{
		Handler: httpadapter.Handler{
			Crime:  service,
			Logger: deps.Logger,
		},
		Crime: service,
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
