// Package chatservice hosts channel chat with realtime fanout over the
// in-process bus. Messages pass the moderation word filter before storage.
package chatservice

import (
	"context"
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/community-experience/chat-service/adapters/http"
	"statecraft/contexts/community-experience/chat-service/adapters/memory"
	"statecraft/contexts/community-experience/chat-service/application"
	"statecraft/contexts/community-experience/chat-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Chat    application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Filter         ports.ProfanityFilter
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
		Filter:         deps.Filter,
		Publisher:      deps.Publisher,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Chat:   service,
			Logger: deps.Logger,
		},
		Chat: service,
	}
}

func NewInMemoryModule(filter ports.ProfanityFilter, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Filter:         filter,
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

// FilterFunc adapts a plain screening function to the ProfanityFilter port,
// which keeps the moderation context out of this package's imports.
type FilterFunc func(ctx context.Context, text string) (ports.ScreenResult, error)

func (f FilterFunc) Screen(ctx context.Context, text string) (ports.ScreenResult, error) {
	return f(ctx, text)
}
