// Package moderationservice screens player-authored text against a word
// table before chat and market listings accept it.
package moderationservice

import (
	"context"
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/moderation-safety/moderation-service/adapters/http"
	"statecraft/contexts/moderation-safety/moderation-service/adapters/memory"
	"statecraft/contexts/moderation-safety/moderation-service/application"
	"statecraft/contexts/moderation-safety/moderation-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Filter  application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.WordRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Filter: service,
			Logger: deps.Logger,
		},
		Filter: service,
	}
}

// NewInMemoryModule seeds the table with words. A nil slice loads the
// stock table used by the game.
func NewInMemoryModule(words []ports.Word, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Clock:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	if words == nil {
		words = DefaultWords()
	}
	for _, word := range words {
		if _, err := module.Filter.AddWord(context.Background(), "seed-"+word.Term, word.Term, word.Severity); err != nil {
			return Module{}, err
		}
	}
	return module, nil
}

// DefaultWords is the stock moderation table. Terms are folded the same way
// incoming tokens are, so leet-spelled variants land on these entries.
func DefaultWords() []ports.Word {
	return []ports.Word{
		{Term: "fuck", Severity: ports.SeverityBlock},
		{Term: "shit", Severity: ports.SeverityBlock},
		{Term: "bitch", Severity: ports.SeverityBlock},
		{Term: "bastard", Severity: ports.SeverityBlock},
		{Term: "ass", Severity: ports.SeverityMask},
		{Term: "damn", Severity: ports.SeverityMask},
		{Term: "hell", Severity: ports.SeverityMask},
		{Term: "crap", Severity: ports.SeverityMask},
	}
}
