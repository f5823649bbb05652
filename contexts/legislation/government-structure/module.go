// Package governmentstructure exposes the seeded chamber and delegation
// tables that weight every legislative calculation in the game.
package governmentstructure

import (
	"log/slog"

	httpadapter "statecraft/contexts/legislation/government-structure/adapters/http"
	"statecraft/contexts/legislation/government-structure/adapters/memory"
	"statecraft/contexts/legislation/government-structure/application"
	"statecraft/contexts/legislation/government-structure/ports"
	"statecraft/contexts/legislation/government-structure/seed"
)

type Module struct {
	Handler   httpadapter.Handler
	Structure application.Service
	Store     *memory.Store
}

type Dependencies struct {
	Repository ports.StructureRepository
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{Repo: deps.Repository}
	return Module{
		Handler: httpadapter.Handler{
			Structure: service,
			Logger:    deps.Logger,
		},
		Structure: service,
	}
}

// NewSeedModule wires the module over the embedded seed tables.
func NewSeedModule(logger *slog.Logger) (Module, error) {
	chambers, delegations, err := seed.Load()
	if err != nil {
		return Module{}, err
	}
	store := memory.NewStore(chambers, delegations)
	module := NewModule(Dependencies{
		Repository: store,
		Logger:     logger,
	})
	module.Store = store
	return module, nil
}
