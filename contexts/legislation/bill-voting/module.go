// Package billvoting implements weighted chamber voting on bills: seat
// weighted ballots, quorum and passage resolution, recount flags, and the
// senate tiebreaker.
package billvoting

import (
	"log/slog"
	"time"

	httpadapter "statecraft/contexts/legislation/bill-voting/adapters/http"
	"statecraft/contexts/legislation/bill-voting/adapters/memory"
	"statecraft/contexts/legislation/bill-voting/application/commands"
	"statecraft/contexts/legislation/bill-voting/application/queries"
	"statecraft/contexts/legislation/bill-voting/domain/entities"
	"statecraft/contexts/legislation/bill-voting/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Bills   commands.BillUseCase
	Tallies queries.TallyUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Bills          ports.BillRepository
	Votes          ports.BallotRepository
	Seats          ports.SeatSource
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	billUseCase := commands.BillUseCase{
		Bills:          deps.Bills,
		Votes:          deps.Votes,
		Seats:          deps.Seats,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	tallyUseCase := queries.TallyUseCase{
		Bills: deps.Bills,
		Votes: deps.Votes,
		Seats: deps.Seats,
	}
	return Module{
		Handler: httpadapter.Handler{
			Bills:   billUseCase,
			Tallies: tallyUseCase,
			Logger:  deps.Logger,
		},
		Bills:   billUseCase,
		Tallies: tallyUseCase,
	}
}

func NewInMemoryModule(seed []entities.Bill, seats ports.SeatSource, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Bills:          store,
		Votes:          store,
		Seats:          seats,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
