package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	chatservice "statecraft/contexts/community-experience/chat-service"
	chatports "statecraft/contexts/community-experience/chat-service/ports"
	marketservice "statecraft/contexts/community-experience/market-service"
	electionresolution "statecraft/contexts/elections/election-resolution"
	electionspostgres "statecraft/contexts/elections/election-resolution/adapters/postgres"
	bankservice "statecraft/contexts/finance-core/bank-service"
	bankpostgres "statecraft/contexts/finance-core/bank-service/adapters/postgres"
	bankworkers "statecraft/contexts/finance-core/bank-service/application/workers"
	energyservice "statecraft/contexts/finance-core/energy-service"
	consultingservice "statecraft/contexts/internal-ops/consulting-service"
	billvoting "statecraft/contexts/legislation/bill-voting"
	votingpostgres "statecraft/contexts/legislation/bill-voting/adapters/postgres"
	votingworkers "statecraft/contexts/legislation/bill-voting/application/workers"
	governmentstructure "statecraft/contexts/legislation/government-structure"
	lobbysystem "statecraft/contexts/legislation/lobby-system"
	lobbypostgres "statecraft/contexts/legislation/lobby-system/adapters/postgres"
	lobbyworkers "statecraft/contexts/legislation/lobby-system/application/workers"
	moderationservice "statecraft/contexts/moderation-safety/moderation-service"
	moderationapp "statecraft/contexts/moderation-safety/moderation-service/application"
	crimeservice "statecraft/contexts/underworld/crime-service"
	"statecraft/internal/platform/config"
	"statecraft/internal/platform/db"
	"statecraft/internal/platform/httpserver"
	"statecraft/internal/platform/messaging"
	"statecraft/internal/platform/ratelimit"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	bus      *messaging.Bus

	// Set only in the single-process (memory-backed) mode, where no
	// separate worker process exists to drain the outbox or roll interest.
	relay      *votingworkers.OutboxRelay
	settlement *lobbyworkers.SettlementConsumer
	accrual    *bankworkers.InterestAccrual

	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	relay        votingworkers.OutboxRelay
	settlement   lobbyworkers.SettlementConsumer
	accrual      bankworkers.InterestAccrual
	relayOn      bool
	accrualOn    bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	government, err := governmentstructure.NewSeedModule(logger)
	if err != nil {
		return nil, err
	}
	moderation, err := moderationservice.NewInMemoryModule(nil, logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)

	var filter chatports.ProfanityFilter
	if cfg.EnableChatModeration {
		filter = chatModerationFilter(moderation.Filter)
	}
	chat := chatservice.NewInMemoryModule(filter, bus, logger)
	market := marketservice.NewInMemoryModule(bus, logger)
	energy := energyservice.NewInMemoryModule(nil, logger)
	crime := crimeservice.NewInMemoryModule(logger)
	consulting := consultingservice.NewInMemoryModule(logger)

	app := &APIApp{
		bus:          bus,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}

	var (
		voting    billvoting.Module
		lobby     lobbysystem.Module
		elections electionresolution.Module
		bank      bankservice.Module
	)
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg

		votingRepo := votingpostgres.NewRepository(pg.DB, logger)
		if err := votingRepo.AutoMigrate(); err != nil {
			return nil, err
		}
		voting = billvoting.NewModule(billvoting.Dependencies{
			Bills:          votingRepo,
			Votes:          votingRepo,
			Seats:          government.Structure,
			Idempotency:    votingRepo,
			Outbox:         votingRepo,
			Clock:          votingpostgres.SystemClock{},
			IDGen:          votingpostgres.UUIDGenerator{},
			IdempotencyTTL: 24 * time.Hour,
			Logger:         logger,
		})

		lobbyRepo := lobbypostgres.NewRepository(pg.DB, logger)
		if err := lobbyRepo.AutoMigrate(); err != nil {
			return nil, err
		}
		lobby = lobbysystem.NewModule(lobbysystem.Dependencies{
			Repository:     lobbyRepo,
			Seats:          government.Structure,
			Idempotency:    lobbyRepo,
			EventDedup:     lobbyRepo,
			Outbox:         lobbyRepo,
			Clock:          lobbypostgres.SystemClock{},
			IDGen:          lobbypostgres.UUIDGenerator{},
			IdempotencyTTL: 24 * time.Hour,
			EventDedupTTL:  24 * time.Hour,
			Logger:         logger,
		})

		electionsRepo := electionspostgres.NewRepository(pg.DB, logger)
		if err := electionsRepo.AutoMigrate(); err != nil {
			return nil, err
		}
		elections = electionresolution.NewModule(electionresolution.Dependencies{
			Repository:     electionsRepo,
			Idempotency:    electionsRepo,
			Clock:          electionspostgres.SystemClock{},
			IDGen:          electionspostgres.UUIDGenerator{},
			IdempotencyTTL: 24 * time.Hour,
			Logger:         logger,
		})

		bankRepo := bankpostgres.NewRepository(pg.DB, logger)
		if err := bankRepo.AutoMigrate(); err != nil {
			return nil, err
		}
		bank = bankservice.NewModule(bankservice.Dependencies{
			Repository:     bankRepo,
			Idempotency:    bankRepo,
			Clock:          bankpostgres.SystemClock{},
			IDGen:          bankpostgres.UUIDGenerator{},
			IdempotencyTTL: 24 * time.Hour,
			Logger:         logger,
		})
	} else {
		voting = billvoting.NewInMemoryModule(nil, government.Structure, logger)
		lobby = lobbysystem.NewInMemoryModule(nil, government.Structure, logger)
		elections = electionresolution.NewInMemoryModule(logger)
		bank = bankservice.NewInMemoryModule(logger)

		// Without a worker process the API drains its own outbox and
		// settles lobby payments in-process.
		if cfg.EnableOutboxRelay {
			app.relay = &votingworkers.OutboxRelay{
				Outbox:    voting.Store,
				Publisher: bus,
				Clock:     voting.Store,
				BatchSize: 100,
				Logger:    logger,
			}
			app.settlement = &lobby.Consumer
		}
		if cfg.EnableInterestAccrual {
			app.accrual = &bank.Accrual
		}
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimitWindow, cfg.RateLimitRequests)
	app.server = httpserver.New(httpserver.Modules{
		Government: government,
		Voting:     voting,
		Lobby:      lobby,
		Elections:  elections,
		Bank:       bank,
		Energy:     energy,
		Crime:      crime,
		Chat:       chat,
		Market:     market,
		Consulting: consulting,
		Moderation: moderation,
	}, limiter, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	government, err := governmentstructure.NewSeedModule(logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	lobbyRepo := lobbypostgres.NewRepository(pg.DB, logger)
	bankRepo := bankpostgres.NewRepository(pg.DB, logger)

	lobby := lobbysystem.NewModule(lobbysystem.Dependencies{
		Repository:     lobbyRepo,
		Seats:          government.Structure,
		Idempotency:    lobbyRepo,
		EventDedup:     lobbyRepo,
		Outbox:         lobbyRepo,
		Clock:          lobbypostgres.SystemClock{},
		IDGen:          lobbypostgres.UUIDGenerator{},
		IdempotencyTTL: 24 * time.Hour,
		EventDedupTTL:  24 * time.Hour,
		Logger:         logger,
	})
	bank := bankservice.NewModule(bankservice.Dependencies{
		Repository:     bankRepo,
		Idempotency:    bankRepo,
		Clock:          bankpostgres.SystemClock{},
		IDGen:          bankpostgres.UUIDGenerator{},
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})

	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		relay: votingworkers.OutboxRelay{
			Outbox:    votingRepo,
			Publisher: bus,
			Clock:     votingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		settlement:   lobby.Consumer,
		accrual:      bank.Accrual,
		relayOn:      cfg.EnableOutboxRelay,
		accrualOn:    cfg.EnableInterestAccrual,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.relay != nil {
		if err := a.settlement.Start(ctx, a.bus); err != nil {
			return err
		}
		go a.runRelay(ctx)
	}
	if a.accrual != nil {
		go a.accrual.Run(ctx, time.Hour)
	}
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) runRelay(ctx context.Context) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = a.relay.RunOnce(ctx)
		}
	}
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.settlement.Start(ctx, w.bus); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay", w.relayOn,
		"interest_accrual", w.accrualOn,
	)

	lastAccrual := time.Now()
	for {
		if w.relayOn {
			if err := w.relay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.accrualOn && time.Since(lastAccrual) >= time.Hour {
			if err := w.accrual.RunOnce(ctx); err != nil {
				return err
			}
			lastAccrual = time.Now()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// chatModerationFilter bridges the moderation screening service into the
// chat context's ProfanityFilter port without coupling the two packages.
func chatModerationFilter(filter moderationapp.Service) chatservice.FilterFunc {
	return func(ctx context.Context, text string) (chatports.ScreenResult, error) {
		result, err := filter.Screen(ctx, text)
		if err != nil {
			return chatports.ScreenResult{}, err
		}
		return chatports.ScreenResult{Verdict: result.Verdict, Masked: result.Masked}, nil
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
