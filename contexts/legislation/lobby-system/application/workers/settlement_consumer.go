package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"statecraft/contexts/legislation/lobby-system/application"
	"statecraft/contexts/legislation/lobby-system/ports"
	"statecraft/internal/shared/events"
)

// Subscriber is what the settlement consumer needs from the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// SettlementConsumer pays lobby offers out as ballots land, by consuming
// bill.vote.cast from the bus.
type SettlementConsumer struct {
	Service application.Service
	Logger  *slog.Logger
}

func (c SettlementConsumer) Start(ctx context.Context, bus Subscriber) error {
	return bus.Subscribe(ctx, "bill.vote.cast", "lobby-settlement", c.Handle)
}

func (c SettlementConsumer) Handle(ctx context.Context, envelope events.Envelope) error {
	raw, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}
	var event ports.VoteCastEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return err
	}

	settlement, replayed, err := c.Service.ConsumeVoteCastEvent(ctx, envelope.EventID, event)
	if err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.Info("vote cast event settled",
			"event", "lobby_settlement_consumed",
			"module", "legislation/lobby-system",
			"layer", "application/workers",
			"source_event_id", envelope.EventID,
			"settlement_id", settlement.SettlementID,
			"replayed", replayed,
			"total", settlement.Total,
		)
	}
	return nil
}
