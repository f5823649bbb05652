package commands

import (
	"context"
	"time"

	"statecraft/contexts/legislation/bill-voting/domain/entities"
	"statecraft/internal/shared/events"
)

// Command-side events are keyed by bill so bill-scoped consumers (the lobby
// settlement worker) see a stable ordering.
func (uc BillUseCase) appendBallotEvent(
	ctx context.Context,
	eventType string,
	bill entities.Bill,
	vote entities.BallotVote,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"vote_id":     vote.VoteID,
		"bill_id":     vote.BillID,
		"chamber":     vote.Chamber,
		"member_id":   vote.MemberID,
		"state":       vote.State,
		"stance":      string(vote.Stance),
		"weight":      vote.Weight,
		"retracted":   vote.Retracted,
		"occurred_at": occurredAt.Format(time.RFC3339),
	}
	for key, value := range metadata {
		payload[key] = value
	}
	return uc.Outbox.AppendOutbox(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "bill-voting",
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  eventID,
		EntityType:     "bill",
		EntityID:       bill.BillID,
		PayloadVersion: 1,
		Payload:        payload,
	})
}

func (uc BillUseCase) appendBillClosedEvent(
	ctx context.Context,
	bill entities.Bill,
	tally entities.VoteTally,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      "bill.closed",
		SourceService:  "bill-voting",
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  eventID,
		EntityType:     "bill",
		EntityID:       bill.BillID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"bill_id":        bill.BillID,
			"chamber":        bill.Chamber,
			"status":         string(bill.Status),
			"passed":         tally.Passed,
			"has_quorum":     tally.HasQuorum,
			"needs_recount":  tally.NeedsRecount,
			"tiebreaker":     tally.Tiebreaker,
			"aye_count":      tally.AyeCount,
			"nay_count":      tally.NayCount,
			"margin_percent": tally.MarginPercent,
			"occurred_at":    occurredAt.Format(time.RFC3339),
		},
	})
}
