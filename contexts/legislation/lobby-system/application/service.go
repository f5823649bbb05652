package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"time"

	domainerrors "statecraft/contexts/legislation/lobby-system/domain/errors"
	"statecraft/contexts/legislation/lobby-system/ports"
	"statecraft/internal/shared/events"
)

const (
	OfferStatusOpen   = "open"
	OfferStatusClosed = "closed"
)

type Service struct {
	Repo           ports.Repository
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

func (s Service) CreateOffer(
	ctx context.Context,
	idempotencyKey string,
	input ports.CreateOfferInput,
) (ports.LobbyOffer, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.LobbyOffer{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if !isValidOfferInput(input) {
		return ports.LobbyOffer{}, false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":             "create_offer",
		"bill_id":        strings.TrimSpace(input.BillID),
		"chamber":        normalize(input.Chamber),
		"lobby_id":       strings.TrimSpace(input.LobbyID),
		"desired_stance": normalize(input.DesiredStance),
		"base_payment":   round4(input.BasePayment),
	})

	record, found, err := s.Idempotency.GetRecord(ctx, strings.TrimSpace(idempotencyKey), now)
	if err != nil {
		return ports.LobbyOffer{}, false, err
	}
	if found {
		if record.RequestHash != requestHash {
			return ports.LobbyOffer{}, false, domainerrors.ErrIdempotencyConflict
		}
		var replayed ports.LobbyOffer
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return ports.LobbyOffer{}, false, err
		}
		return replayed, true, nil
	}

	offerID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.LobbyOffer{}, false, err
	}
	offer := ports.LobbyOffer{
		OfferID:       strings.TrimSpace(offerID),
		BillID:        strings.TrimSpace(input.BillID),
		Chamber:       normalize(input.Chamber),
		LobbyID:       strings.TrimSpace(input.LobbyID),
		DesiredStance: normalize(input.DesiredStance),
		BasePayment:   round4(input.BasePayment),
		Status:        OfferStatusOpen,
		CreatedAt:     now,
	}
	if err := s.Repo.CreateOffer(ctx, offer); err != nil {
		return ports.LobbyOffer{}, false, err
	}
	if err := s.putIdempotency(ctx, idempotencyKey, requestHash, offer, now); err != nil {
		return ports.LobbyOffer{}, false, err
	}

	resolveLogger(s.Logger).Info("lobby offer created",
		"event", "lobby_offer_created",
		"module", "legislation/lobby-system",
		"layer", "application",
		"offer_id", offer.OfferID,
		"bill_id", offer.BillID,
		"lobby_id", offer.LobbyID,
		"desired_stance", offer.DesiredStance,
		"base_payment", offer.BasePayment,
	)
	return offer, false, nil
}

func (s Service) CloseOffer(ctx context.Context, offerID string) (ports.LobbyOffer, error) {
	offer, err := s.Repo.GetOffer(ctx, strings.TrimSpace(offerID))
	if err != nil {
		return ports.LobbyOffer{}, err
	}
	if offer.Status == OfferStatusClosed {
		return ports.LobbyOffer{}, domainerrors.ErrOfferClosed
	}
	now := s.now()
	offer.Status = OfferStatusClosed
	offer.ClosedAt = &now
	if err := s.Repo.UpdateOffer(ctx, offer); err != nil {
		return ports.LobbyOffer{}, err
	}
	resolveLogger(s.Logger).Info("lobby offer closed",
		"event", "lobby_offer_closed",
		"module", "legislation/lobby-system",
		"layer", "application",
		"offer_id", offer.OfferID,
		"bill_id", offer.BillID,
	)
	return offer, nil
}

func (s Service) ListOffersByBill(ctx context.Context, billID string) ([]ports.LobbyOffer, error) {
	if strings.TrimSpace(billID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListOffersByBill(ctx, strings.TrimSpace(billID))
}

func (s Service) ListPaymentsByBill(ctx context.Context, billID string) ([]ports.LobbyPayment, error) {
	if strings.TrimSpace(billID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListPaymentsByBill(ctx, strings.TrimSpace(billID))
}

// CalculatePayment is the pure payout rule: each open offer whose desired
// stance matches the cast stance pays base payment times the delegation seat
// count. An abstention matches nothing and always totals zero.
func CalculatePayment(offers []ports.LobbyOffer, stance string, seatCount int) (float64, []ports.LobbyOffer) {
	stance = normalize(stance)
	if stance == "" || stance == "abstain" || seatCount <= 0 {
		return 0, nil
	}
	var total float64
	eligible := make([]ports.LobbyOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.Status != OfferStatusOpen || normalize(offer.DesiredStance) != stance {
			continue
		}
		total += round4(offer.BasePayment * float64(seatCount))
		eligible = append(eligible, offer)
	}
	return round4(total), eligible
}

// SettleVote pays every eligible open offer on the bill for one cast vote.
// Re-settling with the same key replays the recorded settlement.
func (s Service) SettleVote(
	ctx context.Context,
	idempotencyKey string,
	input ports.SettleVoteInput,
) (ports.Settlement, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.Settlement{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if !isValidSettleInput(input) {
		return ports.Settlement{}, false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":        "settle_vote",
		"bill_id":   strings.TrimSpace(input.BillID),
		"chamber":   normalize(input.Chamber),
		"member_id": strings.TrimSpace(input.MemberID),
		"state":     strings.ToUpper(strings.TrimSpace(input.State)),
		"stance":    normalize(input.Stance),
	})

	record, found, err := s.Idempotency.GetRecord(ctx, strings.TrimSpace(idempotencyKey), now)
	if err != nil {
		return ports.Settlement{}, false, err
	}
	if found {
		if record.RequestHash != requestHash {
			return ports.Settlement{}, false, domainerrors.ErrIdempotencyConflict
		}
		var replayed ports.Settlement
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return ports.Settlement{}, false, err
		}
		return replayed, true, nil
	}

	seatCount := 0
	if normalize(input.Stance) != "abstain" {
		seatCount, err = s.Seats.SeatCount(ctx, input.Chamber, input.State)
		if err != nil {
			return ports.Settlement{}, false, err
		}
	}
	offers, err := s.Repo.ListOffersByBill(ctx, strings.TrimSpace(input.BillID))
	if err != nil {
		return ports.Settlement{}, false, err
	}
	total, eligible := CalculatePayment(offers, input.Stance, seatCount)

	settlementID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Settlement{}, false, err
	}
	settledAt := input.CastAt.UTC()
	if settledAt.IsZero() {
		settledAt = now
	}

	payments := make([]ports.LobbyPayment, 0, len(eligible))
	for _, offer := range eligible {
		paymentID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return ports.Settlement{}, false, err
		}
		payments = append(payments, ports.LobbyPayment{
			PaymentID: strings.TrimSpace(paymentID),
			OfferID:   offer.OfferID,
			BillID:    offer.BillID,
			LobbyID:   offer.LobbyID,
			MemberID:  strings.TrimSpace(input.MemberID),
			Stance:    normalize(input.Stance),
			SeatCount: seatCount,
			Amount:    round4(offer.BasePayment * float64(seatCount)),
			PaidAt:    settledAt,
		})
	}
	if len(payments) > 0 {
		if err := s.Repo.CreatePayments(ctx, payments); err != nil {
			return ports.Settlement{}, false, err
		}
	}

	settlement := ports.Settlement{
		SettlementID: strings.TrimSpace(settlementID),
		BillID:       strings.TrimSpace(input.BillID),
		Chamber:      normalize(input.Chamber),
		MemberID:     strings.TrimSpace(input.MemberID),
		State:        strings.ToUpper(strings.TrimSpace(input.State)),
		Stance:       normalize(input.Stance),
		SeatCount:    seatCount,
		Total:        total,
		Payments:     payments,
		SettledAt:    settledAt,
	}
	if err := s.appendSettledOutbox(ctx, settlement); err != nil {
		return ports.Settlement{}, false, err
	}
	if err := s.putIdempotency(ctx, idempotencyKey, requestHash, settlement, now); err != nil {
		return ports.Settlement{}, false, err
	}

	resolveLogger(s.Logger).Info("lobby vote settled",
		"event", "lobby_vote_settled",
		"module", "legislation/lobby-system",
		"layer", "application",
		"settlement_id", settlement.SettlementID,
		"bill_id", settlement.BillID,
		"member_id", settlement.MemberID,
		"stance", settlement.Stance,
		"payments", len(settlement.Payments),
		"total", settlement.Total,
	)
	return settlement, false, nil
}

// ConsumeVoteCastEvent settles payouts for a bill.vote.cast bus event. The
// dedup store shields against at-least-once delivery; the idempotency store
// replays the original settlement on redelivery.
func (s Service) ConsumeVoteCastEvent(
	ctx context.Context,
	eventID string,
	event ports.VoteCastEvent,
) (ports.Settlement, bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" || strings.TrimSpace(event.BillID) == "" || strings.TrimSpace(event.MemberID) == "" {
		return ports.Settlement{}, false, domainerrors.ErrInvalidInput
	}
	if event.Retracted {
		// Retraction reversal is out of scope; a retracted cast pays nothing.
		return ports.Settlement{}, false, nil
	}

	payloadHash := hashPayload(map[string]any{
		"bill_id":   event.BillID,
		"member_id": event.MemberID,
		"state":     event.State,
		"stance":    event.Stance,
	})
	if s.EventDedup != nil {
		if _, err := s.EventDedup.ReserveEvent(ctx, eventID, payloadHash, s.now().Add(s.eventDedupTTL())); err != nil {
			return ports.Settlement{}, false, err
		}
	}

	castAt, _ := time.Parse(time.RFC3339, event.CastAt)
	return s.SettleVote(ctx, "event:"+eventID, ports.SettleVoteInput{
		BillID:   event.BillID,
		Chamber:  event.Chamber,
		MemberID: event.MemberID,
		State:    event.State,
		Stance:   event.Stance,
		CastAt:   castAt,
	})
}

func (s Service) appendSettledOutbox(ctx context.Context, settlement ports.Settlement) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, events.Envelope{
		EventID:        strings.TrimSpace(eventID),
		EventType:      "lobby.payment.settled",
		SourceService:  "lobby-system",
		OccurredAtUTC:  settlement.SettledAt.UTC(),
		CorrelationID:  strings.TrimSpace(eventID),
		EntityType:     "settlement",
		EntityID:       settlement.SettlementID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"settlement_id": settlement.SettlementID,
			"bill_id":       settlement.BillID,
			"member_id":     settlement.MemberID,
			"stance":        settlement.Stance,
			"seat_count":    settlement.SeatCount,
			"total":         settlement.Total,
			"payments":      len(settlement.Payments),
			"settled_at":    settlement.SettledAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s Service) putIdempotency(
	ctx context.Context,
	key string,
	requestHash string,
	response any,
	now time.Time,
) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(key),
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) eventDedupTTL() time.Duration {
	if s.EventDedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.EventDedupTTL
}

func isValidOfferInput(input ports.CreateOfferInput) bool {
	chamber := normalize(input.Chamber)
	stance := normalize(input.DesiredStance)
	return strings.TrimSpace(input.BillID) != "" &&
		strings.TrimSpace(input.LobbyID) != "" &&
		(chamber == "house" || chamber == "senate") &&
		(stance == "aye" || stance == "nay") &&
		input.BasePayment > 0
}

func isValidSettleInput(input ports.SettleVoteInput) bool {
	stance := normalize(input.Stance)
	return strings.TrimSpace(input.BillID) != "" &&
		strings.TrimSpace(input.MemberID) != "" &&
		strings.TrimSpace(input.State) != "" &&
		(stance == "aye" || stance == "nay" || stance == "abstain")
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func hashPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
