package lobbysystem

import (
	"context"
	"errors"
	"math"
	"testing"

	governmentstructure "statecraft/contexts/legislation/government-structure"
	domainerrors "statecraft/contexts/legislation/lobby-system/domain/errors"
	"statecraft/contexts/legislation/lobby-system/ports"
)

func newTestModule(t *testing.T) Module {
	t.Helper()
	government, err := governmentstructure.NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed government tables: %v", err)
	}
	return NewInMemoryModule(nil, government.Structure, nil)
}

func createOffer(t *testing.T, module Module, key string, input ports.CreateOfferInput) ports.LobbyOffer {
	t.Helper()
	offer, _, err := module.Offers.CreateOffer(context.Background(), key, input)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	return offer
}

func TestSettleVotePaysMatchingOffers(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "oil", DesiredStance: "aye", BasePayment: 10,
	})
	createOffer(t, module, "offer-2", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "rail", DesiredStance: "aye", BasePayment: 2.5,
	})
	createOffer(t, module, "offer-3", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "coal", DesiredStance: "nay", BasePayment: 100,
	})

	settlement, replayed, err := module.Offers.SettleVote(ctx, "settle-1", ports.SettleVoteInput{
		BillID: "bill-1", Chamber: "house", MemberID: "member-ca", State: "CA", Stance: "aye",
	})
	if err != nil {
		t.Fatalf("settle vote: %v", err)
	}
	if replayed {
		t.Fatalf("first settlement flagged replayed")
	}
	if settlement.SeatCount != 52 {
		t.Fatalf("california seat count = %d, want 52", settlement.SeatCount)
	}
	want := 10*52 + 2.5*52
	if math.Abs(settlement.Total-want) > 1e-9 {
		t.Fatalf("total = %v, want %v", settlement.Total, want)
	}
	if len(settlement.Payments) != 2 {
		t.Fatalf("payment rows = %d, want 2", len(settlement.Payments))
	}

	var rowSum float64
	for _, payment := range settlement.Payments {
		rowSum += payment.Amount
	}
	if math.Abs(settlement.Total-rowSum) > 1e-9 {
		t.Fatalf("total %v does not equal row sum %v", settlement.Total, rowSum)
	}

	payments, err := module.Offers.ListPaymentsByBill(ctx, "bill-1")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("persisted payments = %d, want 2", len(payments))
	}
}

func TestSettleVoteReplaysAndConflicts(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "oil", DesiredStance: "aye", BasePayment: 10,
	})

	input := ports.SettleVoteInput{
		BillID: "bill-1", Chamber: "house", MemberID: "member-tx", State: "TX", Stance: "aye",
	}
	first, _, err := module.Offers.SettleVote(ctx, "settle-1", input)
	if err != nil {
		t.Fatalf("settle vote: %v", err)
	}

	second, replayed, err := module.Offers.SettleVote(ctx, "settle-1", input)
	if err != nil {
		t.Fatalf("replay settle: %v", err)
	}
	if !replayed {
		t.Fatalf("same key and payload must replay")
	}
	if second.SettlementID != first.SettlementID || second.Total != first.Total {
		t.Fatalf("replay returned a different settlement")
	}

	payments, err := module.Offers.ListPaymentsByBill(ctx, "bill-1")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("replay duplicated payment rows: %d", len(payments))
	}

	conflicting := input
	conflicting.Stance = "nay"
	if _, _, err := module.Offers.SettleVote(ctx, "settle-1", conflicting); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("same key with new payload: got %v, want ErrIdempotencyConflict", err)
	}
}

func TestSettleVoteAbstainPaysNothing(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "oil", DesiredStance: "aye", BasePayment: 10,
	})

	settlement, _, err := module.Offers.SettleVote(ctx, "settle-abstain", ports.SettleVoteInput{
		BillID: "bill-1", Chamber: "house", MemberID: "member-ny", State: "NY", Stance: "abstain",
	})
	if err != nil {
		t.Fatalf("settle abstain: %v", err)
	}
	if settlement.Total != 0 || len(settlement.Payments) != 0 {
		t.Fatalf("abstain paid out: total=%v rows=%d", settlement.Total, len(settlement.Payments))
	}
}

func TestSettleVotePaysNonVotingDelegate(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "oil", DesiredStance: "aye", BasePayment: 10,
	})

	// The DC delegate carries zero tally weight but one house seat, so the
	// lobby still pays on it.
	settlement, _, err := module.Offers.SettleVote(ctx, "settle-dc", ports.SettleVoteInput{
		BillID: "bill-1", Chamber: "house", MemberID: "member-dc", State: "DC", Stance: "aye",
	})
	if err != nil {
		t.Fatalf("settle dc vote: %v", err)
	}
	if settlement.SeatCount != 1 || settlement.Total != 10 {
		t.Fatalf("dc settlement seats=%d total=%v, want 1 seat paying 10", settlement.SeatCount, settlement.Total)
	}
}

func TestConsumeVoteCastEventDedup(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "senate", LobbyID: "oil", DesiredStance: "nay", BasePayment: 7,
	})

	event := ports.VoteCastEvent{
		VoteID:   "vote-1",
		BillID:   "bill-1",
		Chamber:  "senate",
		MemberID: "member-wy",
		State:    "WY",
		Stance:   "nay",
	}
	first, _, err := module.Offers.ConsumeVoteCastEvent(ctx, "event-1", event)
	if err != nil {
		t.Fatalf("consume event: %v", err)
	}
	if first.Total != 14 {
		t.Fatalf("total = %v, want 14 (7 per senate seat)", first.Total)
	}

	second, replayed, err := module.Offers.ConsumeVoteCastEvent(ctx, "event-1", event)
	if err != nil {
		t.Fatalf("redeliver event: %v", err)
	}
	if !replayed || second.SettlementID != first.SettlementID {
		t.Fatalf("redelivery must replay the original settlement")
	}

	payments, err := module.Offers.ListPaymentsByBill(ctx, "bill-1")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("redelivery duplicated payment rows: %d", len(payments))
	}
}

func TestCloseOfferStopsPayouts(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	offer := createOffer(t, module, "offer-1", ports.CreateOfferInput{
		BillID: "bill-1", Chamber: "house", LobbyID: "oil", DesiredStance: "aye", BasePayment: 10,
	})
	if _, err := module.Offers.CloseOffer(ctx, offer.OfferID); err != nil {
		t.Fatalf("close offer: %v", err)
	}
	if _, err := module.Offers.CloseOffer(ctx, offer.OfferID); !errors.Is(err, domainerrors.ErrOfferClosed) {
		t.Fatalf("double close: got %v, want ErrOfferClosed", err)
	}

	settlement, _, err := module.Offers.SettleVote(ctx, "settle-1", ports.SettleVoteInput{
		BillID: "bill-1", Chamber: "house", MemberID: "member-ca", State: "CA", Stance: "aye",
	})
	if err != nil {
		t.Fatalf("settle vote: %v", err)
	}
	if settlement.Total != 0 {
		t.Fatalf("closed offer still paid: %v", settlement.Total)
	}
}
