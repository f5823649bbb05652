package billvoting

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/legislation/bill-voting/application/commands"
	"statecraft/contexts/legislation/bill-voting/domain/entities"
	domainerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
	governmentstructure "statecraft/contexts/legislation/government-structure"
)

func newTestModule(t *testing.T) Module {
	t.Helper()
	government, err := governmentstructure.NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed government tables: %v", err)
	}
	return NewInMemoryModule(nil, government.Structure, nil)
}

func openBill(t *testing.T, module Module, chamber string) entities.Bill {
	t.Helper()
	ctx := context.Background()
	bill, err := module.Bills.CreateBill(ctx, commands.CreateBillCommand{
		SessionID:      "session-118",
		Chamber:        chamber,
		Title:          "Energy Grid Modernization Act",
		SponsorID:      "member-sponsor",
		IdempotencyKey: "create-" + chamber,
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	if _, err := module.Bills.OpenVoting(ctx, commands.OpenVotingCommand{
		BillID:         bill.BillID,
		ActorID:        "speaker",
		IdempotencyKey: "open-" + bill.BillID,
	}); err != nil {
		t.Fatalf("open voting: %v", err)
	}
	return bill
}

func TestCastVoteWeightAndReplay(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "house")

	cmd := commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-ca",
		State:          "CA",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-1",
	}
	first, err := module.Bills.CastVote(ctx, cmd)
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if first.Vote.Weight != 52 {
		t.Fatalf("california house weight = %d, want 52", first.Vote.Weight)
	}
	if first.Replayed || first.WasUpdate {
		t.Fatalf("first cast flagged replayed=%v update=%v", first.Replayed, first.WasUpdate)
	}

	replay, err := module.Bills.CastVote(ctx, cmd)
	if err != nil {
		t.Fatalf("replay cast: %v", err)
	}
	if !replay.Replayed {
		t.Fatalf("same key and payload must replay")
	}
	if replay.Vote.VoteID != first.Vote.VoteID {
		t.Fatalf("replay returned a different ballot")
	}

	conflicting := cmd
	conflicting.Stance = entities.StanceNay
	if _, err := module.Bills.CastVote(ctx, conflicting); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("same key with new payload: got %v, want ErrIdempotencyConflict", err)
	}
}

func TestCastVoteSwitchesStance(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "senate")

	first, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-tx",
		State:          "TX",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-tx-1",
	})
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	switched, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-tx",
		State:          "TX",
		Stance:         entities.StanceNay,
		IdempotencyKey: "cast-tx-2",
	})
	if err != nil {
		t.Fatalf("switch stance: %v", err)
	}
	if !switched.WasUpdate {
		t.Fatalf("second cast by the same member must update, not insert")
	}
	if switched.Vote.VoteID != first.Vote.VoteID {
		t.Fatalf("stance switch created a second ballot")
	}
	if switched.Vote.Stance != entities.StanceNay {
		t.Fatalf("stance = %q after switch", switched.Vote.Stance)
	}

	votes, err := module.Tallies.ListVotes(ctx, bill.BillID)
	if err != nil {
		t.Fatalf("list votes: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("ballots on bill = %d, want 1", len(votes))
	}
}

func TestCastVoteRejectsUnknownStateAndClosedFloor(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "senate")

	if _, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-dc",
		State:          "DC",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-dc",
	}); err == nil {
		t.Fatalf("dc has no senate delegation, cast must fail")
	}

	draft, err := module.Bills.CreateBill(ctx, commands.CreateBillCommand{
		Chamber:        "house",
		Title:          "Draft Only Act",
		SponsorID:      "member-sponsor",
		IdempotencyKey: "create-draft",
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         draft.BillID,
		MemberID:       "member-ny",
		State:          "NY",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-draft",
	}); !errors.Is(err, domainerrors.ErrBillNotOpenForVoting) {
		t.Fatalf("cast on draft bill: got %v, want ErrBillNotOpenForVoting", err)
	}
}

func TestRetractVoteOwnership(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "house")

	cast, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-fl",
		State:          "FL",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-fl",
	})
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	if err := module.Bills.RetractVote(ctx, commands.RetractVoteCommand{
		VoteID:         cast.Vote.VoteID,
		MemberID:       "member-other",
		IdempotencyKey: "retract-wrong",
	}); !errors.Is(err, domainerrors.ErrConflict) {
		t.Fatalf("foreign retraction: got %v, want ErrConflict", err)
	}

	if err := module.Bills.RetractVote(ctx, commands.RetractVoteCommand{
		VoteID:         cast.Vote.VoteID,
		MemberID:       "member-fl",
		IdempotencyKey: "retract-fl",
	}); err != nil {
		t.Fatalf("retract own ballot: %v", err)
	}

	tally, err := module.Tallies.Tally(ctx, bill.BillID)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.AyeCount != 0 || tally.SeatsVoting != 0 {
		t.Fatalf("retracted ballot still tallied: ayes %d seats %d", tally.AyeCount, tally.SeatsVoting)
	}

	if err := module.Bills.RetractVote(ctx, commands.RetractVoteCommand{
		VoteID:         cast.Vote.VoteID,
		MemberID:       "member-fl",
		IdempotencyKey: "retract-fl-again",
	}); !errors.Is(err, domainerrors.ErrAlreadyRetracted) {
		t.Fatalf("double retraction: got %v, want ErrAlreadyRetracted", err)
	}
}

func TestCloseVotingTransitionsOnce(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "house")

	// Enough states to clear the 218 seat quorum line.
	states := []string{"CA", "TX", "FL", "NY", "PA", "IL", "OH", "GA", "NC", "MI", "NJ", "VA", "WA"}
	for _, state := range states {
		if _, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
			BillID:         bill.BillID,
			MemberID:       "member-" + state,
			State:          state,
			Stance:         entities.StanceAye,
			IdempotencyKey: "cast-" + state,
		}); err != nil {
			t.Fatalf("cast %s: %v", state, err)
		}
	}

	tally, err := module.Bills.CloseVoting(ctx, commands.CloseVotingCommand{
		BillID:         bill.BillID,
		ActorID:        "speaker",
		IdempotencyKey: "close-1",
	})
	if err != nil {
		t.Fatalf("close voting: %v", err)
	}
	if !tally.HasQuorum || !tally.Passed {
		t.Fatalf("expected passage, got quorum=%v passed=%v seats=%d", tally.HasQuorum, tally.Passed, tally.SeatsVoting)
	}

	closed, err := module.Tallies.GetBill(ctx, bill.BillID)
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if closed.Status != entities.BillStatusPassed {
		t.Fatalf("bill status = %q after close", closed.Status)
	}
	if closed.ClosedAt == nil {
		t.Fatalf("closed bill missing closed_at")
	}

	replayed, err := module.Bills.CloseVoting(ctx, commands.CloseVotingCommand{
		BillID:         bill.BillID,
		ActorID:        "speaker",
		IdempotencyKey: "close-1",
	})
	if err != nil {
		t.Fatalf("replay close: %v", err)
	}
	if replayed.Passed != tally.Passed || replayed.AyeCount != tally.AyeCount {
		t.Fatalf("replayed close returned a different tally")
	}

	if _, err := module.Bills.CloseVoting(ctx, commands.CloseVotingCommand{
		BillID:         bill.BillID,
		ActorID:        "speaker",
		IdempotencyKey: "close-2",
	}); !errors.Is(err, domainerrors.ErrBillAlreadyClosed) {
		t.Fatalf("second close with new key: got %v, want ErrBillAlreadyClosed", err)
	}

	if _, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-late",
		State:          "AZ",
		Stance:         entities.StanceNay,
		IdempotencyKey: "cast-late",
	}); !errors.Is(err, domainerrors.ErrBillNotOpenForVoting) {
		t.Fatalf("cast after close: got %v, want ErrBillNotOpenForVoting", err)
	}
}

func TestCloseVotingEmitsOutboxEvents(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	bill := openBill(t, module, "house")

	if _, err := module.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         bill.BillID,
		MemberID:       "member-ca",
		State:          "CA",
		Stance:         entities.StanceAye,
		IdempotencyKey: "cast-ca",
	}); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if _, err := module.Bills.CloseVoting(ctx, commands.CloseVotingCommand{
		BillID:         bill.BillID,
		ActorID:        "speaker",
		IdempotencyKey: "close-1",
	}); err != nil {
		t.Fatalf("close voting: %v", err)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 100)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	var sawCast, sawClosed bool
	for _, message := range pending {
		switch message.EventType {
		case "bill.vote.cast":
			sawCast = true
		case "bill.closed":
			sawClosed = true
		}
	}
	if !sawCast || !sawClosed {
		t.Fatalf("outbox missing events: cast=%v closed=%v", sawCast, sawClosed)
	}
}
