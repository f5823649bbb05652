package queries

import (
	"context"
	"strings"

	"statecraft/contexts/legislation/bill-voting/domain/entities"
	"statecraft/contexts/legislation/bill-voting/ports"
)

type TallyUseCase struct {
	Bills ports.BillRepository
	Votes ports.BallotRepository
	Seats ports.SeatSource
}

// Tally is the read-side aggregation over non-retracted ballots. It applies
// the same passage rules the close command does, without a VP stance, so
// callers can watch a live margin before the floor closes.
func (uc TallyUseCase) Tally(ctx context.Context, billID string) (entities.VoteTally, error) {
	bill, err := uc.Bills.GetBill(ctx, strings.TrimSpace(billID))
	if err != nil {
		return entities.VoteTally{}, err
	}
	seatsTotal, err := uc.Seats.SeatsTotal(ctx, bill.Chamber)
	if err != nil {
		return entities.VoteTally{}, err
	}
	quorumFraction, err := uc.Seats.QuorumFraction(ctx, bill.Chamber)
	if err != nil {
		return entities.VoteTally{}, err
	}
	ballots, err := uc.Votes.ListVotesByBill(ctx, bill.BillID)
	if err != nil {
		return entities.VoteTally{}, err
	}
	return entities.ResolveTally(bill.BillID, bill.Chamber, seatsTotal, quorumFraction, ballots, ""), nil
}

func (uc TallyUseCase) ListVotes(ctx context.Context, billID string) ([]entities.BallotVote, error) {
	return uc.Votes.ListVotesByBill(ctx, strings.TrimSpace(billID))
}

func (uc TallyUseCase) GetBill(ctx context.Context, billID string) (entities.Bill, error) {
	return uc.Bills.GetBill(ctx, strings.TrimSpace(billID))
}

func (uc TallyUseCase) ListBillsBySession(ctx context.Context, sessionID string) ([]entities.Bill, error) {
	return uc.Bills.ListBillsBySession(ctx, strings.TrimSpace(sessionID))
}
