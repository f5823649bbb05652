package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/legislation/bill-voting/application/commands"
	"statecraft/contexts/legislation/bill-voting/application/queries"
	"statecraft/contexts/legislation/bill-voting/domain/entities"
	httptransport "statecraft/contexts/legislation/bill-voting/transport/http"
)

type Handler struct {
	Bills   commands.BillUseCase
	Tallies queries.TallyUseCase
	Logger  *slog.Logger
}

func (h Handler) CreateBillHandler(
	ctx context.Context,
	sponsorID string,
	idempotencyKey string,
	req httptransport.CreateBillRequest,
) (httptransport.BillResponse, error) {
	bill, err := h.Bills.CreateBill(ctx, commands.CreateBillCommand{
		SessionID:      req.SessionID,
		Chamber:        req.Chamber,
		Title:          req.Title,
		SponsorID:      sponsorID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.BillResponse{}, err
	}
	return mapBill(bill), nil
}

func (h Handler) OpenVotingHandler(
	ctx context.Context,
	billID string,
	actorID string,
	idempotencyKey string,
) (httptransport.BillResponse, error) {
	bill, err := h.Bills.OpenVoting(ctx, commands.OpenVotingCommand{
		BillID:         billID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.BillResponse{}, err
	}
	return mapBill(bill), nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	billID string,
	memberID string,
	idempotencyKey string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Bills.CastVote(ctx, commands.CastVoteCommand{
		BillID:         billID,
		MemberID:       memberID,
		State:          req.State,
		Stance:         entities.Stance(req.Stance),
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	resp := mapVote(result.Vote)
	resp.Replayed = result.Replayed
	resp.WasUpdate = result.WasUpdate
	return resp, nil
}

func (h Handler) RetractVoteHandler(
	ctx context.Context,
	voteID string,
	memberID string,
	idempotencyKey string,
) error {
	return h.Bills.RetractVote(ctx, commands.RetractVoteCommand{
		VoteID:         voteID,
		MemberID:       memberID,
		IdempotencyKey: idempotencyKey,
	})
}

func (h Handler) CloseVotingHandler(
	ctx context.Context,
	billID string,
	actorID string,
	idempotencyKey string,
	req httptransport.CloseVotingRequest,
) (httptransport.TallyResponse, error) {
	tally, err := h.Bills.CloseVoting(ctx, commands.CloseVotingCommand{
		BillID:         billID,
		ActorID:        actorID,
		VPStance:       entities.Stance(req.VPStance),
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return mapTally(tally), nil
}

func (h Handler) TallyHandler(ctx context.Context, billID string) (httptransport.TallyResponse, error) {
	tally, err := h.Tallies.Tally(ctx, billID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return mapTally(tally), nil
}

func (h Handler) GetBillHandler(ctx context.Context, billID string) (httptransport.BillResponse, error) {
	bill, err := h.Tallies.GetBill(ctx, billID)
	if err != nil {
		return httptransport.BillResponse{}, err
	}
	return mapBill(bill), nil
}

func (h Handler) ListBillsHandler(ctx context.Context, sessionID string) (httptransport.BillsResponse, error) {
	bills, err := h.Tallies.ListBillsBySession(ctx, sessionID)
	if err != nil {
		return httptransport.BillsResponse{}, err
	}
	items := make([]httptransport.BillResponse, 0, len(bills))
	for _, bill := range bills {
		items = append(items, mapBill(bill))
	}
	return httptransport.BillsResponse{Items: items}, nil
}

func (h Handler) ListVotesHandler(ctx context.Context, billID string) (httptransport.VotesResponse, error) {
	votes, err := h.Tallies.ListVotes(ctx, billID)
	if err != nil {
		return httptransport.VotesResponse{}, err
	}
	items := make([]httptransport.VoteResponse, 0, len(votes))
	for _, vote := range votes {
		items = append(items, mapVote(vote))
	}
	return httptransport.VotesResponse{Items: items}, nil
}

func mapBill(bill entities.Bill) httptransport.BillResponse {
	return httptransport.BillResponse{
		BillID:    bill.BillID,
		SessionID: bill.SessionID,
		Chamber:   bill.Chamber,
		Title:     bill.Title,
		SponsorID: bill.SponsorID,
		Status:    string(bill.Status),
	}
}

func mapVote(vote entities.BallotVote) httptransport.VoteResponse {
	return httptransport.VoteResponse{
		VoteID:    vote.VoteID,
		BillID:    vote.BillID,
		Chamber:   vote.Chamber,
		MemberID:  vote.MemberID,
		State:     vote.State,
		Stance:    string(vote.Stance),
		Weight:    vote.Weight,
		Retracted: vote.Retracted,
	}
}

func mapTally(tally entities.VoteTally) httptransport.TallyResponse {
	return httptransport.TallyResponse{
		BillID:         tally.BillID,
		Chamber:        tally.Chamber,
		AyeBallots:     tally.AyeBallots,
		NayBallots:     tally.NayBallots,
		AbstainBallots: tally.AbstainBallots,
		AyeCount:       tally.AyeCount,
		NayCount:       tally.NayCount,
		SeatsTotal:     tally.SeatsTotal,
		SeatsVoting:    tally.SeatsVoting,
		QuorumSeats:    tally.QuorumSeats,
		HasQuorum:      tally.HasQuorum,
		MarginPercent:  tally.MarginPercent,
		Passed:         tally.Passed,
		NeedsRecount:   tally.NeedsRecount,
		Tiebreaker:     tally.Tiebreaker,
	}
}
