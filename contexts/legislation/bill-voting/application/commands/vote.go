package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "statecraft/contexts/legislation/bill-voting/application"
	"statecraft/contexts/legislation/bill-voting/domain/entities"
	domainerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
	"statecraft/contexts/legislation/bill-voting/ports"
)

// CastVoteCommand is the write-model input for casting or switching a floor
// vote.
type CastVoteCommand struct {
	BillID         string
	MemberID       string
	State          string
	Stance         entities.Stance
	IdempotencyKey string
}

// CastVoteResult returns final ballot state and replay/update markers that
// the transport layer maps to API semantics.
type CastVoteResult struct {
	Vote      entities.BallotVote
	Replayed  bool
	WasUpdate bool
}

// RetractVoteCommand requests a member-owned ballot retraction.
type RetractVoteCommand struct {
	VoteID         string
	MemberID       string
	IdempotencyKey string
}

// CloseVotingCommand closes the floor and resolves the bill once.
type CloseVotingCommand struct {
	BillID         string
	ActorID        string
	VPStance       entities.Stance
	IdempotencyKey string
}

// BillUseCase orchestrates bill and ballot commands: idempotent replay,
// chamber checks, seat-weighted ballots, passage resolution, and outbox
// event emission.
type BillUseCase struct {
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

// CastVote creates or updates the member's ballot on a bill. A member casts
// at most one ballot per bill; casting again switches the stance while the
// bill is still on the floor.
func (uc BillUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("ballot cast processing started",
		"event", "legislation_ballot_cast_started",
		"module", "legislation/bill-voting",
		"layer", "application",
		"bill_id", strings.TrimSpace(cmd.BillID),
		"member_id", strings.TrimSpace(cmd.MemberID),
		"state", strings.ToUpper(strings.TrimSpace(cmd.State)),
	)
	if strings.TrimSpace(cmd.BillID) == "" ||
		strings.TrimSpace(cmd.MemberID) == "" ||
		strings.TrimSpace(cmd.State) == "" ||
		!isValidStance(cmd.Stance) {
		logger.Warn("ballot cast validation failed",
			"event", "legislation_ballot_cast_validation_failed",
			"module", "legislation/bill-voting",
			"layer", "application",
			"bill_id", strings.TrimSpace(cmd.BillID),
			"member_id", strings.TrimSpace(cmd.MemberID),
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CastVoteResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCommand(map[string]string{
		"op":        "cast_vote",
		"bill_id":   strings.TrimSpace(cmd.BillID),
		"member_id": strings.TrimSpace(cmd.MemberID),
		"state":     strings.ToUpper(strings.TrimSpace(cmd.State)),
		"stance":    string(cmd.Stance),
	})
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return CastVoteResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CastVoteResult{}, domainerrors.ErrIdempotencyConflict
		}
		vote, err := uc.Votes.GetVote(ctx, record.EntityID)
		if err != nil {
			return CastVoteResult{}, err
		}
		logger.Info("ballot cast replayed",
			"event", "legislation_ballot_cast_replayed",
			"module", "legislation/bill-voting",
			"layer", "application",
			"vote_id", vote.VoteID,
			"bill_id", vote.BillID,
		)
		return CastVoteResult{Vote: vote, Replayed: true}, nil
	}

	bill, err := uc.Bills.GetBill(ctx, strings.TrimSpace(cmd.BillID))
	if err != nil {
		return CastVoteResult{}, err
	}
	if bill.Status != entities.BillStatusVoting {
		return CastVoteResult{}, domainerrors.ErrBillNotOpenForVoting
	}

	weight, err := uc.Seats.TallyWeight(ctx, bill.Chamber, cmd.State)
	if err != nil {
		return CastVoteResult{}, err
	}

	if existing, found, err := uc.Votes.GetVoteByIdentity(ctx, cmd.BillID, cmd.MemberID); err != nil {
		return CastVoteResult{}, err
	} else if found {
		existing.Stance = cmd.Stance
		existing.State = strings.ToUpper(strings.TrimSpace(cmd.State))
		existing.Weight = weight
		existing.Retracted = false
		existing.UpdatedAt = now
		if err := uc.Votes.SaveVote(ctx, existing); err != nil {
			return CastVoteResult{}, err
		}
		if err := uc.appendBallotEvent(ctx, "bill.vote.cast", bill, existing, now, map[string]any{
			"reason": "stance_switched_or_reactivated",
		}); err != nil {
			return CastVoteResult{}, err
		}
		if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, existing.VoteID, now); err != nil {
			return CastVoteResult{}, err
		}
		logger.Info("ballot updated",
			"event", "legislation_ballot_updated",
			"module", "legislation/bill-voting",
			"layer", "application",
			"vote_id", existing.VoteID,
			"bill_id", existing.BillID,
			"member_id", existing.MemberID,
			"stance", string(existing.Stance),
			"weight", existing.Weight,
		)
		return CastVoteResult{Vote: existing, WasUpdate: true}, nil
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.BallotVote{
		VoteID:    voteID,
		BillID:    strings.TrimSpace(cmd.BillID),
		Chamber:   bill.Chamber,
		MemberID:  strings.TrimSpace(cmd.MemberID),
		State:     strings.ToUpper(strings.TrimSpace(cmd.State)),
		Stance:    cmd.Stance,
		Weight:    weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.appendBallotEvent(ctx, "bill.vote.cast", bill, vote, now, nil); err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, vote.VoteID, now); err != nil {
		return CastVoteResult{}, err
	}
	logger.Info("ballot cast",
		"event", "legislation_ballot_cast",
		"module", "legislation/bill-voting",
		"layer", "application",
		"vote_id", vote.VoteID,
		"bill_id", vote.BillID,
		"member_id", vote.MemberID,
		"stance", string(vote.Stance),
		"weight", vote.Weight,
	)
	return CastVoteResult{Vote: vote}, nil
}

// RetractVote performs member-initiated ballot retraction while the bill is
// still on the floor.
func (uc BillUseCase) RetractVote(ctx context.Context, cmd RetractVoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.VoteID) == "" || strings.TrimSpace(cmd.MemberID) == "" {
		return domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCommand(map[string]string{
		"op":        "retract_vote",
		"vote_id":   strings.TrimSpace(cmd.VoteID),
		"member_id": strings.TrimSpace(cmd.MemberID),
	})
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return err
	} else if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}

	vote, err := uc.Votes.GetVote(ctx, strings.TrimSpace(cmd.VoteID))
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(vote.MemberID), strings.TrimSpace(cmd.MemberID)) {
		return domainerrors.ErrConflict
	}
	if vote.Retracted {
		return domainerrors.ErrAlreadyRetracted
	}
	bill, err := uc.Bills.GetBill(ctx, vote.BillID)
	if err != nil {
		return err
	}
	if bill.Status != entities.BillStatusVoting {
		return domainerrors.ErrBillNotOpenForVoting
	}

	vote.Retracted = true
	vote.UpdatedAt = now
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return err
	}
	if err := uc.appendBallotEvent(ctx, "bill.vote.retracted", bill, vote, now, nil); err != nil {
		return err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, vote.VoteID, now); err != nil {
		return err
	}
	logger.Info("ballot retracted",
		"event", "legislation_ballot_retracted",
		"module", "legislation/bill-voting",
		"layer", "application",
		"vote_id", vote.VoteID,
		"bill_id", vote.BillID,
		"member_id", vote.MemberID,
	)
	return nil
}

// CloseVoting tallies the floor, applies the passage rules, and transitions
// the bill status exactly once.
func (uc BillUseCase) CloseVoting(ctx context.Context, cmd CloseVotingCommand) (entities.VoteTally, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.BillID) == "" {
		return entities.VoteTally{}, domainerrors.ErrInvalidBillInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.VoteTally{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCommand(map[string]string{
		"op":        "close_voting",
		"bill_id":   strings.TrimSpace(cmd.BillID),
		"vp_stance": string(cmd.VPStance),
	})
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.VoteTally{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.VoteTally{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.resolveTally(ctx, record.EntityID, cmd.VPStance)
	}

	bill, err := uc.Bills.GetBill(ctx, strings.TrimSpace(cmd.BillID))
	if err != nil {
		return entities.VoteTally{}, err
	}
	if bill.Status != entities.BillStatusVoting {
		return entities.VoteTally{}, domainerrors.ErrBillAlreadyClosed
	}

	tally, err := uc.resolveTally(ctx, bill.BillID, cmd.VPStance)
	if err != nil {
		return entities.VoteTally{}, err
	}

	if tally.Passed {
		bill.Status = entities.BillStatusPassed
	} else {
		bill.Status = entities.BillStatusFailed
	}
	closedAt := now
	bill.ClosedAt = &closedAt
	bill.UpdatedAt = now
	if err := uc.Bills.SaveBill(ctx, bill); err != nil {
		return entities.VoteTally{}, err
	}
	if err := uc.appendBillClosedEvent(ctx, bill, tally, now); err != nil {
		return entities.VoteTally{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, bill.BillID, now); err != nil {
		return entities.VoteTally{}, err
	}
	logger.Info("bill voting closed",
		"event", "legislation_bill_closed",
		"module", "legislation/bill-voting",
		"layer", "application",
		"bill_id", bill.BillID,
		"chamber", bill.Chamber,
		"passed", tally.Passed,
		"has_quorum", tally.HasQuorum,
		"needs_recount", tally.NeedsRecount,
		"tiebreaker", tally.Tiebreaker,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return tally, nil
}

func (uc BillUseCase) resolveTally(
	ctx context.Context,
	billID string,
	vpStance entities.Stance,
) (entities.VoteTally, error) {
	bill, err := uc.Bills.GetBill(ctx, billID)
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
	return entities.ResolveTally(bill.BillID, bill.Chamber, seatsTotal, quorumFraction, ballots, vpStance), nil
}

func (uc BillUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc BillUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func (uc BillUseCase) putIdempotency(
	ctx context.Context,
	key string,
	requestHash string,
	entityID string,
	now time.Time,
) error {
	return uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(key),
		RequestHash: requestHash,
		EntityID:    entityID,
		ExpiresAt:   now.Add(uc.resolveIdempotencyTTL()),
	})
}

func isValidStance(stance entities.Stance) bool {
	switch stance {
	case entities.StanceAye, entities.StanceNay, entities.StanceAbstain:
		return true
	default:
		return false
	}
}

func hashCommand(payload map[string]string) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
