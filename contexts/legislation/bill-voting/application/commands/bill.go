package commands

import (
	"context"
	"strings"

	application "statecraft/contexts/legislation/bill-voting/application"
	"statecraft/contexts/legislation/bill-voting/domain/entities"
	domainerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
)

// CreateBillCommand registers a draft bill in a chamber.
type CreateBillCommand struct {
	SessionID      string
	Chamber        string
	Title          string
	SponsorID      string
	IdempotencyKey string
}

// OpenVotingCommand moves a draft bill onto the floor.
type OpenVotingCommand struct {
	BillID         string
	ActorID        string
	IdempotencyKey string
}

func (uc BillUseCase) CreateBill(ctx context.Context, cmd CreateBillCommand) (entities.Bill, error) {
	logger := application.ResolveLogger(uc.Logger)
	chamber := strings.ToLower(strings.TrimSpace(cmd.Chamber))
	if strings.TrimSpace(cmd.Title) == "" ||
		strings.TrimSpace(cmd.SponsorID) == "" ||
		(chamber != "house" && chamber != "senate") {
		return entities.Bill{}, domainerrors.ErrInvalidBillInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Bill{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCommand(map[string]string{
		"op":         "create_bill",
		"session_id": strings.TrimSpace(cmd.SessionID),
		"chamber":    chamber,
		"title":      strings.TrimSpace(cmd.Title),
		"sponsor_id": strings.TrimSpace(cmd.SponsorID),
	})
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Bill{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Bill{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Bills.GetBill(ctx, record.EntityID)
	}

	billID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Bill{}, err
	}
	bill := entities.Bill{
		BillID:    billID,
		SessionID: strings.TrimSpace(cmd.SessionID),
		Chamber:   chamber,
		Title:     strings.TrimSpace(cmd.Title),
		SponsorID: strings.TrimSpace(cmd.SponsorID),
		Status:    entities.BillStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Bills.SaveBill(ctx, bill); err != nil {
		return entities.Bill{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, bill.BillID, now); err != nil {
		return entities.Bill{}, err
	}
	logger.Info("bill created",
		"event", "legislation_bill_created",
		"module", "legislation/bill-voting",
		"layer", "application",
		"bill_id", bill.BillID,
		"chamber", bill.Chamber,
		"sponsor_id", bill.SponsorID,
	)
	return bill, nil
}

func (uc BillUseCase) OpenVoting(ctx context.Context, cmd OpenVotingCommand) (entities.Bill, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.BillID) == "" {
		return entities.Bill{}, domainerrors.ErrInvalidBillInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Bill{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCommand(map[string]string{
		"op":      "open_voting",
		"bill_id": strings.TrimSpace(cmd.BillID),
	})
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Bill{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Bill{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Bills.GetBill(ctx, record.EntityID)
	}

	bill, err := uc.Bills.GetBill(ctx, strings.TrimSpace(cmd.BillID))
	if err != nil {
		return entities.Bill{}, err
	}
	switch bill.Status {
	case entities.BillStatusDraft:
	case entities.BillStatusVoting:
		// Reopening an open bill is a no-op, not an error.
	default:
		return entities.Bill{}, domainerrors.ErrBillAlreadyClosed
	}
	bill.Status = entities.BillStatusVoting
	bill.UpdatedAt = now
	if err := uc.Bills.SaveBill(ctx, bill); err != nil {
		return entities.Bill{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, bill.BillID, now); err != nil {
		return entities.Bill{}, err
	}
	logger.Info("bill voting opened",
		"event", "legislation_bill_voting_opened",
		"module", "legislation/bill-voting",
		"layer", "application",
		"bill_id", bill.BillID,
		"chamber", bill.Chamber,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return bill, nil
}
