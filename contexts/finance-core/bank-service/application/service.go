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

	domainerrors "statecraft/contexts/finance-core/bank-service/domain/errors"
	"statecraft/contexts/finance-core/bank-service/ports"
)

// MaxLoanPrincipal caps a single loan. The game economy breaks down past
// this, so the bank refuses rather than scales.
const MaxLoanPrincipal = 10_000_000

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (s Service) TakeLoan(
	ctx context.Context,
	idempotencyKey string,
	input ports.TakeLoanInput,
) (ports.Loan, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.Loan{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if strings.TrimSpace(input.OwnerID) == "" || input.APR <= 0 {
		return ports.Loan{}, false, domainerrors.ErrInvalidInput
	}
	if input.Principal <= 0 || input.Principal > MaxLoanPrincipal {
		return ports.Loan{}, false, domainerrors.ErrPrincipalOutOfBounds
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":        "take_loan",
		"owner_id":  strings.TrimSpace(input.OwnerID),
		"principal": round4(input.Principal),
		"apr":       round4(input.APR),
	})
	var replayed ports.Loan
	if found, err := s.replay(ctx, idempotencyKey, requestHash, now, &replayed); err != nil {
		return ports.Loan{}, false, err
	} else if found {
		return replayed, true, nil
	}

	loanID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Loan{}, false, err
	}
	loan := ports.Loan{
		LoanID:      strings.TrimSpace(loanID),
		OwnerID:     strings.TrimSpace(input.OwnerID),
		Principal:   round4(input.Principal),
		Outstanding: round4(input.Principal),
		APR:         round4(input.APR),
		Status:      ports.LoanStatusActive,
		OpenedAt:    now,
		AccruedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.SaveLoan(ctx, loan); err != nil {
		return ports.Loan{}, false, err
	}
	if err := s.record(ctx, idempotencyKey, requestHash, loan, now); err != nil {
		return ports.Loan{}, false, err
	}

	resolveLogger(s.Logger).Info("loan opened",
		"event", "bank_loan_opened",
		"module", "finance-core/bank-service",
		"layer", "application",
		"loan_id", loan.LoanID,
		"owner_id", loan.OwnerID,
		"principal", loan.Principal,
		"apr", loan.APR,
	)
	return loan, false, nil
}

// RepayLoan applies a partial or full repayment. Overpay clamps to the
// outstanding balance; paying the balance off transitions the loan to repaid
// exactly once.
func (s Service) RepayLoan(
	ctx context.Context,
	idempotencyKey string,
	loanID string,
	amount float64,
) (ports.Loan, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.Loan{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if strings.TrimSpace(loanID) == "" || amount <= 0 {
		return ports.Loan{}, false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":      "repay_loan",
		"loan_id": strings.TrimSpace(loanID),
		"amount":  round4(amount),
	})
	var replayed ports.Loan
	if found, err := s.replay(ctx, idempotencyKey, requestHash, now, &replayed); err != nil {
		return ports.Loan{}, false, err
	} else if found {
		return replayed, true, nil
	}

	loan, err := s.Repo.GetLoan(ctx, strings.TrimSpace(loanID))
	if err != nil {
		return ports.Loan{}, false, err
	}
	if loan.Status == ports.LoanStatusRepaid {
		return ports.Loan{}, false, domainerrors.ErrLoanRepaid
	}

	payment := round4(math.Min(amount, loan.Outstanding))
	loan.Outstanding = round4(loan.Outstanding - payment)
	if loan.Outstanding <= 0 {
		loan.Outstanding = 0
		loan.Status = ports.LoanStatusRepaid
	}
	loan.UpdatedAt = now
	if err := s.Repo.SaveLoan(ctx, loan); err != nil {
		return ports.Loan{}, false, err
	}
	if err := s.record(ctx, idempotencyKey, requestHash, loan, now); err != nil {
		return ports.Loan{}, false, err
	}

	resolveLogger(s.Logger).Info("loan repayment applied",
		"event", "bank_loan_repaid",
		"module", "finance-core/bank-service",
		"layer", "application",
		"loan_id", loan.LoanID,
		"payment", payment,
		"outstanding", loan.Outstanding,
		"status", loan.Status,
	)
	return loan, false, nil
}

func (s Service) OpenDeposit(
	ctx context.Context,
	idempotencyKey string,
	input ports.OpenDepositInput,
) (ports.Deposit, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.Deposit{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if strings.TrimSpace(input.OwnerID) == "" || input.Balance < 0 || input.APY <= 0 {
		return ports.Deposit{}, false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":       "open_deposit",
		"owner_id": strings.TrimSpace(input.OwnerID),
		"balance":  round4(input.Balance),
		"apy":      round4(input.APY),
	})
	var replayed ports.Deposit
	if found, err := s.replay(ctx, idempotencyKey, requestHash, now, &replayed); err != nil {
		return ports.Deposit{}, false, err
	} else if found {
		return replayed, true, nil
	}

	depositID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Deposit{}, false, err
	}
	deposit := ports.Deposit{
		DepositID: strings.TrimSpace(depositID),
		OwnerID:   strings.TrimSpace(input.OwnerID),
		Balance:   round4(input.Balance),
		APY:       round4(input.APY),
		OpenedAt:  now,
		AccruedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
		return ports.Deposit{}, false, err
	}
	if err := s.record(ctx, idempotencyKey, requestHash, deposit, now); err != nil {
		return ports.Deposit{}, false, err
	}

	resolveLogger(s.Logger).Info("deposit opened",
		"event", "bank_deposit_opened",
		"module", "finance-core/bank-service",
		"layer", "application",
		"deposit_id", deposit.DepositID,
		"owner_id", deposit.OwnerID,
		"balance", deposit.Balance,
		"apy", deposit.APY,
	)
	return deposit, false, nil
}

func (s Service) DepositFunds(
	ctx context.Context,
	idempotencyKey string,
	depositID string,
	amount float64,
) (ports.Deposit, bool, error) {
	return s.moveFunds(ctx, idempotencyKey, depositID, amount, false)
}

func (s Service) WithdrawDeposit(
	ctx context.Context,
	idempotencyKey string,
	depositID string,
	amount float64,
) (ports.Deposit, bool, error) {
	return s.moveFunds(ctx, idempotencyKey, depositID, amount, true)
}

func (s Service) moveFunds(
	ctx context.Context,
	idempotencyKey string,
	depositID string,
	amount float64,
	withdraw bool,
) (ports.Deposit, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.Deposit{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if strings.TrimSpace(depositID) == "" || amount <= 0 {
		return ports.Deposit{}, false, domainerrors.ErrInvalidInput
	}

	op := "deposit_funds"
	if withdraw {
		op = "withdraw_deposit"
	}
	now := s.now()
	requestHash := hashPayload(map[string]any{
		"op":         op,
		"deposit_id": strings.TrimSpace(depositID),
		"amount":     round4(amount),
	})
	var replayed ports.Deposit
	if found, err := s.replay(ctx, idempotencyKey, requestHash, now, &replayed); err != nil {
		return ports.Deposit{}, false, err
	} else if found {
		return replayed, true, nil
	}

	deposit, err := s.Repo.GetDeposit(ctx, strings.TrimSpace(depositID))
	if err != nil {
		return ports.Deposit{}, false, err
	}
	if withdraw {
		if round4(amount) > deposit.Balance {
			return ports.Deposit{}, false, domainerrors.ErrInsufficientFunds
		}
		deposit.Balance = round4(deposit.Balance - round4(amount))
	} else {
		deposit.Balance = round4(deposit.Balance + round4(amount))
	}
	deposit.UpdatedAt = now
	if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
		return ports.Deposit{}, false, err
	}
	if err := s.record(ctx, idempotencyKey, requestHash, deposit, now); err != nil {
		return ports.Deposit{}, false, err
	}

	resolveLogger(s.Logger).Info("deposit funds moved",
		"event", "bank_deposit_moved",
		"module", "finance-core/bank-service",
		"layer", "application",
		"deposit_id", deposit.DepositID,
		"op", op,
		"amount", round4(amount),
		"balance", deposit.Balance,
	)
	return deposit, false, nil
}

func (s Service) GetLoan(ctx context.Context, loanID string) (ports.Loan, error) {
	if strings.TrimSpace(loanID) == "" {
		return ports.Loan{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetLoan(ctx, strings.TrimSpace(loanID))
}

func (s Service) ListLoansByOwner(ctx context.Context, ownerID string) ([]ports.Loan, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListLoansByOwner(ctx, strings.TrimSpace(ownerID))
}

func (s Service) GetDeposit(ctx context.Context, depositID string) (ports.Deposit, error) {
	if strings.TrimSpace(depositID) == "" {
		return ports.Deposit{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetDeposit(ctx, strings.TrimSpace(depositID))
}

func (s Service) ListDepositsByOwner(ctx context.Context, ownerID string) ([]ports.Deposit, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListDepositsByOwner(ctx, strings.TrimSpace(ownerID))
}

// AccrueInterest rolls simple daily interest forward to asOf: deposits grow
// by balance x APY/365 per whole elapsed day, active loan balances by
// principal rate the same way. Partial days wait for the next run.
func (s Service) AccrueInterest(ctx context.Context, asOf time.Time) (int, error) {
	asOf = asOf.UTC()
	accrued := 0

	deposits, err := s.Repo.ListDeposits(ctx, 0)
	if err != nil {
		return 0, err
	}
	for _, deposit := range deposits {
		days := wholeDays(deposit.AccruedAt, asOf)
		if days < 1 {
			continue
		}
		interest := round4(deposit.Balance * deposit.APY / 365 * float64(days))
		deposit.Balance = round4(deposit.Balance + interest)
		deposit.AccruedAt = deposit.AccruedAt.Add(time.Duration(days) * 24 * time.Hour)
		deposit.UpdatedAt = asOf
		if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
			return accrued, err
		}
		accrued++
	}

	loans, err := s.Repo.ListActiveLoans(ctx, 0)
	if err != nil {
		return accrued, err
	}
	for _, loan := range loans {
		days := wholeDays(loan.AccruedAt, asOf)
		if days < 1 {
			continue
		}
		interest := round4(loan.Outstanding * loan.APR / 365 * float64(days))
		loan.Outstanding = round4(loan.Outstanding + interest)
		loan.AccruedAt = loan.AccruedAt.Add(time.Duration(days) * 24 * time.Hour)
		loan.UpdatedAt = asOf
		if err := s.Repo.SaveLoan(ctx, loan); err != nil {
			return accrued, err
		}
		accrued++
	}

	if accrued > 0 {
		resolveLogger(s.Logger).Info("interest accrued",
			"event", "bank_interest_accrued",
			"module", "finance-core/bank-service",
			"layer", "application",
			"accounts", accrued,
			"as_of", asOf.Format(time.RFC3339),
		)
	}
	return accrued, nil
}

func (s Service) replay(
	ctx context.Context,
	key string,
	requestHash string,
	now time.Time,
	out any,
) (bool, error) {
	record, found, err := s.Idempotency.GetRecord(ctx, strings.TrimSpace(key), now)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if record.RequestHash != requestHash {
		return false, domainerrors.ErrIdempotencyConflict
	}
	if err := json.Unmarshal(record.ResponsePayload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s Service) record(
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

func wholeDays(from time.Time, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
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
