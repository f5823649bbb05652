package bankservice

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"statecraft/contexts/finance-core/bank-service/application"
	domainerrors "statecraft/contexts/finance-core/bank-service/domain/errors"
	"statecraft/contexts/finance-core/bank-service/ports"
)

func takeLoan(t *testing.T, module Module, key string, principal float64, apr float64) ports.Loan {
	t.Helper()
	loan, _, err := module.Bank.TakeLoan(context.Background(), key, ports.TakeLoanInput{
		OwnerID:   "player-1",
		Principal: principal,
		APR:       apr,
	})
	if err != nil {
		t.Fatalf("take loan: %v", err)
	}
	return loan
}

func TestTakeLoanBoundsAndReplay(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	if _, _, err := module.Bank.TakeLoan(ctx, "loan-1", ports.TakeLoanInput{
		OwnerID: "player-1", Principal: 0, APR: 0.05,
	}); !errors.Is(err, domainerrors.ErrPrincipalOutOfBounds) {
		t.Fatalf("zero principal: got %v, want ErrPrincipalOutOfBounds", err)
	}
	if _, _, err := module.Bank.TakeLoan(ctx, "loan-1", ports.TakeLoanInput{
		OwnerID: "player-1", Principal: application.MaxLoanPrincipal + 1, APR: 0.05,
	}); !errors.Is(err, domainerrors.ErrPrincipalOutOfBounds) {
		t.Fatalf("oversized principal: got %v, want ErrPrincipalOutOfBounds", err)
	}
	if _, _, err := module.Bank.TakeLoan(ctx, "loan-1", ports.TakeLoanInput{
		OwnerID: "player-1", Principal: 1000, APR: 0,
	}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("zero apr: got %v, want ErrInvalidInput", err)
	}

	first := takeLoan(t, module, "loan-1", 1000, 0.05)
	if first.Outstanding != 1000 || first.Status != ports.LoanStatusActive {
		t.Fatalf("fresh loan: %+v", first)
	}

	second, replayed, err := module.Bank.TakeLoan(ctx, "loan-1", ports.TakeLoanInput{
		OwnerID: "player-1", Principal: 1000, APR: 0.05,
	})
	if err != nil {
		t.Fatalf("replay take loan: %v", err)
	}
	if !replayed || second.LoanID != first.LoanID {
		t.Fatalf("same key must replay the original loan")
	}

	loans, err := module.Bank.ListLoansByOwner(ctx, "player-1")
	if err != nil {
		t.Fatalf("list loans: %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("replay opened a second loan: %d", len(loans))
	}
}

func TestRepayLoanLifecycle(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	loan := takeLoan(t, module, "loan-1", 1000, 0.05)

	partial, _, err := module.Bank.RepayLoan(ctx, "repay-1", loan.LoanID, 400)
	if err != nil {
		t.Fatalf("partial repay: %v", err)
	}
	if partial.Outstanding != 600 || partial.Status != ports.LoanStatusActive {
		t.Fatalf("after partial repay: %+v", partial)
	}

	// Overpay clamps to the outstanding balance and closes the loan.
	full, _, err := module.Bank.RepayLoan(ctx, "repay-2", loan.LoanID, 900)
	if err != nil {
		t.Fatalf("full repay: %v", err)
	}
	if full.Outstanding != 0 || full.Status != ports.LoanStatusRepaid {
		t.Fatalf("after full repay: %+v", full)
	}

	if _, _, err := module.Bank.RepayLoan(ctx, "repay-3", loan.LoanID, 1); !errors.Is(err, domainerrors.ErrLoanRepaid) {
		t.Fatalf("repay repaid loan: got %v, want ErrLoanRepaid", err)
	}

	// Replaying the closing payment still returns the closed loan.
	replayed, wasReplay, err := module.Bank.RepayLoan(ctx, "repay-2", loan.LoanID, 900)
	if err != nil {
		t.Fatalf("replay full repay: %v", err)
	}
	if !wasReplay || replayed.Status != ports.LoanStatusRepaid {
		t.Fatalf("replay of closing payment: %+v replay=%v", replayed, wasReplay)
	}
}

func TestDepositLifecycle(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	deposit, _, err := module.Bank.OpenDeposit(ctx, "open-1", ports.OpenDepositInput{
		OwnerID: "player-1", Balance: 500, APY: 0.04,
	})
	if err != nil {
		t.Fatalf("open deposit: %v", err)
	}

	grown, _, err := module.Bank.DepositFunds(ctx, "fund-1", deposit.DepositID, 250.5)
	if err != nil {
		t.Fatalf("deposit funds: %v", err)
	}
	if grown.Balance != 750.5 {
		t.Fatalf("balance = %v, want 750.5", grown.Balance)
	}

	if _, _, err := module.Bank.WithdrawDeposit(ctx, "draw-1", deposit.DepositID, 1000); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientFunds", err)
	}

	drained, _, err := module.Bank.WithdrawDeposit(ctx, "draw-2", deposit.DepositID, 750.5)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if drained.Balance != 0 {
		t.Fatalf("balance = %v after full withdrawal", drained.Balance)
	}
}

func TestAccrueInterestDaily(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	// 1000 at 3.65% APY accrues 0.1 per day.
	deposit, _, err := module.Bank.OpenDeposit(ctx, "open-1", ports.OpenDepositInput{
		OwnerID: "player-1", Balance: 1000, APY: 0.0365,
	})
	if err != nil {
		t.Fatalf("open deposit: %v", err)
	}
	// 1000 at 7.3% APR accrues 0.2 per day.
	loan := takeLoan(t, module, "loan-1", 1000, 0.073)

	// A partial day accrues nothing.
	if accrued, err := module.Bank.AccrueInterest(ctx, deposit.OpenedAt.Add(12*time.Hour)); err != nil || accrued != 0 {
		t.Fatalf("partial day accrual: accounts=%d err=%v", accrued, err)
	}

	accrued, err := module.Bank.AccrueInterest(ctx, deposit.OpenedAt.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("accrue interest: %v", err)
	}
	if accrued != 2 {
		t.Fatalf("accounts accrued = %d, want 2", accrued)
	}

	grownDeposit, err := module.Bank.GetDeposit(ctx, deposit.DepositID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if math.Abs(grownDeposit.Balance-1000.2) > 1e-9 {
		t.Fatalf("deposit balance = %v, want 1000.2", grownDeposit.Balance)
	}

	grownLoan, err := module.Bank.GetLoan(ctx, loan.LoanID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if math.Abs(grownLoan.Outstanding-1000.4) > 1e-9 {
		t.Fatalf("loan outstanding = %v, want 1000.4", grownLoan.Outstanding)
	}

	// Re-running at the same instant accrues nothing further.
	if accrued, err := module.Bank.AccrueInterest(ctx, deposit.OpenedAt.Add(48*time.Hour)); err != nil || accrued != 0 {
		t.Fatalf("repeat accrual: accounts=%d err=%v", accrued, err)
	}
}

func TestAccrueInterestSkipsRepaidLoans(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	loan := takeLoan(t, module, "loan-1", 100, 0.073)

	if _, _, err := module.Bank.RepayLoan(ctx, "repay-1", loan.LoanID, 100); err != nil {
		t.Fatalf("repay: %v", err)
	}
	accrued, err := module.Bank.AccrueInterest(ctx, loan.OpenedAt.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if accrued != 0 {
		t.Fatalf("repaid loan accrued interest")
	}

	repaid, err := module.Bank.GetLoan(ctx, loan.LoanID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if repaid.Outstanding != 0 {
		t.Fatalf("repaid loan outstanding = %v", repaid.Outstanding)
	}
}
