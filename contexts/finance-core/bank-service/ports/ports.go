package ports

import (
	"context"
	"time"
)

const (
	LoanStatusActive = "active"
	LoanStatusRepaid = "repaid"
)

type Loan struct {
	LoanID      string
	OwnerID     string
	Principal   float64
	Outstanding float64
	APR         float64
	Status      string
	OpenedAt    time.Time
	AccruedAt   time.Time
	UpdatedAt   time.Time
}

type Deposit struct {
	DepositID string
	OwnerID   string
	Balance   float64
	APY       float64
	OpenedAt  time.Time
	AccruedAt time.Time
	UpdatedAt time.Time
}

type TakeLoanInput struct {
	OwnerID   string
	Principal float64
	APR       float64
}

type OpenDepositInput struct {
	OwnerID string
	Balance float64
	APY     float64
}

type Repository interface {
	SaveLoan(ctx context.Context, loan Loan) error
	GetLoan(ctx context.Context, loanID string) (Loan, error)
	ListLoansByOwner(ctx context.Context, ownerID string) ([]Loan, error)
	ListActiveLoans(ctx context.Context, limit int) ([]Loan, error)
	SaveDeposit(ctx context.Context, deposit Deposit) error
	GetDeposit(ctx context.Context, depositID string) (Deposit, error)
	ListDepositsByOwner(ctx context.Context, ownerID string) ([]Deposit, error)
	ListDeposits(ctx context.Context, limit int) ([]Deposit, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
