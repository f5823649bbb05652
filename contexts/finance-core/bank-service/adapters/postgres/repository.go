package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerrors "statecraft/contexts/finance-core/bank-service/domain/errors"
	"statecraft/contexts/finance-core/bank-service/ports"
)

type loanModel struct {
	LoanID      string  `gorm:"column:loan_id;primaryKey"`
	OwnerID     string  `gorm:"column:owner_id;index"`
	Principal   float64 `gorm:"column:principal"`
	Outstanding float64 `gorm:"column:outstanding"`
	APR         float64 `gorm:"column:apr"`
	Status      string  `gorm:"column:status;index"`
	OpenedAt    time.Time
	AccruedAt   time.Time `gorm:"column:accrued_at"`
	UpdatedAt   time.Time
}

func (loanModel) TableName() string { return "bank_loans" }

type depositModel struct {
	DepositID string  `gorm:"column:deposit_id;primaryKey"`
	OwnerID   string  `gorm:"column:owner_id;index"`
	Balance   float64 `gorm:"column:balance"`
	APY       float64 `gorm:"column:apy"`
	OpenedAt  time.Time
	AccruedAt time.Time `gorm:"column:accrued_at"`
	UpdatedAt time.Time
}

func (depositModel) TableName() string { return "bank_deposits" }

type idempotencyModel struct {
	Key             string `gorm:"column:key;primaryKey"`
	RequestHash     string `gorm:"column:request_hash"`
	ResponsePayload []byte `gorm:"column:response_payload"`
	ExpiresAt       time.Time
}

func (idempotencyModel) TableName() string { return "bank_idempotency" }

type Repository struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{DB: db, Logger: logger}
}

func (r *Repository) AutoMigrate() error {
	return r.DB.AutoMigrate(&loanModel{}, &depositModel{}, &idempotencyModel{})
}

func (r *Repository) SaveLoan(ctx context.Context, loan ports.Loan) error {
	row := loanModel{
		LoanID:      strings.TrimSpace(loan.LoanID),
		OwnerID:     loan.OwnerID,
		Principal:   loan.Principal,
		Outstanding: loan.Outstanding,
		APR:         loan.APR,
		Status:      loan.Status,
		OpenedAt:    loan.OpenedAt.UTC(),
		AccruedAt:   loan.AccruedAt.UTC(),
		UpdatedAt:   loan.UpdatedAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "loan_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		r.logError("loan save failed", err)
		return err
	}
	return nil
}

func (r *Repository) GetLoan(ctx context.Context, loanID string) (ports.Loan, error) {
	var row loanModel
	err := r.DB.WithContext(ctx).
		Where("loan_id = ?", strings.TrimSpace(loanID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Loan{}, domainerrors.ErrLoanNotFound
	}
	if err != nil {
		r.logError("loan lookup failed", err)
		return ports.Loan{}, err
	}
	return fromLoanModel(row), nil
}

func (r *Repository) ListLoansByOwner(ctx context.Context, ownerID string) ([]ports.Loan, error) {
	var rows []loanModel
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("opened_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("loan list failed", err)
		return nil, err
	}
	return mapLoans(rows), nil
}

func (r *Repository) ListActiveLoans(ctx context.Context, limit int) ([]ports.Loan, error) {
	query := r.DB.WithContext(ctx).
		Where("status = ?", ports.LoanStatusActive).
		Order("opened_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []loanModel
	if err := query.Find(&rows).Error; err != nil {
		r.logError("active loan list failed", err)
		return nil, err
	}
	return mapLoans(rows), nil
}

func (r *Repository) SaveDeposit(ctx context.Context, deposit ports.Deposit) error {
	row := depositModel{
		DepositID: strings.TrimSpace(deposit.DepositID),
		OwnerID:   deposit.OwnerID,
		Balance:   deposit.Balance,
		APY:       deposit.APY,
		OpenedAt:  deposit.OpenedAt.UTC(),
		AccruedAt: deposit.AccruedAt.UTC(),
		UpdatedAt: deposit.UpdatedAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "deposit_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		r.logError("deposit save failed", err)
		return err
	}
	return nil
}

func (r *Repository) GetDeposit(ctx context.Context, depositID string) (ports.Deposit, error) {
	var row depositModel
	err := r.DB.WithContext(ctx).
		Where("deposit_id = ?", strings.TrimSpace(depositID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Deposit{}, domainerrors.ErrDepositNotFound
	}
	if err != nil {
		r.logError("deposit lookup failed", err)
		return ports.Deposit{}, err
	}
	return fromDepositModel(row), nil
}

func (r *Repository) ListDepositsByOwner(ctx context.Context, ownerID string) ([]ports.Deposit, error) {
	var rows []depositModel
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("opened_at asc").
		Find(&rows).Error
	if err != nil {
		r.logError("deposit list failed", err)
		return nil, err
	}
	return mapDeposits(rows), nil
}

func (r *Repository) ListDeposits(ctx context.Context, limit int) ([]ports.Deposit, error) {
	query := r.DB.WithContext(ctx).Order("opened_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []depositModel
	if err := query.Find(&rows).Error; err != nil {
		r.logError("deposit scan failed", err)
		return nil, err
	}
	return mapDeposits(rows), nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.DB.WithContext(ctx).
		Where("key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		r.logError("idempotency lookup failed", err)
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: row.ResponsePayload,
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		r.logError("idempotency insert failed", err)
		return err
	}
	return nil
}

func (r *Repository) logError(message string, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.Error(message,
		"module", "finance-core/bank-service",
		"layer", "adapters/postgres",
		"error", err,
	)
}

func fromLoanModel(row loanModel) ports.Loan {
	return ports.Loan{
		LoanID:      row.LoanID,
		OwnerID:     row.OwnerID,
		Principal:   row.Principal,
		Outstanding: row.Outstanding,
		APR:         row.APR,
		Status:      row.Status,
		OpenedAt:    row.OpenedAt,
		AccruedAt:   row.AccruedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func fromDepositModel(row depositModel) ports.Deposit {
	return ports.Deposit{
		DepositID: row.DepositID,
		OwnerID:   row.OwnerID,
		Balance:   row.Balance,
		APY:       row.APY,
		OpenedAt:  row.OpenedAt,
		AccruedAt: row.AccruedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapLoans(rows []loanModel) []ports.Loan {
	items := make([]ports.Loan, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromLoanModel(row))
	}
	return items
}

func mapDeposits(rows []depositModel) []ports.Deposit {
	items := make([]ports.Deposit, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromDepositModel(row))
	}
	return items
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
)
