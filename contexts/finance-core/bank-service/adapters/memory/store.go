package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "statecraft/contexts/finance-core/bank-service/domain/errors"
	"statecraft/contexts/finance-core/bank-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	loans       map[string]ports.Loan
	deposits    map[string]ports.Deposit
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		loans:       make(map[string]ports.Loan),
		deposits:    make(map[string]ports.Deposit),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveLoan(_ context.Context, loan ports.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[strings.TrimSpace(loan.LoanID)] = loan
	return nil
}

func (s *Store) GetLoan(_ context.Context, loanID string) (ports.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[strings.TrimSpace(loanID)]
	if !ok {
		return ports.Loan{}, domainerrors.ErrLoanNotFound
	}
	return loan, nil
}

func (s *Store) ListLoansByOwner(_ context.Context, ownerID string) ([]ports.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Loan, 0)
	for _, loan := range s.loans {
		if loan.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, loan)
		}
	}
	sortLoans(items)
	return items, nil
}

func (s *Store) ListActiveLoans(_ context.Context, limit int) ([]ports.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Loan, 0)
	for _, loan := range s.loans {
		if loan.Status == ports.LoanStatusActive {
			items = append(items, loan)
		}
	}
	sortLoans(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SaveDeposit(_ context.Context, deposit ports.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deposits[strings.TrimSpace(deposit.DepositID)] = deposit
	return nil
}

func (s *Store) GetDeposit(_ context.Context, depositID string) (ports.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deposit, ok := s.deposits[strings.TrimSpace(depositID)]
	if !ok {
		return ports.Deposit{}, domainerrors.ErrDepositNotFound
	}
	return deposit, nil
}

func (s *Store) ListDepositsByOwner(_ context.Context, ownerID string) ([]ports.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Deposit, 0)
	for _, deposit := range s.deposits {
		if deposit.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, deposit)
		}
	}
	sortDeposits(items)
	return items, nil
}

func (s *Store) ListDeposits(_ context.Context, limit int) ([]ports.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Deposit, 0, len(s.deposits))
	for _, deposit := range s.deposits {
		items = append(items, deposit)
	}
	sortDeposits(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = strings.TrimSpace(key)
	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortLoans(items []ports.Loan) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].OpenedAt.Before(items[j].OpenedAt)
	})
}

func sortDeposits(items []ports.Deposit) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].OpenedAt.Before(items[j].OpenedAt)
	})
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
