package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "statecraft/contexts/community-experience/market-service/domain/errors"
	"statecraft/contexts/community-experience/market-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	listings    map[string]ports.Listing
	trades      []ports.Trade
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		listings:    make(map[string]ports.Listing),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveListing(_ context.Context, listing ports.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[strings.TrimSpace(listing.ListingID)] = listing
	return nil
}

func (s *Store) GetListing(_ context.Context, listingID string) (ports.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[strings.TrimSpace(listingID)]
	if !ok {
		return ports.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) ListOpenListings(_ context.Context, symbol string) ([]ports.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Listing, 0)
	for _, listing := range s.listings {
		if listing.Status != ports.ListingStatusOpen {
			continue
		}
		if symbol != "" && listing.Symbol != symbol {
			continue
		}
		items = append(items, listing)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveTrade(_ context.Context, trade ports.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trade)
	return nil
}

// ListRecentTrades walks the append-ordered log backwards so same-instant
// fills still come out newest first.
func (s *Store) ListRecentTrades(_ context.Context, symbol string, limit int) ([]ports.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Trade, 0, limit)
	for i := len(s.trades) - 1; i >= 0 && len(items) < limit; i-- {
		if s.trades[i].Symbol == symbol {
			items = append(items, s.trades[i])
		}
	}
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok || now.After(record.ExpiresAt) {
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

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
