package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/internal-ops/consulting-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	engagements map[string]ports.Engagement
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		engagements: make(map[string]ports.Engagement),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveEngagement(_ context.Context, engagement ports.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagements[strings.TrimSpace(engagement.EngagementID)] = engagement
	return nil
}

func (s *Store) ListEngagementsByOwner(_ context.Context, ownerID string) ([]ports.Engagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Engagement, 0)
	for _, engagement := range s.engagements {
		if engagement.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, engagement)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].RecordedAt.Before(items[j].RecordedAt)
	})
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
