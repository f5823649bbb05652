package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/elections/election-resolution/domain/entities"
	domainerrors "statecraft/contexts/elections/election-resolution/domain/errors"
	"statecraft/contexts/elections/election-resolution/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	results     map[string]entities.ElectionResult
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		results:     make(map[string]entities.ElectionResult),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveResult(_ context.Context, result entities.ElectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[strings.TrimSpace(result.ProjectionID)] = result
	return nil
}

func (s *Store) GetResult(_ context.Context, projectionID string) (entities.ElectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[strings.TrimSpace(projectionID)]
	if !ok {
		return entities.ElectionResult{}, domainerrors.ErrResultNotFound
	}
	return result, nil
}

func (s *Store) ListResults(_ context.Context, limit int) ([]entities.ElectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ElectionResult, 0, len(s.results))
	for _, result := range s.results {
		items = append(items, result)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ResolvedAt.After(items[j].ResolvedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
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

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
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
	_ ports.ResultRepository = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
