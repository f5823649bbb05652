package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/moderation-safety/moderation-service/ports"
)

type Store struct {
	mu          sync.RWMutex
	words       map[string]ports.Word
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		words:       make(map[string]ports.Word),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveWord(_ context.Context, word ports.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words[strings.TrimSpace(word.Term)] = word
	return nil
}

func (s *Store) DeleteWord(_ context.Context, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.words, strings.TrimSpace(term))
	return nil
}

func (s *Store) GetWord(_ context.Context, term string) (ports.Word, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	word, ok := s.words[strings.TrimSpace(term)]
	return word, ok, nil
}

func (s *Store) ListWords(_ context.Context) ([]ports.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Word, 0, len(s.words))
	for _, word := range s.words {
		items = append(items, word)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Term < items[j].Term
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

var (
	_ ports.WordRepository   = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
