package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "statecraft/contexts/community-experience/chat-service/domain/errors"
	"statecraft/contexts/community-experience/chat-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	messages    map[string]ports.Message
	sequences   map[string]int64
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		messages:    make(map[string]ports.Message),
		sequences:   make(map[string]int64),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveMessage(_ context.Context, message ports.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[strings.TrimSpace(message.MessageID)] = message
	return nil
}

func (s *Store) GetMessage(_ context.Context, messageID string) (ports.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	message, ok := s.messages[strings.TrimSpace(messageID)]
	if !ok {
		return ports.Message{}, domainerrors.ErrMessageNotFound
	}
	return message, nil
}

func (s *Store) ListChannelMessages(_ context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Message, 0)
	for _, message := range s.messages {
		if message.ChannelID != strings.TrimSpace(input.ChannelID) {
			continue
		}
		if message.DeletedAt != nil {
			continue
		}
		if input.BeforeSequence > 0 && message.Sequence >= input.BeforeSequence {
			continue
		}
		items = append(items, message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
	})
	if input.Limit > 0 && len(items) > input.Limit {
		items = items[len(items)-input.Limit:]
	}
	return items, nil
}

func (s *Store) NextSequence(_ context.Context, channelID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channelID = strings.TrimSpace(channelID)
	s.sequences[channelID]++
	return s.sequences[channelID], nil
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
