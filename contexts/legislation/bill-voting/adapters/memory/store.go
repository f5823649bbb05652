package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/legislation/bill-voting/domain/entities"
	domainerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
	"statecraft/contexts/legislation/bill-voting/ports"
	"statecraft/internal/shared/events"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type Store struct {
	mu sync.RWMutex

	bills       map[string]entities.Bill
	votes       map[string]entities.BallotVote
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
}

func NewStore(seed []entities.Bill) *Store {
	bills := make(map[string]entities.Bill, len(seed))
	for _, bill := range seed {
		bills[bill.BillID] = bill
	}
	return &Store{
		bills:       bills,
		votes:       make(map[string]entities.BallotVote),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
	}
}

func (s *Store) SaveBill(_ context.Context, bill entities.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[strings.TrimSpace(bill.BillID)] = bill
	return nil
}

func (s *Store) GetBill(_ context.Context, billID string) (entities.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[strings.TrimSpace(billID)]
	if !ok {
		return entities.Bill{}, domainerrors.ErrBillNotFound
	}
	return bill, nil
}

func (s *Store) ListBillsBySession(_ context.Context, sessionID string) ([]entities.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Bill, 0)
	sessionID = strings.TrimSpace(sessionID)
	for _, bill := range s.bills {
		if sessionID == "" || bill.SessionID == sessionID {
			items = append(items, bill)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.BallotVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[strings.TrimSpace(vote.VoteID)] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, voteID string) (entities.BallotVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.BallotVote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

func (s *Store) GetVoteByIdentity(
	_ context.Context,
	billID string,
	memberID string,
) (entities.BallotVote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	billID = strings.TrimSpace(billID)
	memberID = strings.TrimSpace(memberID)
	for _, vote := range s.votes {
		if vote.BillID == billID && vote.MemberID == memberID {
			return vote, true, nil
		}
	}
	return entities.BallotVote{}, false, nil
}

func (s *Store) ListVotesByBill(_ context.Context, billID string) ([]entities.BallotVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.BallotVote, 0)
	for _, vote := range s.votes {
		if vote.BillID == strings.TrimSpace(billID) {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
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

	key := strings.TrimSpace(record.Key)
	existing, exists := s.idempotency[key]
	if exists {
		if existing.RequestHash != record.RequestHash || existing.EntityID != record.EntityID {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: strings.TrimSpace(record.RequestHash),
		EntityID:    strings.TrimSpace(record.EntityID),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAtUTC.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: strings.TrimSpace(envelope.EventType),
			Payload:   payload,
			CreatedAt: createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
