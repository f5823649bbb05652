package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "statecraft/contexts/legislation/lobby-system/domain/errors"
	"statecraft/contexts/legislation/lobby-system/ports"
	"statecraft/internal/shared/events"

	"github.com/google/uuid"
)

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
	Published bool
}

type Store struct {
	mu sync.RWMutex

	offers      map[string]ports.LobbyOffer
	payments    map[string]ports.LobbyPayment
	idempotency map[string]ports.IdempotencyRecord
	dedup       map[string]time.Time
	outbox      []OutboxMessage
}

func NewStore(seed []ports.LobbyOffer) *Store {
	offers := make(map[string]ports.LobbyOffer, len(seed))
	for _, offer := range seed {
		offers[offer.OfferID] = offer
	}
	return &Store{
		offers:      offers,
		payments:    make(map[string]ports.LobbyPayment),
		idempotency: make(map[string]ports.IdempotencyRecord),
		dedup:       make(map[string]time.Time),
	}
}

func (s *Store) CreateOffer(_ context.Context, offer ports.LobbyOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[strings.TrimSpace(offer.OfferID)] = offer
	return nil
}

func (s *Store) UpdateOffer(_ context.Context, offer ports.LobbyOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[strings.TrimSpace(offer.OfferID)]; !ok {
		return domainerrors.ErrOfferNotFound
	}
	s.offers[strings.TrimSpace(offer.OfferID)] = offer
	return nil
}

func (s *Store) GetOffer(_ context.Context, offerID string) (ports.LobbyOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.offers[strings.TrimSpace(offerID)]
	if !ok {
		return ports.LobbyOffer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Store) ListOffersByBill(_ context.Context, billID string) ([]ports.LobbyOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.LobbyOffer, 0)
	for _, offer := range s.offers {
		if offer.BillID == strings.TrimSpace(billID) {
			items = append(items, offer)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreatePayments(_ context.Context, payments []ports.LobbyPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range payments {
		s.payments[strings.TrimSpace(payment.PaymentID)] = payment
	}
	return nil
}

func (s *Store) ListPaymentsByBill(_ context.Context, billID string) ([]ports.LobbyPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.LobbyPayment, 0)
	for _, payment := range s.payments {
		if payment.BillID == strings.TrimSpace(billID) {
			items = append(items, payment)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PaidAt.Before(items[j].PaidAt)
	})
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

func (s *Store) ReserveEvent(_ context.Context, eventID string, _ string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventID = strings.TrimSpace(eventID)
	if _, seen := s.dedup[eventID]; seen {
		return true, nil
	}
	s.dedup[eventID] = expiresAt.UTC()
	return false, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, OutboxMessage{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		CreatedAt: envelope.OccurredAtUTC.UTC(),
	})
	return nil
}

// Outbox returns a snapshot for tests and the relay loop.
func (s *Store) Outbox() []OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]OutboxMessage, len(s.outbox))
	copy(items, s.outbox)
	return items
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
	_ ports.EventDedupStore  = (*Store)(nil)
	_ ports.OutboxWriter     = (*Store)(nil)
)
