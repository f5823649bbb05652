package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/finance-core/energy-service/domain/entities"
	domainerrors "statecraft/contexts/finance-core/energy-service/domain/errors"
	"statecraft/contexts/finance-core/energy-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	assets      map[string]entities.Asset
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore(seed []entities.Asset) *Store {
	assets := make(map[string]entities.Asset, len(seed))
	for _, asset := range seed {
		assets[asset.AssetID] = asset
	}
	return &Store{
		assets:      assets,
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveAsset(_ context.Context, asset entities.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[strings.TrimSpace(asset.AssetID)] = asset
	return nil
}

func (s *Store) GetAsset(_ context.Context, assetID string) (entities.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[strings.TrimSpace(assetID)]
	if !ok {
		return entities.Asset{}, domainerrors.ErrAssetNotFound
	}
	return asset, nil
}

func (s *Store) ListAssetsByOwner(_ context.Context, ownerID string) ([]entities.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Asset, 0)
	for _, asset := range s.assets {
		if asset.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, asset)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
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
	_ ports.AssetRepository  = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
