package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"statecraft/contexts/legislation/government-structure/domain/entities"
	domainerrors "statecraft/contexts/legislation/government-structure/domain/errors"
)

type Store struct {
	mu          sync.RWMutex
	chambers    map[entities.ChamberID]entities.Chamber
	delegations map[string]entities.Delegation
}

func NewStore(chambers []entities.Chamber, delegations []entities.Delegation) *Store {
	chamberIndex := make(map[entities.ChamberID]entities.Chamber, len(chambers))
	for _, chamber := range chambers {
		chamberIndex[chamber.ID] = chamber
	}
	delegationIndex := make(map[string]entities.Delegation, len(delegations))
	for _, delegation := range delegations {
		delegationIndex[strings.ToUpper(strings.TrimSpace(delegation.State))] = delegation
	}
	return &Store{
		chambers:    chamberIndex,
		delegations: delegationIndex,
	}
}

func (s *Store) GetChamber(_ context.Context, chamber entities.ChamberID) (entities.Chamber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.chambers[entities.ChamberID(strings.ToLower(strings.TrimSpace(string(chamber))))]
	if !ok {
		return entities.Chamber{}, domainerrors.ErrUnknownChamber
	}
	return row, nil
}

func (s *Store) ListChambers(_ context.Context) ([]entities.Chamber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Chamber, 0, len(s.chambers))
	for _, chamber := range s.chambers {
		items = append(items, chamber)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) GetDelegation(_ context.Context, state string) (entities.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.delegations[strings.ToUpper(strings.TrimSpace(state))]
	if !ok {
		return entities.Delegation{}, domainerrors.ErrUnknownState
	}
	return row, nil
}

func (s *Store) ListDelegations(_ context.Context) ([]entities.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Delegation, 0, len(s.delegations))
	for _, delegation := range s.delegations {
		items = append(items, delegation)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].State < items[j].State
	})
	return items, nil
}
