package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statecraft/contexts/underworld/crime-service/domain/entities"
	domainerrors "statecraft/contexts/underworld/crime-service/domain/errors"
	"statecraft/contexts/underworld/crime-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	facilities  map[string]entities.Facility
	routes      map[string]entities.Route
	channels    map[string]entities.Channel
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		facilities:  make(map[string]entities.Facility),
		routes:      make(map[string]entities.Route),
		channels:    make(map[string]entities.Channel),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SaveFacility(_ context.Context, facility entities.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[strings.TrimSpace(facility.FacilityID)] = facility
	return nil
}

func (s *Store) GetFacility(_ context.Context, facilityID string) (entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	facility, ok := s.facilities[strings.TrimSpace(facilityID)]
	if !ok {
		return entities.Facility{}, domainerrors.ErrFacilityNotFound
	}
	return facility, nil
}

func (s *Store) ListFacilitiesByOwner(_ context.Context, ownerID string) ([]entities.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Facility, 0)
	for _, facility := range s.facilities {
		if facility.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, facility)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveRoute(_ context.Context, route entities.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[strings.TrimSpace(route.RouteID)] = route
	return nil
}

func (s *Store) GetRoute(_ context.Context, routeID string) (entities.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	route, ok := s.routes[strings.TrimSpace(routeID)]
	if !ok {
		return entities.Route{}, domainerrors.ErrRouteNotFound
	}
	return route, nil
}

func (s *Store) ListRoutesByFacility(_ context.Context, facilityID string) ([]entities.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Route, 0)
	for _, route := range s.routes {
		if route.FacilityID == strings.TrimSpace(facilityID) {
			items = append(items, route)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveChannel(_ context.Context, channel entities.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[strings.TrimSpace(channel.ChannelID)] = channel
	return nil
}

func (s *Store) GetChannel(_ context.Context, channelID string) (entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[strings.TrimSpace(channelID)]
	if !ok {
		return entities.Channel{}, domainerrors.ErrChannelNotFound
	}
	return channel, nil
}

func (s *Store) ListChannelsByFacility(_ context.Context, facilityID string) ([]entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Channel, 0)
	for _, channel := range s.channels {
		if channel.FacilityID == strings.TrimSpace(facilityID) {
			items = append(items, channel)
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
	_ ports.Repository       = (*Store)(nil)
	_ ports.IdempotencyStore = (*Store)(nil)
)
