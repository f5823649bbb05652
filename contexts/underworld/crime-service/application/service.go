package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"statecraft/contexts/underworld/crime-service/domain/entities"
	domainerrors "statecraft/contexts/underworld/crime-service/domain/errors"
	"statecraft/contexts/underworld/crime-service/ports"
)

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateFacilityInput struct {
	OwnerID   string
	Kind      string
	HeatLevel float64
}

type CreateRouteInput struct {
	FacilityID  string
	Origin      string
	Destination string
}

type CreateChannelInput struct {
	FacilityID string
	Medium     string
	Encrypted  bool
}

func (s Service) CreateFacility(ctx context.Context, idempotencyKey string, input CreateFacilityInput) (entities.Facility, error) {
	if strings.TrimSpace(input.OwnerID) == "" ||
		strings.TrimSpace(input.Kind) == "" ||
		input.HeatLevel < 0 || input.HeatLevel > 100 {
		return entities.Facility{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Facility{}, err
	}

	requestHash := hashStrings("create_facility",
		strings.TrimSpace(input.OwnerID),
		strings.ToLower(strings.TrimSpace(input.Kind)),
		fmt.Sprintf("%.4f", input.HeatLevel))
	var out entities.Facility
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			facilityID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			facility := entities.Facility{
				FacilityID: strings.TrimSpace(facilityID),
				OwnerID:    strings.TrimSpace(input.OwnerID),
				Kind:       strings.ToLower(strings.TrimSpace(input.Kind)),
				HeatLevel:  input.HeatLevel,
				Status:     entities.FacilityStatusHidden,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.Repo.SaveFacility(ctx, facility); err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Info("facility created",
				"event", "crime_facility_created",
				"module", "underworld/crime-service",
				"layer", "application",
				"facility_id", facility.FacilityID,
				"kind", facility.Kind,
			)
			return json.Marshal(facility)
		},
	)
	return out, err
}

func (s Service) GetFacility(ctx context.Context, facilityID string) (entities.Facility, error) {
	if strings.TrimSpace(facilityID) == "" {
		return entities.Facility{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetFacility(ctx, strings.TrimSpace(facilityID))
}

func (s Service) ListFacilitiesByOwner(ctx context.Context, ownerID string) ([]entities.Facility, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListFacilitiesByOwner(ctx, strings.TrimSpace(ownerID))
}

// ExposeFacility bumps a hidden facility to exposed. Raided facilities stay
// raided.
func (s Service) ExposeFacility(ctx context.Context, idempotencyKey string, facilityID string) (entities.Facility, error) {
	if strings.TrimSpace(facilityID) == "" {
		return entities.Facility{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Facility{}, err
	}

	requestHash := hashStrings("expose_facility", strings.TrimSpace(facilityID))
	var out entities.Facility
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			facility, err := s.GetFacility(ctx, facilityID)
			if err != nil {
				return nil, err
			}
			if facility.Status == entities.FacilityStatusRaided {
				return nil, domainerrors.ErrFacilityRaided
			}
			facility.Status = entities.FacilityStatusExposed
			facility.UpdatedAt = s.now()
			if err := s.Repo.SaveFacility(ctx, facility); err != nil {
				return nil, err
			}
			return json.Marshal(facility)
		},
	)
	return out, err
}

// RaidFacility is terminal: hidden or exposed facilities transition to
// raided exactly once, and their routes deactivate.
func (s Service) RaidFacility(ctx context.Context, idempotencyKey string, facilityID string) (entities.Facility, error) {
	if strings.TrimSpace(facilityID) == "" {
		return entities.Facility{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Facility{}, err
	}

	requestHash := hashStrings("raid_facility", strings.TrimSpace(facilityID))
	var out entities.Facility
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			facility, err := s.GetFacility(ctx, facilityID)
			if err != nil {
				return nil, err
			}
			if facility.Status == entities.FacilityStatusRaided {
				return nil, domainerrors.ErrFacilityRaided
			}
			now := s.now()
			facility.Status = entities.FacilityStatusRaided
			facility.UpdatedAt = now
			if err := s.Repo.SaveFacility(ctx, facility); err != nil {
				return nil, err
			}

			routes, err := s.Repo.ListRoutesByFacility(ctx, facility.FacilityID)
			if err != nil {
				return nil, err
			}
			for _, route := range routes {
				if !route.Active {
					continue
				}
				route.Active = false
				route.UpdatedAt = now
				if err := s.Repo.SaveRoute(ctx, route); err != nil {
					return nil, err
				}
			}

			resolveLogger(s.Logger).Info("facility raided",
				"event", "crime_facility_raided",
				"module", "underworld/crime-service",
				"layer", "application",
				"facility_id", facility.FacilityID,
				"routes_deactivated", len(routes),
			)
			return json.Marshal(facility)
		},
	)
	return out, err
}

func (s Service) CreateRoute(ctx context.Context, idempotencyKey string, input CreateRouteInput) (entities.Route, error) {
	if strings.TrimSpace(input.FacilityID) == "" ||
		strings.TrimSpace(input.Origin) == "" ||
		strings.TrimSpace(input.Destination) == "" {
		return entities.Route{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Route{}, err
	}

	requestHash := hashStrings("create_route",
		strings.TrimSpace(input.FacilityID),
		strings.TrimSpace(input.Origin),
		strings.TrimSpace(input.Destination))
	var out entities.Route
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			facility, err := s.GetFacility(ctx, input.FacilityID)
			if err != nil {
				return nil, err
			}
			channels, err := s.Repo.ListChannelsByFacility(ctx, facility.FacilityID)
			if err != nil {
				return nil, err
			}

			routeID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			route := entities.Route{
				RouteID:     strings.TrimSpace(routeID),
				FacilityID:  facility.FacilityID,
				Origin:      strings.TrimSpace(input.Origin),
				Destination: strings.TrimSpace(input.Destination),
				RiskScore:   entities.RouteRisk(facility, channels),
				Active:      true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.Repo.SaveRoute(ctx, route); err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Info("route created",
				"event", "crime_route_created",
				"module", "underworld/crime-service",
				"layer", "application",
				"route_id", route.RouteID,
				"facility_id", route.FacilityID,
				"risk_score", route.RiskScore,
			)
			return json.Marshal(route)
		},
	)
	return out, err
}

func (s Service) GetRoute(ctx context.Context, routeID string) (entities.Route, error) {
	if strings.TrimSpace(routeID) == "" {
		return entities.Route{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetRoute(ctx, strings.TrimSpace(routeID))
}

func (s Service) ListRoutesByFacility(ctx context.Context, facilityID string) ([]entities.Route, error) {
	if strings.TrimSpace(facilityID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListRoutesByFacility(ctx, strings.TrimSpace(facilityID))
}

// RecomputeRouteRisk re-scores a route against the facility's current heat
// and channel mix.
func (s Service) RecomputeRouteRisk(ctx context.Context, idempotencyKey string, routeID string) (entities.Route, error) {
	if strings.TrimSpace(routeID) == "" {
		return entities.Route{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Route{}, err
	}

	requestHash := hashStrings("recompute_route_risk", strings.TrimSpace(routeID))
	var out entities.Route
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			route, err := s.GetRoute(ctx, routeID)
			if err != nil {
				return nil, err
			}
			facility, err := s.GetFacility(ctx, route.FacilityID)
			if err != nil {
				return nil, err
			}
			channels, err := s.Repo.ListChannelsByFacility(ctx, facility.FacilityID)
			if err != nil {
				return nil, err
			}
			route.RiskScore = entities.RouteRisk(facility, channels)
			route.UpdatedAt = s.now()
			if err := s.Repo.SaveRoute(ctx, route); err != nil {
				return nil, err
			}
			return json.Marshal(route)
		},
	)
	return out, err
}

func (s Service) CreateChannel(ctx context.Context, idempotencyKey string, input CreateChannelInput) (entities.Channel, error) {
	if strings.TrimSpace(input.FacilityID) == "" || strings.TrimSpace(input.Medium) == "" {
		return entities.Channel{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Channel{}, err
	}

	requestHash := hashStrings("create_channel",
		strings.TrimSpace(input.FacilityID),
		strings.ToLower(strings.TrimSpace(input.Medium)),
		strconv.FormatBool(input.Encrypted))
	var out entities.Channel
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			if _, err := s.GetFacility(ctx, input.FacilityID); err != nil {
				return nil, err
			}
			channelID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			channel := entities.Channel{
				ChannelID:  strings.TrimSpace(channelID),
				FacilityID: strings.TrimSpace(input.FacilityID),
				Medium:     strings.ToLower(strings.TrimSpace(input.Medium)),
				Encrypted:  input.Encrypted,
				CreatedAt:  s.now(),
			}
			if err := s.Repo.SaveChannel(ctx, channel); err != nil {
				return nil, err
			}
			return json.Marshal(channel)
		},
	)
	return out, err
}

func (s Service) GetChannel(ctx context.Context, channelID string) (entities.Channel, error) {
	if strings.TrimSpace(channelID) == "" {
		return entities.Channel{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetChannel(ctx, strings.TrimSpace(channelID))
}

func (s Service) ListChannelsByFacility(ctx context.Context, facilityID string) ([]entities.Channel, error) {
	if strings.TrimSpace(facilityID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListChannelsByFacility(ctx, strings.TrimSpace(facilityID))
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyMissing
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.GetRecord(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.ResponsePayload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
