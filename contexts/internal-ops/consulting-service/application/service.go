package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	domainerrors "statecraft/contexts/internal-ops/consulting-service/domain/errors"
	"statecraft/contexts/internal-ops/consulting-service/ports"
)

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type RecordEngagementInput struct {
	OwnerID        string
	ClientID       string
	Sector         string
	Revenue        float64
	HoursBilled    float64
	HoursAvailable float64
}

func (s Service) RecordEngagement(ctx context.Context, idempotencyKey string, input RecordEngagementInput) (ports.Engagement, error) {
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.ClientID = strings.TrimSpace(input.ClientID)
	input.Sector = strings.TrimSpace(strings.ToLower(input.Sector))
	if input.OwnerID == "" || input.ClientID == "" || input.Sector == "" {
		return ports.Engagement{}, domainerrors.ErrInvalidInput
	}
	if input.Revenue < 0 || input.HoursBilled < 0 || input.HoursAvailable < 0 {
		return ports.Engagement{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Engagement{}, err
	}

	requestHash := hashStrings("record_engagement",
		input.OwnerID, input.ClientID, input.Sector,
		fmt.Sprintf("%.4f", input.Revenue),
		fmt.Sprintf("%.4f", input.HoursBilled),
		fmt.Sprintf("%.4f", input.HoursAvailable))
	var out ports.Engagement
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			engagementID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			engagement := ports.Engagement{
				EngagementID:   engagementID,
				OwnerID:        input.OwnerID,
				ClientID:       input.ClientID,
				Sector:         input.Sector,
				Revenue:        input.Revenue,
				HoursBilled:    input.HoursBilled,
				HoursAvailable: input.HoursAvailable,
				RecordedAt:     s.now(),
			}
			if err := s.Repo.SaveEngagement(ctx, engagement); err != nil {
				return nil, err
			}
			resolveLogger(s.Logger).Info("engagement recorded",
				"event", "consulting_engagement_recorded",
				"module", "internal-ops/consulting-service",
				"layer", "application",
				"owner_id", engagement.OwnerID,
				"sector", engagement.Sector,
			)
			return json.Marshal(engagement)
		},
	)
	return out, err
}

// Metrics aggregates an owner's engagements. Utilization is total billed
// hours over total available hours, zero when there was no capacity at all.
func (s Service) Metrics(ctx context.Context, ownerID string) (ports.Metrics, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ports.Metrics{}, domainerrors.ErrInvalidInput
	}
	engagements, err := s.Repo.ListEngagementsByOwner(ctx, ownerID)
	if err != nil {
		return ports.Metrics{}, err
	}

	metrics := ports.Metrics{OwnerID: ownerID, EngagementCount: len(engagements)}
	var billed, available float64
	rollups := make(map[string]*ports.SectorRollup)
	for _, engagement := range engagements {
		metrics.TotalRevenue += engagement.Revenue
		billed += engagement.HoursBilled
		available += engagement.HoursAvailable
		rollup, ok := rollups[engagement.Sector]
		if !ok {
			rollup = &ports.SectorRollup{Sector: engagement.Sector}
			rollups[engagement.Sector] = rollup
		}
		rollup.Revenue += engagement.Revenue
		rollup.EngagementCount++
	}
	metrics.TotalRevenue = round4(metrics.TotalRevenue)
	if available > 0 {
		metrics.AverageUtilization = round4(billed / available)
	}

	metrics.Sectors = make([]ports.SectorRollup, 0, len(rollups))
	for _, rollup := range rollups {
		rollup.Revenue = round4(rollup.Revenue)
		metrics.Sectors = append(metrics.Sectors, *rollup)
	}
	sort.Slice(metrics.Sectors, func(i, j int) bool {
		if metrics.Sectors[i].Revenue != metrics.Sectors[j].Revenue {
			return metrics.Sectors[i].Revenue > metrics.Sectors[j].Revenue
		}
		return metrics.Sectors[i].Sector < metrics.Sectors[j].Sector
	})
	return metrics, nil
}

func (s Service) ListEngagements(ctx context.Context, ownerID string) ([]ports.Engagement, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListEngagementsByOwner(ctx, ownerID)
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

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
