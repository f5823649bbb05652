package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"statecraft/contexts/elections/election-resolution/domain/entities"
	domainerrors "statecraft/contexts/elections/election-resolution/domain/errors"
	"statecraft/contexts/elections/election-resolution/ports"
)

type Service struct {
	Repo           ports.ResultRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Resolve projects every submitted race and persists the outcome. The
// projection itself is pure, so resubmitting the same races under the same
// key replays the stored result bit for bit.
func (s Service) Resolve(
	ctx context.Context,
	idempotencyKey string,
	races []entities.StateRace,
) (entities.ElectionResult, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return entities.ElectionResult{}, false, domainerrors.ErrIdempotencyKeyMissing
	}
	if len(races) == 0 {
		return entities.ElectionResult{}, false, domainerrors.ErrInvalidInput
	}
	for _, race := range races {
		if strings.TrimSpace(race.State) == "" || race.ElectoralVotes <= 0 || race.Volatility < 0 {
			return entities.ElectionResult{}, false, domainerrors.ErrInvalidInput
		}
	}

	// Race order must not change the stored result.
	sorted := make([]entities.StateRace, len(races))
	copy(sorted, races)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].State < sorted[j].State })

	now := s.now()
	requestHash := hashRaces(sorted)
	if record, found, err := s.Idempotency.Get(ctx, strings.TrimSpace(idempotencyKey), now); err != nil {
		return entities.ElectionResult{}, false, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.ElectionResult{}, false, domainerrors.ErrIdempotencyConflict
		}
		result, err := s.Repo.GetResult(ctx, record.EntityID)
		if err != nil {
			return entities.ElectionResult{}, false, err
		}
		return result, true, nil
	}

	projectionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.ElectionResult{}, false, err
	}
	result := entities.ResolveElection(sorted)
	result.ProjectionID = strings.TrimSpace(projectionID)
	result.ResolvedAt = now
	if err := s.Repo.SaveResult(ctx, result); err != nil {
		return entities.ElectionResult{}, false, err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(idempotencyKey),
		RequestHash: requestHash,
		EntityID:    result.ProjectionID,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return entities.ElectionResult{}, false, err
	}

	resolveLogger(s.Logger).Info("election resolved",
		"event", "election_resolved",
		"module", "elections/election-resolution",
		"layer", "application",
		"projection_id", result.ProjectionID,
		"electoral_a", result.ElectoralA,
		"electoral_b", result.ElectoralB,
		"tossup_votes", result.TossupVotes,
		"winner", result.Winner,
	)
	return result, false, nil
}

func (s Service) GetResult(ctx context.Context, projectionID string) (entities.ElectionResult, error) {
	if strings.TrimSpace(projectionID) == "" {
		return entities.ElectionResult{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetResult(ctx, strings.TrimSpace(projectionID))
}

func (s Service) ListResults(ctx context.Context, limit int) ([]entities.ElectionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.ListResults(ctx, limit)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func hashRaces(races []entities.StateRace) string {
	raw, _ := json.Marshal(races)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
