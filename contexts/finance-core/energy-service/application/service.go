package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"statecraft/contexts/finance-core/energy-service/domain/entities"
	domainerrors "statecraft/contexts/finance-core/energy-service/domain/errors"
	"statecraft/contexts/finance-core/energy-service/ports"
)

type Service struct {
	Repo           ports.AssetRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type RegisterAssetInput struct {
	OwnerID      string
	Kind         string
	CapacityMW   float64
	ChargeMWh    float64
	MaxChargeMWh float64
}

func (s Service) RegisterAsset(ctx context.Context, idempotencyKey string, input RegisterAssetInput) (entities.Asset, error) {
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if strings.TrimSpace(input.OwnerID) == "" ||
		(kind != entities.KindPlant && kind != entities.KindBattery) ||
		input.CapacityMW <= 0 {
		return entities.Asset{}, domainerrors.ErrInvalidInput
	}
	if kind == entities.KindBattery {
		if input.MaxChargeMWh <= 0 || input.ChargeMWh < 0 || input.ChargeMWh > input.MaxChargeMWh {
			return entities.Asset{}, domainerrors.ErrInvalidInput
		}
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Asset{}, err
	}

	requestHash := hashStrings("register_asset", strings.TrimSpace(input.OwnerID), kind,
		fmt.Sprintf("%.4f", input.CapacityMW),
		fmt.Sprintf("%.4f", input.ChargeMWh),
		fmt.Sprintf("%.4f", input.MaxChargeMWh))
	var out entities.Asset
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			assetID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			asset := entities.Asset{
				AssetID:    strings.TrimSpace(assetID),
				OwnerID:    strings.TrimSpace(input.OwnerID),
				Kind:       kind,
				CapacityMW: round4(input.CapacityMW),
				Status:     entities.StatusIdle,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if kind == entities.KindBattery {
				asset.ChargeMWh = round4(input.ChargeMWh)
				asset.MaxChargeMWh = round4(input.MaxChargeMWh)
			}
			if err := s.Repo.SaveAsset(ctx, asset); err != nil {
				return nil, err
			}

			resolveLogger(s.Logger).Info("asset registered",
				"event", "energy_asset_registered",
				"module", "finance-core/energy-service",
				"layer", "application",
				"asset_id", asset.AssetID,
				"owner_id", asset.OwnerID,
				"kind", asset.Kind,
				"capacity_mw", asset.CapacityMW,
			)
			return json.Marshal(asset)
		},
	)
	return out, err
}

// Dispatch starts one dispatch cycle. Plant output is bounded by nameplate
// capacity; a battery additionally drains mw x hours of stored energy up
// front and refuses when the draw exceeds its charge.
func (s Service) Dispatch(ctx context.Context, idempotencyKey string, assetID string, mw float64, hours float64) (entities.Asset, error) {
	if strings.TrimSpace(assetID) == "" || mw <= 0 || hours <= 0 {
		return entities.Asset{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Asset{}, err
	}

	requestHash := hashStrings("dispatch", strings.TrimSpace(assetID),
		fmt.Sprintf("%.4f", mw), fmt.Sprintf("%.4f", hours))
	var out entities.Asset
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			asset, err := s.Repo.GetAsset(ctx, strings.TrimSpace(assetID))
			if err != nil {
				return nil, err
			}
			if asset.Status == entities.StatusDispatching {
				return nil, domainerrors.ErrAssetBusy
			}
			if mw > asset.CapacityMW {
				return nil, domainerrors.ErrOverCapacity
			}
			if asset.IsBattery() {
				draw := round4(mw * hours)
				if draw > asset.ChargeMWh {
					return nil, domainerrors.ErrInsufficientCharge
				}
				asset.ChargeMWh = round4(asset.ChargeMWh - draw)
			}
			asset.Status = entities.StatusDispatching
			asset.UpdatedAt = s.now()
			if err := s.Repo.SaveAsset(ctx, asset); err != nil {
				return nil, err
			}

			resolveLogger(s.Logger).Info("asset dispatched",
				"event", "energy_asset_dispatched",
				"module", "finance-core/energy-service",
				"layer", "application",
				"asset_id", asset.AssetID,
				"kind", asset.Kind,
				"mw", mw,
				"hours", hours,
				"charge_mwh", asset.ChargeMWh,
			)
			return json.Marshal(asset)
		},
	)
	return out, err
}

// Charge tops a battery up. Exceeding the maximum is an error rather than a
// silent clamp so callers see the rejected surplus.
func (s Service) Charge(ctx context.Context, idempotencyKey string, assetID string, mwh float64) (entities.Asset, error) {
	if strings.TrimSpace(assetID) == "" || mwh <= 0 {
		return entities.Asset{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Asset{}, err
	}

	requestHash := hashStrings("charge", strings.TrimSpace(assetID), fmt.Sprintf("%.4f", mwh))
	var out entities.Asset
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			asset, err := s.Repo.GetAsset(ctx, strings.TrimSpace(assetID))
			if err != nil {
				return nil, err
			}
			if !asset.IsBattery() {
				return nil, domainerrors.ErrNotBattery
			}
			charged := round4(asset.ChargeMWh + mwh)
			if charged > asset.MaxChargeMWh {
				return nil, domainerrors.ErrOverCharge
			}
			asset.ChargeMWh = charged
			asset.UpdatedAt = s.now()
			if err := s.Repo.SaveAsset(ctx, asset); err != nil {
				return nil, err
			}

			resolveLogger(s.Logger).Info("battery charged",
				"event", "energy_battery_charged",
				"module", "finance-core/energy-service",
				"layer", "application",
				"asset_id", asset.AssetID,
				"charge_mwh", asset.ChargeMWh,
			)
			return json.Marshal(asset)
		},
	)
	return out, err
}

func (s Service) Release(ctx context.Context, idempotencyKey string, assetID string) (entities.Asset, error) {
	if strings.TrimSpace(assetID) == "" {
		return entities.Asset{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Asset{}, err
	}

	requestHash := hashStrings("release", strings.TrimSpace(assetID))
	var out entities.Asset
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			asset, err := s.Repo.GetAsset(ctx, strings.TrimSpace(assetID))
			if err != nil {
				return nil, err
			}
			if asset.Status != entities.StatusDispatching {
				return nil, domainerrors.ErrAssetIdle
			}
			asset.Status = entities.StatusIdle
			asset.UpdatedAt = s.now()
			if err := s.Repo.SaveAsset(ctx, asset); err != nil {
				return nil, err
			}

			resolveLogger(s.Logger).Info("asset released",
				"event", "energy_asset_released",
				"module", "finance-core/energy-service",
				"layer", "application",
				"asset_id", asset.AssetID,
			)
			return json.Marshal(asset)
		},
	)
	return out, err
}

func (s Service) GetAsset(ctx context.Context, assetID string) (entities.Asset, error) {
	if strings.TrimSpace(assetID) == "" {
		return entities.Asset{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetAsset(ctx, strings.TrimSpace(assetID))
}

func (s Service) ListAssetsByOwner(ctx context.Context, ownerID string) ([]entities.Asset, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListAssetsByOwner(ctx, strings.TrimSpace(ownerID))
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

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
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
