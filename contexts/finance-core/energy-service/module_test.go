package energyservice

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/finance-core/energy-service/application"
	"statecraft/contexts/finance-core/energy-service/domain/entities"
	domainerrors "statecraft/contexts/finance-core/energy-service/domain/errors"
)

func registerAsset(t *testing.T, module Module, key string, input application.RegisterAssetInput) entities.Asset {
	t.Helper()
	asset, err := module.Energy.RegisterAsset(context.Background(), key, input)
	if err != nil {
		t.Fatalf("register asset: %v", err)
	}
	return asset
}

func TestDispatchPlantBoundedByCapacity(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	plant := registerAsset(t, module, "key-reg-1", application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "plant", CapacityMW: 500,
	})

	if _, err := module.Energy.Dispatch(ctx, "key-d-1", plant.AssetID, 600, 2); !errors.Is(err, domainerrors.ErrOverCapacity) {
		t.Fatalf("over capacity: got %v, want ErrOverCapacity", err)
	}

	dispatched, err := module.Energy.Dispatch(ctx, "key-d-2", plant.AssetID, 500, 2)
	if err != nil {
		t.Fatalf("dispatch at nameplate: %v", err)
	}
	if dispatched.Status != entities.StatusDispatching {
		t.Fatalf("status = %q after dispatch", dispatched.Status)
	}

	// One cycle at a time.
	if _, err := module.Energy.Dispatch(ctx, "key-d-3", plant.AssetID, 100, 1); !errors.Is(err, domainerrors.ErrAssetBusy) {
		t.Fatalf("double dispatch: got %v, want ErrAssetBusy", err)
	}

	released, err := module.Energy.Release(ctx, "key-r-1", plant.AssetID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != entities.StatusIdle {
		t.Fatalf("status = %q after release", released.Status)
	}
	if _, err := module.Energy.Release(ctx, "key-r-2", plant.AssetID); !errors.Is(err, domainerrors.ErrAssetIdle) {
		t.Fatalf("double release: got %v, want ErrAssetIdle", err)
	}
}

func TestDispatchBatteryDrainsCharge(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	battery := registerAsset(t, module, "key-reg-1", application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "battery", CapacityMW: 100, ChargeMWh: 150, MaxChargeMWh: 200,
	})

	// 100 MW for 2 hours needs 200 MWh but only 150 is stored.
	if _, err := module.Energy.Dispatch(ctx, "key-d-1", battery.AssetID, 100, 2); !errors.Is(err, domainerrors.ErrInsufficientCharge) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientCharge", err)
	}

	drained, err := module.Energy.Dispatch(ctx, "key-d-2", battery.AssetID, 50, 2)
	if err != nil {
		t.Fatalf("dispatch battery: %v", err)
	}
	if drained.ChargeMWh != 50 {
		t.Fatalf("charge = %v MWh after 100 MWh draw, want 50", drained.ChargeMWh)
	}
}

func TestDispatchRetrySameKeyDoesNotDrainTwice(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	battery := registerAsset(t, module, "key-reg-1", application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "battery", CapacityMW: 10, ChargeMWh: 20, MaxChargeMWh: 20,
	})

	first, err := module.Energy.Dispatch(ctx, "key-d-1", battery.AssetID, 5, 2)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if first.ChargeMWh != 10 {
		t.Fatalf("charge = %v after 10 MWh draw, want 10", first.ChargeMWh)
	}

	// A retried delivery replays the recorded result instead of draining
	// the battery again.
	retried, err := module.Energy.Dispatch(ctx, "key-d-1", battery.AssetID, 5, 2)
	if err != nil {
		t.Fatalf("retried dispatch: %v", err)
	}
	if retried.ChargeMWh != 10 {
		t.Fatalf("retry was not replayed: charge %v, want 10", retried.ChargeMWh)
	}
	stored, err := module.Energy.GetAsset(ctx, battery.AssetID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if stored.ChargeMWh != 10 {
		t.Fatalf("stored charge = %v after retry, want 10", stored.ChargeMWh)
	}

	// Same key with different parameters is a conflict, never a second draw.
	if _, err := module.Energy.Dispatch(ctx, "key-d-1", battery.AssetID, 5, 1); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("reused key: got %v, want ErrIdempotencyConflict", err)
	}

	if _, err := module.Energy.Dispatch(ctx, "", battery.AssetID, 5, 2); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyMissing", err)
	}
}

func TestRegisterAssetRetrySameKeyReturnsSameAsset(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	input := application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "plant", CapacityMW: 250,
	}

	first, err := module.Energy.RegisterAsset(ctx, "key-reg-1", input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	retried, err := module.Energy.RegisterAsset(ctx, "key-reg-1", input)
	if err != nil {
		t.Fatalf("retried register: %v", err)
	}
	if retried.AssetID != first.AssetID {
		t.Fatalf("retry created a second asset: %s vs %s", retried.AssetID, first.AssetID)
	}

	assets, err := module.Energy.ListAssetsByOwner(ctx, "player-1")
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("asset count after retry = %d, want 1", len(assets))
	}
}

func TestChargeBatteryRejectsOvercharge(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	battery := registerAsset(t, module, "key-reg-1", application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "battery", CapacityMW: 100, ChargeMWh: 150, MaxChargeMWh: 200,
	})
	plant := registerAsset(t, module, "key-reg-2", application.RegisterAssetInput{
		OwnerID: "player-1", Kind: "plant", CapacityMW: 100,
	})

	if _, err := module.Energy.Charge(ctx, "key-c-1", battery.AssetID, 60); !errors.Is(err, domainerrors.ErrOverCharge) {
		t.Fatalf("overcharge: got %v, want ErrOverCharge", err)
	}
	charged, err := module.Energy.Charge(ctx, "key-c-2", battery.AssetID, 50)
	if err != nil {
		t.Fatalf("charge to maximum: %v", err)
	}
	if charged.ChargeMWh != 200 {
		t.Fatalf("charge = %v, want 200", charged.ChargeMWh)
	}

	if _, err := module.Energy.Charge(ctx, "key-c-3", plant.AssetID, 10); !errors.Is(err, domainerrors.ErrNotBattery) {
		t.Fatalf("charge a plant: got %v, want ErrNotBattery", err)
	}
}

func TestRegisterAssetValidation(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()

	cases := []application.RegisterAssetInput{
		{OwnerID: "", Kind: "plant", CapacityMW: 100},
		{OwnerID: "player-1", Kind: "windmill", CapacityMW: 100},
		{OwnerID: "player-1", Kind: "plant", CapacityMW: 0},
		{OwnerID: "player-1", Kind: "battery", CapacityMW: 100, MaxChargeMWh: 0},
		{OwnerID: "player-1", Kind: "battery", CapacityMW: 100, ChargeMWh: 300, MaxChargeMWh: 200},
	}
	for _, input := range cases {
		if _, err := module.Energy.RegisterAsset(ctx, "key-reg-bad", input); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("input %+v: got %v, want ErrInvalidInput", input, err)
		}
	}

	assets, err := module.Energy.ListAssetsByOwner(ctx, "player-1")
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(assets) != 0 {
		t.Fatalf("rejected inputs persisted assets: %d", len(assets))
	}
}
