package crimeservice

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/underworld/crime-service/application"
	"statecraft/contexts/underworld/crime-service/domain/entities"
	domainerrors "statecraft/contexts/underworld/crime-service/domain/errors"
)

func createFacility(t *testing.T, module Module, key string, heat float64) entities.Facility {
	t.Helper()
	facility, err := module.Crime.CreateFacility(context.Background(), key, application.CreateFacilityInput{
		OwnerID:   "boss-1",
		Kind:      "warehouse",
		HeatLevel: heat,
	})
	if err != nil {
		t.Fatalf("create facility: %v", err)
	}
	return facility
}

func TestRaidFacilityIsTerminal(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	facility := createFacility(t, module, "key-f-1", 10)

	route, err := module.Crime.CreateRoute(ctx, "key-rt-1", application.CreateRouteInput{
		FacilityID: facility.FacilityID, Origin: "docks", Destination: "border",
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if !route.Active {
		t.Fatalf("new route must be active")
	}

	raided, err := module.Crime.RaidFacility(ctx, "key-raid-1", facility.FacilityID)
	if err != nil {
		t.Fatalf("raid: %v", err)
	}
	if raided.Status != entities.FacilityStatusRaided {
		t.Fatalf("status = %q after raid", raided.Status)
	}

	if _, err := module.Crime.RaidFacility(ctx, "key-raid-2", facility.FacilityID); !errors.Is(err, domainerrors.ErrFacilityRaided) {
		t.Fatalf("second raid: got %v, want ErrFacilityRaided", err)
	}
	if _, err := module.Crime.ExposeFacility(ctx, "key-exp-1", facility.FacilityID); !errors.Is(err, domainerrors.ErrFacilityRaided) {
		t.Fatalf("expose after raid: got %v, want ErrFacilityRaided", err)
	}

	routes, err := module.Crime.ListRoutesByFacility(ctx, facility.FacilityID)
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 1 || routes[0].Active {
		t.Fatalf("raid must deactivate routes: %+v", routes)
	}
}

func TestRaidRetrySameKeyReplaysResult(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	facility := createFacility(t, module, "key-f-1", 10)

	first, err := module.Crime.RaidFacility(ctx, "key-raid-1", facility.FacilityID)
	if err != nil {
		t.Fatalf("raid: %v", err)
	}

	// A retried delivery with the same key replays the recorded result
	// instead of reporting the facility as already raided.
	retried, err := module.Crime.RaidFacility(ctx, "key-raid-1", facility.FacilityID)
	if err != nil {
		t.Fatalf("retried raid: %v", err)
	}
	if retried.Status != first.Status || retried.FacilityID != first.FacilityID {
		t.Fatalf("retry returned %+v, want replay of %+v", retried, first)
	}

	if _, err := module.Crime.RaidFacility(ctx, "key-raid-1", "other-facility"); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("reused key: got %v, want ErrIdempotencyConflict", err)
	}
	if _, err := module.Crime.RaidFacility(ctx, "", facility.FacilityID); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyMissing", err)
	}
}

func TestCreateFacilityRetrySameKeyReturnsSameFacility(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	first := createFacility(t, module, "key-f-1", 10)
	retried := createFacility(t, module, "key-f-1", 10)
	if retried.FacilityID != first.FacilityID {
		t.Fatalf("retry created a second facility: %s vs %s", retried.FacilityID, first.FacilityID)
	}

	facilities, err := module.Crime.ListFacilitiesByOwner(ctx, "boss-1")
	if err != nil {
		t.Fatalf("list facilities: %v", err)
	}
	if len(facilities) != 1 {
		t.Fatalf("facility count after retry = %d, want 1", len(facilities))
	}
}

func TestExposedFacilityCanStillBeRaided(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	facility := createFacility(t, module, "key-f-1", 10)

	exposed, err := module.Crime.ExposeFacility(ctx, "key-exp-1", facility.FacilityID)
	if err != nil {
		t.Fatalf("expose: %v", err)
	}
	if exposed.Status != entities.FacilityStatusExposed {
		t.Fatalf("status = %q after expose", exposed.Status)
	}
	if _, err := module.Crime.RaidFacility(ctx, "key-raid-1", facility.FacilityID); err != nil {
		t.Fatalf("raid exposed facility: %v", err)
	}
}

func TestRouteRiskFromChannelsAndHeat(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	facility := createFacility(t, module, "key-f-1", 20)

	// No channels: default base 25 plus half the heat.
	route, err := module.Crime.CreateRoute(ctx, "key-rt-1", application.CreateRouteInput{
		FacilityID: facility.FacilityID, Origin: "docks", Destination: "border",
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if route.RiskScore != 35 {
		t.Fatalf("risk = %v, want 35 (25 base + 10 heat)", route.RiskScore)
	}

	// An unencrypted internet channel raises the base to 45.
	if _, err := module.Crime.CreateChannel(ctx, "key-ch-1", application.CreateChannelInput{
		FacilityID: facility.FacilityID, Medium: "internet",
	}); err != nil {
		t.Fatalf("create channel: %v", err)
	}
	recomputed, err := module.Crime.RecomputeRouteRisk(ctx, "key-rr-1", route.RouteID)
	if err != nil {
		t.Fatalf("recompute risk: %v", err)
	}
	if recomputed.RiskScore != 55 {
		t.Fatalf("risk = %v, want 55 (45 base + 10 heat)", recomputed.RiskScore)
	}
}

func TestRouteRiskEncryptionAndClamp(t *testing.T) {
	hot := entities.Facility{HeatLevel: 100}
	channels := []entities.Channel{{Medium: "internet"}}
	if risk := entities.RouteRisk(hot, channels); risk != 95 {
		t.Fatalf("risk = %v, want 95 (45 + 50 heat)", risk)
	}

	// Encrypting the channel drops its contribution below the default base.
	encrypted := []entities.Channel{{Medium: "internet", Encrypted: true}}
	if risk := entities.RouteRisk(entities.Facility{HeatLevel: 0}, encrypted); risk != 25 {
		t.Fatalf("risk = %v, want default base 25", risk)
	}
}

func TestCreateFacilityValidation(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Crime.CreateFacility(ctx, "key-f-bad", application.CreateFacilityInput{
		OwnerID: "boss-1", Kind: "lab", HeatLevel: 150,
	}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("heat above 100: got %v, want ErrInvalidInput", err)
	}
	if _, err := module.Crime.CreateRoute(ctx, "key-rt-bad", application.CreateRouteInput{
		FacilityID: "missing", Origin: "a", Destination: "b",
	}); !errors.Is(err, domainerrors.ErrFacilityNotFound) {
		t.Fatalf("route on missing facility: got %v, want ErrFacilityNotFound", err)
	}
	if _, err := module.Crime.CreateChannel(ctx, "key-ch-bad", application.CreateChannelInput{
		FacilityID: "missing", Medium: "phone",
	}); !errors.Is(err, domainerrors.ErrFacilityNotFound) {
		t.Fatalf("channel on missing facility: got %v, want ErrFacilityNotFound", err)
	}
}
