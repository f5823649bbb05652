package governmentstructure

import (
	"context"
	"errors"
	"testing"

	domainerrors "statecraft/contexts/legislation/government-structure/domain/errors"
)

func TestSeatCountTable(t *testing.T) {
	module, err := NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed module failed: %v", err)
	}

	cases := []struct {
		chamber string
		state   string
		want    int
	}{
		{"house", "CA", 52},
		{"house", "TX", 38},
		{"house", "WY", 1},
		{"house", "DC", 1},
		{"senate", "CA", 2},
		{"senate", "WY", 2},
	}
	for _, tc := range cases {
		got, err := module.Structure.SeatCount(context.Background(), tc.chamber, tc.state)
		if err != nil {
			t.Fatalf("seat count %s/%s failed: %v", tc.chamber, tc.state, err)
		}
		if got != tc.want {
			t.Fatalf("seat count %s/%s = %d, want %d", tc.chamber, tc.state, got, tc.want)
		}
	}
}

func TestSeatCountCoversAllStates(t *testing.T) {
	module, err := NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed module failed: %v", err)
	}

	delegations, err := module.Structure.Delegations(context.Background(), "house")
	if err != nil {
		t.Fatalf("delegations failed: %v", err)
	}
	if len(delegations) != 51 {
		t.Fatalf("expected 51 house delegations, got %d", len(delegations))
	}
	houseTotal := 0
	votingTotal := 0
	for _, delegation := range delegations {
		houseTotal += delegation.HouseSeats
		if delegation.Voting {
			votingTotal += delegation.HouseSeats
		}
	}
	if houseTotal != 436 {
		t.Fatalf("house seats incl. DC = %d, want 436", houseTotal)
	}
	if votingTotal != 435 {
		t.Fatalf("house voting seats = %d, want 435", votingTotal)
	}
}

func TestSeatCountUnknowns(t *testing.T) {
	module, err := NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed module failed: %v", err)
	}

	if _, err := module.Structure.SeatCount(context.Background(), "house", "ZZ"); !errors.Is(err, domainerrors.ErrUnknownState) {
		t.Fatalf("expected unknown state, got %v", err)
	}
	if _, err := module.Structure.SeatCount(context.Background(), "senate", "DC"); !errors.Is(err, domainerrors.ErrUnknownState) {
		t.Fatalf("expected DC unknown in senate, got %v", err)
	}
	if _, err := module.Structure.SeatCount(context.Background(), "parliament", "CA"); !errors.Is(err, domainerrors.ErrUnknownChamber) {
		t.Fatalf("expected unknown chamber, got %v", err)
	}
}

func TestTallyWeightNonVotingDelegate(t *testing.T) {
	module, err := NewSeedModule(nil)
	if err != nil {
		t.Fatalf("seed module failed: %v", err)
	}

	weight, err := module.Structure.TallyWeight(context.Background(), "house", "DC")
	if err != nil {
		t.Fatalf("tally weight failed: %v", err)
	}
	if weight != 0 {
		t.Fatalf("DC delegate tally weight = %d, want 0", weight)
	}
	weight, err = module.Structure.TallyWeight(context.Background(), "house", "CA")
	if err != nil {
		t.Fatalf("tally weight failed: %v", err)
	}
	if weight != 52 {
		t.Fatalf("CA tally weight = %d, want 52", weight)
	}
}
