package electionresolution

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/elections/election-resolution/domain/entities"
	domainerrors "statecraft/contexts/elections/election-resolution/domain/errors"
)

func testRaces() []entities.StateRace {
	return []entities.StateRace{
		{State: "CA", ElectoralVotes: 200, PollMarginPct: 20},
		{State: "TX", ElectoralVotes: 80, PollMarginPct: 12},
		{State: "FL", ElectoralVotes: 100, PollMarginPct: -20},
	}
}

func TestResolvePersistsAndReplays(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	first, replayed, err := module.Elections.Resolve(ctx, "resolve-1", testRaces())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if replayed {
		t.Fatalf("first resolution flagged replayed")
	}
	if first.Winner != entities.LeaderA {
		t.Fatalf("winner = %q, want a", first.Winner)
	}

	stored, err := module.Elections.GetResult(ctx, first.ProjectionID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if stored.ElectoralA != first.ElectoralA || len(stored.States) != 3 {
		t.Fatalf("stored result does not match resolution: %+v", stored)
	}

	second, replayed, err := module.Elections.Resolve(ctx, "resolve-1", testRaces())
	if err != nil {
		t.Fatalf("replay resolve: %v", err)
	}
	if !replayed || second.ProjectionID != first.ProjectionID {
		t.Fatalf("same key and races must replay the stored result")
	}
}

func TestResolveOrderInsensitiveHash(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	races := testRaces()
	if _, _, err := module.Elections.Resolve(ctx, "resolve-1", races); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	reversed := []entities.StateRace{races[2], races[1], races[0]}
	_, replayed, err := module.Elections.Resolve(ctx, "resolve-1", reversed)
	if err != nil {
		t.Fatalf("resolve reversed: %v", err)
	}
	if !replayed {
		t.Fatalf("race order must not change the request hash")
	}
}

func TestResolveKeyConflict(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	if _, _, err := module.Elections.Resolve(ctx, "resolve-1", testRaces()); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	changed := testRaces()
	changed[0].PollMarginPct = -20
	if _, _, err := module.Elections.Resolve(ctx, "resolve-1", changed); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("same key with new races: got %v, want ErrIdempotencyConflict", err)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	if _, _, err := module.Elections.Resolve(ctx, "resolve-1", nil); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("empty races: got %v, want ErrInvalidInput", err)
	}
	if _, _, err := module.Elections.Resolve(ctx, "", testRaces()); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyMissing", err)
	}
	bad := testRaces()
	bad[0].ElectoralVotes = 0
	if _, _, err := module.Elections.Resolve(ctx, "resolve-1", bad); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("zero electoral votes: got %v, want ErrInvalidInput", err)
	}
	if _, err := module.Elections.GetResult(ctx, "missing"); !errors.Is(err, domainerrors.ErrResultNotFound) {
		t.Fatalf("missing result: got %v, want ErrResultNotFound", err)
	}
}
