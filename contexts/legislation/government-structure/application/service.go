package application

import (
	"context"
	"strings"

	"statecraft/contexts/legislation/government-structure/domain/entities"
	domainerrors "statecraft/contexts/legislation/government-structure/domain/errors"
	"statecraft/contexts/legislation/government-structure/ports"
)

// Service answers seat-count and quorum questions for the rest of the
// legislation context. It is read-only over seeded tables.
type Service struct {
	Repo ports.StructureRepository
}

func (s Service) Chamber(ctx context.Context, chamber string) (entities.Chamber, error) {
	return s.Repo.GetChamber(ctx, normalizeChamber(chamber))
}

func (s Service) Chambers(ctx context.Context) ([]entities.Chamber, error) {
	return s.Repo.ListChambers(ctx)
}

func (s Service) Delegations(ctx context.Context, chamber string) ([]entities.Delegation, error) {
	if _, err := s.Repo.GetChamber(ctx, normalizeChamber(chamber)); err != nil {
		return nil, err
	}
	all, err := s.Repo.ListDelegations(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]entities.Delegation, 0, len(all))
	for _, delegation := range all {
		if normalizeChamber(chamber) == entities.ChamberSenate && delegation.SenateSeats == 0 {
			continue
		}
		items = append(items, delegation)
	}
	return items, nil
}

// SeatCount returns the delegation table value for the chamber/state pair.
// DC resolves for the house (one delegate) and is unknown in the senate.
func (s Service) SeatCount(ctx context.Context, chamber string, state string) (int, error) {
	id := normalizeChamber(chamber)
	if id != entities.ChamberHouse && id != entities.ChamberSenate {
		return 0, domainerrors.ErrUnknownChamber
	}
	delegation, err := s.Repo.GetDelegation(ctx, state)
	if err != nil {
		return 0, err
	}
	if id == entities.ChamberSenate {
		if delegation.SenateSeats == 0 {
			return 0, domainerrors.ErrUnknownState
		}
		return delegation.SenateSeats, nil
	}
	return delegation.HouseSeats, nil
}

// TallyWeight is the weight a member's vote carries on the chamber floor.
// Non-voting delegations (the DC delegate) weigh zero in tallies even though
// their seat count is nonzero for payment purposes.
func (s Service) TallyWeight(ctx context.Context, chamber string, state string) (int, error) {
	delegation, err := s.Repo.GetDelegation(ctx, state)
	if err != nil {
		return 0, err
	}
	if !delegation.Voting {
		return 0, nil
	}
	return s.SeatCount(ctx, chamber, state)
}

func (s Service) QuorumFraction(ctx context.Context, chamber string) (float64, error) {
	row, err := s.Repo.GetChamber(ctx, normalizeChamber(chamber))
	if err != nil {
		return 0, err
	}
	return row.QuorumFraction, nil
}

func (s Service) SeatsTotal(ctx context.Context, chamber string) (int, error) {
	row, err := s.Repo.GetChamber(ctx, normalizeChamber(chamber))
	if err != nil {
		return 0, err
	}
	return row.SeatsTotal, nil
}

func normalizeChamber(chamber string) entities.ChamberID {
	return entities.ChamberID(strings.ToLower(strings.TrimSpace(chamber)))
}
