package ports

import (
	"context"

	"statecraft/contexts/legislation/government-structure/domain/entities"
)

type StructureRepository interface {
	GetChamber(ctx context.Context, chamber entities.ChamberID) (entities.Chamber, error)
	ListChambers(ctx context.Context) ([]entities.Chamber, error)
	GetDelegation(ctx context.Context, state string) (entities.Delegation, error)
	ListDelegations(ctx context.Context) ([]entities.Delegation, error)
}
