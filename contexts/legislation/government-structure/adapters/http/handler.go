package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"statecraft/contexts/legislation/government-structure/application"
	httptransport "statecraft/contexts/legislation/government-structure/transport/http"
)

type Handler struct {
	Structure application.Service
	Logger    *slog.Logger
}

func (h Handler) ChambersHandler(ctx context.Context) (httptransport.ChambersResponse, error) {
	chambers, err := h.Structure.Chambers(ctx)
	if err != nil {
		return httptransport.ChambersResponse{}, err
	}
	items := make([]httptransport.ChamberResponse, 0, len(chambers))
	for _, chamber := range chambers {
		items = append(items, httptransport.ChamberResponse{
			ID:             string(chamber.ID),
			SeatsTotal:     chamber.SeatsTotal,
			QuorumFraction: chamber.QuorumFraction,
		})
	}
	return httptransport.ChambersResponse{Items: items}, nil
}

func (h Handler) DelegationsHandler(ctx context.Context, chamber string) (httptransport.DelegationsResponse, error) {
	delegations, err := h.Structure.Delegations(ctx, chamber)
	if err != nil {
		return httptransport.DelegationsResponse{}, err
	}
	items := make([]httptransport.DelegationItem, 0, len(delegations))
	for _, delegation := range delegations {
		items = append(items, httptransport.DelegationItem{
			State:       delegation.State,
			HouseSeats:  delegation.HouseSeats,
			SenateSeats: delegation.SenateSeats,
			Voting:      delegation.Voting,
		})
	}
	return httptransport.DelegationsResponse{
		Chamber: strings.ToLower(strings.TrimSpace(chamber)),
		Items:   items,
	}, nil
}

func (h Handler) SeatCountHandler(ctx context.Context, chamber string, state string) (httptransport.SeatCountResponse, error) {
	count, err := h.Structure.SeatCount(ctx, chamber, state)
	if err != nil {
		return httptransport.SeatCountResponse{}, err
	}
	return httptransport.SeatCountResponse{
		Chamber:   strings.ToLower(strings.TrimSpace(chamber)),
		State:     strings.ToUpper(strings.TrimSpace(state)),
		SeatCount: count,
	}, nil
}
