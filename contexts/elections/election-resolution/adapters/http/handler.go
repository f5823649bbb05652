package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/elections/election-resolution/application"
	"statecraft/contexts/elections/election-resolution/domain/entities"
	httptransport "statecraft/contexts/elections/election-resolution/transport/http"
)

type Handler struct {
	Elections application.Service
	Logger    *slog.Logger
}

func (h Handler) ResolveElectionHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.ResolveElectionRequest,
) (httptransport.ElectionResultResponse, error) {
	races := make([]entities.StateRace, 0, len(req.Races))
	for _, race := range req.Races {
		races = append(races, entities.StateRace{
			State:          race.State,
			ElectoralVotes: race.ElectoralVotes,
			PollMarginPct:  race.PollMarginPct,
			Momentum:       race.Momentum,
			Volatility:     race.Volatility,
		})
	}
	result, replayed, err := h.Elections.Resolve(ctx, idempotencyKey, races)
	if err != nil {
		return httptransport.ElectionResultResponse{}, err
	}
	resp := mapResult(result)
	resp.Replayed = replayed
	return resp, nil
}

func (h Handler) GetResultHandler(ctx context.Context, projectionID string) (httptransport.ElectionResultResponse, error) {
	result, err := h.Elections.GetResult(ctx, projectionID)
	if err != nil {
		return httptransport.ElectionResultResponse{}, err
	}
	return mapResult(result), nil
}

func (h Handler) ListResultsHandler(ctx context.Context, limit int) (httptransport.ElectionResultsResponse, error) {
	results, err := h.Elections.ListResults(ctx, limit)
	if err != nil {
		return httptransport.ElectionResultsResponse{}, err
	}
	items := make([]httptransport.ElectionResultResponse, 0, len(results))
	for _, result := range results {
		items = append(items, mapResult(result))
	}
	return httptransport.ElectionResultsResponse{Items: items}, nil
}

func mapResult(result entities.ElectionResult) httptransport.ElectionResultResponse {
	states := make([]httptransport.StateProjectionResponse, 0, len(result.States))
	for _, projection := range result.States {
		states = append(states, httptransport.StateProjectionResponse{
			State:          projection.State,
			ElectoralVotes: projection.ElectoralVotes,
			Leader:         projection.Leader,
			WinProbability: projection.WinProbability,
			Called:         projection.Called,
		})
	}
	return httptransport.ElectionResultResponse{
		ProjectionID: result.ProjectionID,
		ElectoralA:   result.ElectoralA,
		ElectoralB:   result.ElectoralB,
		TossupVotes:  result.TossupVotes,
		Winner:       result.Winner,
		States:       states,
	}
}
