package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/internal-ops/consulting-service/application"
	"statecraft/contexts/internal-ops/consulting-service/ports"
	httptransport "statecraft/contexts/internal-ops/consulting-service/transport/http"
)

type Handler struct {
	Consulting application.Service
	Logger     *slog.Logger
}

func (h Handler) RecordEngagementHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.RecordEngagementRequest,
) (httptransport.EngagementResponse, error) {
	engagement, err := h.Consulting.RecordEngagement(ctx, idempotencyKey, application.RecordEngagementInput{
		OwnerID:        req.OwnerID,
		ClientID:       req.ClientID,
		Sector:         req.Sector,
		Revenue:        req.Revenue,
		HoursBilled:    req.HoursBilled,
		HoursAvailable: req.HoursAvailable,
	})
	if err != nil {
		return httptransport.EngagementResponse{}, err
	}
	return mapEngagement(engagement), nil
}

func (h Handler) MetricsHandler(ctx context.Context, ownerID string) (httptransport.MetricsResponse, error) {
	metrics, err := h.Consulting.Metrics(ctx, ownerID)
	if err != nil {
		return httptransport.MetricsResponse{}, err
	}
	sectors := make([]httptransport.SectorRollupResponse, 0, len(metrics.Sectors))
	for _, rollup := range metrics.Sectors {
		sectors = append(sectors, httptransport.SectorRollupResponse{
			Sector:          rollup.Sector,
			Revenue:         rollup.Revenue,
			EngagementCount: rollup.EngagementCount,
		})
	}
	return httptransport.MetricsResponse{
		OwnerID:            metrics.OwnerID,
		EngagementCount:    metrics.EngagementCount,
		TotalRevenue:       metrics.TotalRevenue,
		AverageUtilization: metrics.AverageUtilization,
		Sectors:            sectors,
	}, nil
}

func (h Handler) ListEngagementsHandler(ctx context.Context, ownerID string) (httptransport.EngagementsResponse, error) {
	engagements, err := h.Consulting.ListEngagements(ctx, ownerID)
	if err != nil {
		return httptransport.EngagementsResponse{}, err
	}
	items := make([]httptransport.EngagementResponse, 0, len(engagements))
	for _, engagement := range engagements {
		items = append(items, mapEngagement(engagement))
	}
	return httptransport.EngagementsResponse{Items: items}, nil
}

func mapEngagement(engagement ports.Engagement) httptransport.EngagementResponse {
	return httptransport.EngagementResponse{
		EngagementID:   engagement.EngagementID,
		OwnerID:        engagement.OwnerID,
		ClientID:       engagement.ClientID,
		Sector:         engagement.Sector,
		Revenue:        engagement.Revenue,
		HoursBilled:    engagement.HoursBilled,
		HoursAvailable: engagement.HoursAvailable,
		RecordedAt:     engagement.RecordedAt,
	}
}
