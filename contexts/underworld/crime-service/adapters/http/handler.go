package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/underworld/crime-service/application"
	"statecraft/contexts/underworld/crime-service/domain/entities"
	httptransport "statecraft/contexts/underworld/crime-service/transport/http"
)

type Handler struct {
	Crime  application.Service
	Logger *slog.Logger
}

func (h Handler) CreateFacilityHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateFacilityRequest,
) (httptransport.FacilityResponse, error) {
	facility, err := h.Crime.CreateFacility(ctx, idempotencyKey, application.CreateFacilityInput{
		OwnerID:   req.OwnerID,
		Kind:      req.Kind,
		HeatLevel: req.HeatLevel,
	})
	if err != nil {
		return httptransport.FacilityResponse{}, err
	}
	return mapFacility(facility), nil
}

func (h Handler) GetFacilityHandler(ctx context.Context, facilityID string) (httptransport.FacilityResponse, error) {
	facility, err := h.Crime.GetFacility(ctx, facilityID)
	if err != nil {
		return httptransport.FacilityResponse{}, err
	}
	return mapFacility(facility), nil
}

func (h Handler) ListFacilitiesHandler(ctx context.Context, ownerID string) (httptransport.FacilitiesResponse, error) {
	facilities, err := h.Crime.ListFacilitiesByOwner(ctx, ownerID)
	if err != nil {
		return httptransport.FacilitiesResponse{}, err
	}
	items := make([]httptransport.FacilityResponse, 0, len(facilities))
	for _, facility := range facilities {
		items = append(items, mapFacility(facility))
	}
	return httptransport.FacilitiesResponse{Items: items}, nil
}

func (h Handler) ExposeFacilityHandler(ctx context.Context, idempotencyKey string, facilityID string) (httptransport.FacilityResponse, error) {
	facility, err := h.Crime.ExposeFacility(ctx, idempotencyKey, facilityID)
	if err != nil {
		return httptransport.FacilityResponse{}, err
	}
	return mapFacility(facility), nil
}

func (h Handler) RaidFacilityHandler(ctx context.Context, idempotencyKey string, facilityID string) (httptransport.FacilityResponse, error) {
	facility, err := h.Crime.RaidFacility(ctx, idempotencyKey, facilityID)
	if err != nil {
		return httptransport.FacilityResponse{}, err
	}
	return mapFacility(facility), nil
}

func (h Handler) CreateRouteHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateRouteRequest,
) (httptransport.RouteResponse, error) {
	route, err := h.Crime.CreateRoute(ctx, idempotencyKey, application.CreateRouteInput{
		FacilityID:  req.FacilityID,
		Origin:      req.Origin,
		Destination: req.Destination,
	})
	if err != nil {
		return httptransport.RouteResponse{}, err
	}
	return mapRoute(route), nil
}

func (h Handler) GetRouteHandler(ctx context.Context, routeID string) (httptransport.RouteResponse, error) {
	route, err := h.Crime.GetRoute(ctx, routeID)
	if err != nil {
		return httptransport.RouteResponse{}, err
	}
	return mapRoute(route), nil
}

func (h Handler) ListRoutesHandler(ctx context.Context, facilityID string) (httptransport.RoutesResponse, error) {
	routes, err := h.Crime.ListRoutesByFacility(ctx, facilityID)
	if err != nil {
		return httptransport.RoutesResponse{}, err
	}
	items := make([]httptransport.RouteResponse, 0, len(routes))
	for _, route := range routes {
		items = append(items, mapRoute(route))
	}
	return httptransport.RoutesResponse{Items: items}, nil
}

func (h Handler) RecomputeRouteRiskHandler(ctx context.Context, idempotencyKey string, routeID string) (httptransport.RouteResponse, error) {
	route, err := h.Crime.RecomputeRouteRisk(ctx, idempotencyKey, routeID)
	if err != nil {
		return httptransport.RouteResponse{}, err
	}
	return mapRoute(route), nil
}

func (h Handler) CreateChannelHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateChannelRequest,
) (httptransport.ChannelResponse, error) {
	channel, err := h.Crime.CreateChannel(ctx, idempotencyKey, application.CreateChannelInput{
		FacilityID: req.FacilityID,
		Medium:     req.Medium,
		Encrypted:  req.Encrypted,
	})
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) GetChannelHandler(ctx context.Context, channelID string) (httptransport.ChannelResponse, error) {
	channel, err := h.Crime.GetChannel(ctx, channelID)
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) ListChannelsHandler(ctx context.Context, facilityID string) (httptransport.ChannelsResponse, error) {
	channels, err := h.Crime.ListChannelsByFacility(ctx, facilityID)
	if err != nil {
		return httptransport.ChannelsResponse{}, err
	}
	items := make([]httptransport.ChannelResponse, 0, len(channels))
	for _, channel := range channels {
		items = append(items, mapChannel(channel))
	}
	return httptransport.ChannelsResponse{Items: items}, nil
}

func mapFacility(facility entities.Facility) httptransport.FacilityResponse {
	return httptransport.FacilityResponse{
		FacilityID: facility.FacilityID,
		OwnerID:    facility.OwnerID,
		Kind:       facility.Kind,
		HeatLevel:  facility.HeatLevel,
		Status:     facility.Status,
	}
}

func mapRoute(route entities.Route) httptransport.RouteResponse {
	return httptransport.RouteResponse{
		RouteID:     route.RouteID,
		FacilityID:  route.FacilityID,
		Origin:      route.Origin,
		Destination: route.Destination,
		RiskScore:   route.RiskScore,
		Active:      route.Active,
	}
}

func mapChannel(channel entities.Channel) httptransport.ChannelResponse {
	return httptransport.ChannelResponse{
		ChannelID:  channel.ChannelID,
		FacilityID: channel.FacilityID,
		Medium:     channel.Medium,
		Encrypted:  channel.Encrypted,
	}
}
