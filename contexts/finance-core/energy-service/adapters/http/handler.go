package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/finance-core/energy-service/application"
	"statecraft/contexts/finance-core/energy-service/domain/entities"
	httptransport "statecraft/contexts/finance-core/energy-service/transport/http"
)

type Handler struct {
	Energy application.Service
	Logger *slog.Logger
}

func (h Handler) RegisterAssetHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.RegisterAssetRequest,
) (httptransport.AssetResponse, error) {
	asset, err := h.Energy.RegisterAsset(ctx, idempotencyKey, application.RegisterAssetInput{
		OwnerID:      req.OwnerID,
		Kind:         req.Kind,
		CapacityMW:   req.CapacityMW,
		ChargeMWh:    req.ChargeMWh,
		MaxChargeMWh: req.MaxChargeMWh,
	})
	if err != nil {
		return httptransport.AssetResponse{}, err
	}
	return mapAsset(asset), nil
}

func (h Handler) DispatchHandler(
	ctx context.Context,
	idempotencyKey string,
	assetID string,
	req httptransport.DispatchRequest,
) (httptransport.AssetResponse, error) {
	asset, err := h.Energy.Dispatch(ctx, idempotencyKey, assetID, req.MW, req.Hours)
	if err != nil {
		return httptransport.AssetResponse{}, err
	}
	return mapAsset(asset), nil
}

func (h Handler) ChargeHandler(
	ctx context.Context,
	idempotencyKey string,
	assetID string,
	req httptransport.ChargeRequest,
) (httptransport.AssetResponse, error) {
	asset, err := h.Energy.Charge(ctx, idempotencyKey, assetID, req.MWh)
	if err != nil {
		return httptransport.AssetResponse{}, err
	}
	return mapAsset(asset), nil
}

func (h Handler) ReleaseHandler(ctx context.Context, idempotencyKey string, assetID string) (httptransport.AssetResponse, error) {
	asset, err := h.Energy.Release(ctx, idempotencyKey, assetID)
	if err != nil {
		return httptransport.AssetResponse{}, err
	}
	return mapAsset(asset), nil
}

func (h Handler) GetAssetHandler(ctx context.Context, assetID string) (httptransport.AssetResponse, error) {
	asset, err := h.Energy.GetAsset(ctx, assetID)
	if err != nil {
		return httptransport.AssetResponse{}, err
	}
	return mapAsset(asset), nil
}

func (h Handler) ListAssetsHandler(ctx context.Context, ownerID string) (httptransport.AssetsResponse, error) {
	assets, err := h.Energy.ListAssetsByOwner(ctx, ownerID)
	if err != nil {
		return httptransport.AssetsResponse{}, err
	}
	items := make([]httptransport.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		items = append(items, mapAsset(asset))
	}
	return httptransport.AssetsResponse{Items: items}, nil
}

func mapAsset(asset entities.Asset) httptransport.AssetResponse {
	return httptransport.AssetResponse{
		AssetID:      asset.AssetID,
		OwnerID:      asset.OwnerID,
		Kind:         asset.Kind,
		CapacityMW:   asset.CapacityMW,
		ChargeMWh:    asset.ChargeMWh,
		MaxChargeMWh: asset.MaxChargeMWh,
		Status:       asset.Status,
	}
}
