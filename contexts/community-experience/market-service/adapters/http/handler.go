package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/community-experience/market-service/application"
	"statecraft/contexts/community-experience/market-service/ports"
	httptransport "statecraft/contexts/community-experience/market-service/transport/http"
)

type Handler struct {
	Market application.Service
	Logger *slog.Logger
}

func (h Handler) CreateListingHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateListingRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Market.CreateListing(ctx, idempotencyKey, ports.CreateListingInput{
		SellerID: req.SellerID,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

func (h Handler) CancelListingHandler(
	ctx context.Context,
	idempotencyKey string,
	listingID string,
	req httptransport.CancelListingRequest,
) (httptransport.ListingResponse, error) {
	listing, err := h.Market.CancelListing(ctx, idempotencyKey, listingID, req.SellerID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return mapListing(listing), nil
}

func (h Handler) FillListingHandler(
	ctx context.Context,
	idempotencyKey string,
	listingID string,
	req httptransport.FillListingRequest,
) (httptransport.TradeResponse, error) {
	trade, err := h.Market.FillListing(ctx, idempotencyKey, listingID, req.BuyerID)
	if err != nil {
		return httptransport.TradeResponse{}, err
	}
	return mapTrade(trade), nil
}

func (h Handler) ListOpenListingsHandler(ctx context.Context, symbol string) (httptransport.ListingsResponse, error) {
	listings, err := h.Market.ListOpenListings(ctx, symbol)
	if err != nil {
		return httptransport.ListingsResponse{}, err
	}
	items := make([]httptransport.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, mapListing(listing))
	}
	return httptransport.ListingsResponse{Items: items}, nil
}

func (h Handler) TickerHandler(ctx context.Context, symbol string, limit int) (httptransport.TickerResponse, error) {
	trades, err := h.Market.Ticker(ctx, symbol, limit)
	if err != nil {
		return httptransport.TickerResponse{}, err
	}
	items := make([]httptransport.TradeResponse, 0, len(trades))
	for _, trade := range trades {
		items = append(items, mapTrade(trade))
	}
	return httptransport.TickerResponse{Symbol: symbol, Items: items}, nil
}

func mapListing(listing ports.Listing) httptransport.ListingResponse {
	return httptransport.ListingResponse{
		ListingID: listing.ListingID,
		SellerID:  listing.SellerID,
		Symbol:    listing.Symbol,
		Quantity:  listing.Quantity,
		Price:     listing.Price,
		Status:    listing.Status,
		CreatedAt: listing.CreatedAt,
		UpdatedAt: listing.UpdatedAt,
	}
}

func mapTrade(trade ports.Trade) httptransport.TradeResponse {
	return httptransport.TradeResponse{
		TradeID:   trade.TradeID,
		ListingID: trade.ListingID,
		Symbol:    trade.Symbol,
		SellerID:  trade.SellerID,
		BuyerID:   trade.BuyerID,
		Quantity:  trade.Quantity,
		Price:     trade.Price,
		Value:     trade.Value,
		FilledAt:  trade.FilledAt,
	}
}
