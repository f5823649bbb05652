package httpserver

import (
	"errors"
	"net/http"

	marketerrors "statecraft/contexts/community-experience/market-service/domain/errors"
	markethttp "statecraft/contexts/community-experience/market-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesMarket() {
	s.router.Route("/api/market/v1", func(r chi.Router) {
		r.Post("/listings", s.handleCreateListing)
		r.Get("/listings", s.handleListOpenListings)
		r.Post("/listings/{listing_id}/cancel", s.handleCancelListing)
		r.Post("/listings/{listing_id}/fill", s.handleFillListing)
		r.Get("/ticker/{symbol}", s.handleTicker)
	})
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req markethttp.CreateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SellerID == "" {
		req.SellerID = userID(r)
	}
	resp, err := s.modules.Market.Handler.CreateListingHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOpenListings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Market.Handler.ListOpenListingsHandler(r.Context(), r.URL.Query().Get("symbol"))
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	var req markethttp.CancelListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SellerID == "" {
		req.SellerID = userID(r)
	}
	resp, err := s.modules.Market.Handler.CancelListingHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "listing_id"), req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFillListing(w http.ResponseWriter, r *http.Request) {
	var req markethttp.FillListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BuyerID == "" {
		req.BuyerID = userID(r)
	}
	resp, err := s.modules.Market.Handler.FillListingHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "listing_id"), req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Market.Handler.TickerHandler(r.Context(), chi.URLParam(r, "symbol"), queryInt(r, "limit"))
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMarketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketerrors.ErrInvalidInput):
		writeMarketError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, marketerrors.ErrListingNotFound):
		writeMarketError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, marketerrors.ErrNotSeller):
		writeMarketError(w, http.StatusForbidden, "not_seller", err.Error())
	case errors.Is(err, marketerrors.ErrSelfTrade):
		writeMarketError(w, http.StatusUnprocessableEntity, "self_trade", err.Error())
	case errors.Is(err, marketerrors.ErrListingClosed),
		errors.Is(err, marketerrors.ErrIdempotencyConflict):
		writeMarketError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, marketerrors.ErrIdempotencyKeyMissing):
		writeMarketError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMarketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, markethttp.ErrorResponse{Code: code, Message: message})
}
