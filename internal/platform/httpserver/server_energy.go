package httpserver

import (
	"errors"
	"net/http"

	energyerrors "statecraft/contexts/finance-core/energy-service/domain/errors"
	energyhttp "statecraft/contexts/finance-core/energy-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesEnergy() {
	s.router.Route("/api/energy/v1", func(r chi.Router) {
		r.Post("/assets", s.handleRegisterAsset)
		r.Get("/assets", s.handleListAssets)
		r.Get("/assets/{asset_id}", s.handleGetAsset)
		r.Post("/assets/{asset_id}/dispatch", s.handleDispatchAsset)
		r.Post("/assets/{asset_id}/charge", s.handleChargeAsset)
		r.Post("/assets/{asset_id}/release", s.handleReleaseAsset)
	})
}

func (s *Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req energyhttp.RegisterAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Energy.Handler.RegisterAssetHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Energy.Handler.ListAssetsHandler(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Energy.Handler.GetAssetHandler(r.Context(), chi.URLParam(r, "asset_id"))
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDispatchAsset(w http.ResponseWriter, r *http.Request) {
	var req energyhttp.DispatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Energy.Handler.DispatchHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "asset_id"), req)
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChargeAsset(w http.ResponseWriter, r *http.Request) {
	var req energyhttp.ChargeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Energy.Handler.ChargeHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "asset_id"), req)
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReleaseAsset(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Energy.Handler.ReleaseHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "asset_id"))
	if err != nil {
		writeEnergyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeEnergyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, energyerrors.ErrInvalidInput):
		writeEnergyError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, energyerrors.ErrAssetNotFound):
		writeEnergyError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, energyerrors.ErrAssetBusy),
		errors.Is(err, energyerrors.ErrAssetIdle),
		errors.Is(err, energyerrors.ErrIdempotencyConflict):
		writeEnergyError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, energyerrors.ErrIdempotencyKeyMissing):
		writeEnergyError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, energyerrors.ErrOverCapacity),
		errors.Is(err, energyerrors.ErrInsufficientCharge),
		errors.Is(err, energyerrors.ErrOverCharge),
		errors.Is(err, energyerrors.ErrNotBattery):
		writeEnergyError(w, http.StatusUnprocessableEntity, "dispatch_rejected", err.Error())
	default:
		writeEnergyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEnergyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, energyhttp.ErrorResponse{Code: code, Message: message})
}
