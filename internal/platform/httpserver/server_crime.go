package httpserver

import (
	"errors"
	"net/http"

	crimeerrors "statecraft/contexts/underworld/crime-service/domain/errors"
	crimehttp "statecraft/contexts/underworld/crime-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesCrime() {
	s.router.Route("/api/crime/v1", func(r chi.Router) {
		r.Post("/facilities", s.handleCreateFacility)
		r.Get("/facilities", s.handleListFacilities)
		r.Get("/facilities/{facility_id}", s.handleGetFacility)
		r.Post("/facilities/{facility_id}/expose", s.handleExposeFacility)
		r.Post("/facilities/{facility_id}/raid", s.handleRaidFacility)
		r.Get("/facilities/{facility_id}/routes", s.handleListRoutes)
		r.Get("/facilities/{facility_id}/channels", s.handleListChannels)
		r.Post("/routes", s.handleCreateRoute)
		r.Get("/routes/{route_id}", s.handleGetRoute)
		r.Post("/routes/{route_id}/recompute-risk", s.handleRecomputeRouteRisk)
		r.Post("/channels", s.handleCreateChannel)
		r.Get("/channels/{channel_id}", s.handleGetChannel)
	})
}

func (s *Server) handleCreateFacility(w http.ResponseWriter, r *http.Request) {
	var req crimehttp.CreateFacilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Crime.Handler.CreateFacilityHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.ListFacilitiesHandler(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetFacility(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.GetFacilityHandler(r.Context(), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExposeFacility(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.ExposeFacilityHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRaidFacility(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.RaidFacilityHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.ListRoutesHandler(r.Context(), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.ListChannelsHandler(r.Context(), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req crimehttp.CreateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Crime.Handler.CreateRouteHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.GetRouteHandler(r.Context(), chi.URLParam(r, "route_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecomputeRouteRisk(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.RecomputeRouteRiskHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "route_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req crimehttp.CreateChannelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Crime.Handler.CreateChannelHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Crime.Handler.GetChannelHandler(r.Context(), chi.URLParam(r, "channel_id"))
	if err != nil {
		writeCrimeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCrimeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, crimeerrors.ErrInvalidInput):
		writeCrimeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, crimeerrors.ErrFacilityNotFound),
		errors.Is(err, crimeerrors.ErrRouteNotFound),
		errors.Is(err, crimeerrors.ErrChannelNotFound):
		writeCrimeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, crimeerrors.ErrFacilityRaided):
		writeCrimeError(w, http.StatusConflict, "facility_raided", err.Error())
	case errors.Is(err, crimeerrors.ErrIdempotencyConflict):
		writeCrimeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, crimeerrors.ErrIdempotencyKeyMissing):
		writeCrimeError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeCrimeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCrimeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, crimehttp.ErrorResponse{Code: code, Message: message})
}
