package httpserver

import (
	"errors"
	"net/http"

	electionerrors "statecraft/contexts/elections/election-resolution/domain/errors"
	electionhttp "statecraft/contexts/elections/election-resolution/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesElections() {
	s.router.Route("/api/elections/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolveElection)
		r.Get("/results", s.handleListElectionResults)
		r.Get("/results/{projection_id}", s.handleGetElectionResult)
	})
}

func (s *Server) handleResolveElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.ResolveElectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Elections.Handler.ResolveElectionHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListElectionResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Elections.Handler.ListResultsHandler(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElectionResult(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Elections.Handler.GetResultHandler(r.Context(), chi.URLParam(r, "projection_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrResultNotFound):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrIdempotencyConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, electionerrors.ErrIdempotencyKeyMissing):
		writeElectionError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{Code: code, Message: message})
}
