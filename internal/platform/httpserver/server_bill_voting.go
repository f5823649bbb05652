package httpserver

import (
	"errors"
	"net/http"

	votingerrors "statecraft/contexts/legislation/bill-voting/domain/errors"
	votinghttp "statecraft/contexts/legislation/bill-voting/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesBillVoting() {
	s.router.Route("/api/legislation/v1", func(r chi.Router) {
		r.Post("/bills", s.handleCreateBill)
		r.Get("/bills", s.handleListBills)
		r.Get("/bills/{bill_id}", s.handleGetBill)
		r.Post("/bills/{bill_id}/open", s.handleOpenVoting)
		r.Post("/bills/{bill_id}/close", s.handleCloseVoting)
		r.Post("/bills/{bill_id}/votes", s.handleCastVote)
		r.Get("/bills/{bill_id}/votes", s.handleListVotes)
		r.Get("/bills/{bill_id}/tally", s.handleTally)
		r.Post("/votes/{vote_id}/retract", s.handleRetractVote)
	})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	sponsorID := userID(r)
	if sponsorID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Voting.Handler.CreateBillHandler(r.Context(), sponsorID, idempotencyKey(r), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Voting.Handler.ListBillsHandler(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Voting.Handler.GetBillHandler(r.Context(), chi.URLParam(r, "bill_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenVoting(w http.ResponseWriter, r *http.Request) {
	actorID := userID(r)
	if actorID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.modules.Voting.Handler.OpenVotingHandler(
		r.Context(),
		chi.URLParam(r, "bill_id"),
		actorID,
		idempotencyKey(r),
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseVoting(w http.ResponseWriter, r *http.Request) {
	actorID := userID(r)
	if actorID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.CloseVotingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Voting.Handler.CloseVotingHandler(
		r.Context(),
		chi.URLParam(r, "bill_id"),
		actorID,
		idempotencyKey(r),
		req,
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	memberID := userID(r)
	if memberID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.CastVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Voting.Handler.CastVoteHandler(
		r.Context(),
		chi.URLParam(r, "bill_id"),
		memberID,
		idempotencyKey(r),
		req,
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Voting.Handler.ListVotesHandler(r.Context(), chi.URLParam(r, "bill_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Voting.Handler.TallyHandler(r.Context(), chi.URLParam(r, "bill_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetractVote(w http.ResponseWriter, r *http.Request) {
	memberID := userID(r)
	if memberID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	err := s.modules.Voting.Handler.RetractVoteHandler(
		r.Context(),
		chi.URLParam(r, "vote_id"),
		memberID,
		idempotencyKey(r),
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retracted"})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidBillInput),
		errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votingerrors.ErrBillNotFound),
		errors.Is(err, votingerrors.ErrVoteNotFound):
		writeVotingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, votingerrors.ErrBillNotOpenForVoting),
		errors.Is(err, votingerrors.ErrBillAlreadyClosed),
		errors.Is(err, votingerrors.ErrAlreadyRetracted),
		errors.Is(err, votingerrors.ErrChamberMismatch),
		errors.Is(err, votingerrors.ErrConflict),
		errors.Is(err, votingerrors.ErrIdempotencyConflict):
		writeVotingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, votingerrors.ErrIdempotencyKeyRequired):
		writeVotingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}
