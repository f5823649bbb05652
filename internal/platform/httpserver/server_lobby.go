package httpserver

import (
	"errors"
	"net/http"

	lobbyerrors "statecraft/contexts/legislation/lobby-system/domain/errors"
	lobbyhttp "statecraft/contexts/legislation/lobby-system/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesLobby() {
	s.router.Route("/api/lobby/v1", func(r chi.Router) {
		r.Post("/offers", s.handleCreateOffer)
		r.Post("/offers/{offer_id}/close", s.handleCloseOffer)
		r.Get("/bills/{bill_id}/offers", s.handleListOffers)
		r.Post("/settlements", s.handleSettleVote)
		r.Get("/bills/{bill_id}/payments", s.handleListPayments)
	})
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req lobbyhttp.CreateOfferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Lobby.Handler.CreateOfferHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeLobbyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseOffer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Lobby.Handler.CloseOfferHandler(r.Context(), chi.URLParam(r, "offer_id"))
	if err != nil {
		writeLobbyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Lobby.Handler.ListOffersHandler(r.Context(), chi.URLParam(r, "bill_id"))
	if err != nil {
		writeLobbyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSettleVote(w http.ResponseWriter, r *http.Request) {
	var req lobbyhttp.SettleVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Lobby.Handler.SettleVoteHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeLobbyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Lobby.Handler.ListPaymentsHandler(r.Context(), chi.URLParam(r, "bill_id"))
	if err != nil {
		writeLobbyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLobbyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lobbyerrors.ErrInvalidInput):
		writeLobbyError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, lobbyerrors.ErrOfferNotFound):
		writeLobbyError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, lobbyerrors.ErrOfferClosed),
		errors.Is(err, lobbyerrors.ErrIdempotencyConflict):
		writeLobbyError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, lobbyerrors.ErrIdempotencyKeyMissing):
		writeLobbyError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeLobbyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLobbyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lobbyhttp.ErrorResponse{Code: code, Message: message})
}
