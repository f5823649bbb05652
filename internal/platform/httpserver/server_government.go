package httpserver

import (
	"errors"
	"net/http"

	goverrors "statecraft/contexts/legislation/government-structure/domain/errors"
	govhttp "statecraft/contexts/legislation/government-structure/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesGovernment() {
	s.router.Route("/api/government/v1", func(r chi.Router) {
		r.Get("/chambers", s.handleListChambers)
		r.Get("/chambers/{chamber}/delegations", s.handleListDelegations)
		r.Get("/chambers/{chamber}/states/{state}/seats", s.handleSeatCount)
	})
}

func (s *Server) handleListChambers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Government.Handler.ChambersHandler(r.Context())
	if err != nil {
		writeGovernmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDelegations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Government.Handler.DelegationsHandler(r.Context(), chi.URLParam(r, "chamber"))
	if err != nil {
		writeGovernmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeatCount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Government.Handler.SeatCountHandler(
		r.Context(),
		chi.URLParam(r, "chamber"),
		chi.URLParam(r, "state"),
	)
	if err != nil {
		writeGovernmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeGovernmentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goverrors.ErrUnknownChamber), errors.Is(err, goverrors.ErrUnknownState):
		writeGovernmentError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeGovernmentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernmentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, govhttp.ErrorResponse{Code: code, Message: message})
}
