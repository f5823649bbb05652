package httpserver

import (
	"errors"
	"net/http"

	consultingerrors "statecraft/contexts/internal-ops/consulting-service/domain/errors"
	consultinghttp "statecraft/contexts/internal-ops/consulting-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesConsulting() {
	s.router.Route("/api/consulting/v1", func(r chi.Router) {
		r.Post("/engagements", s.handleRecordEngagement)
		r.Get("/owners/{owner_id}/metrics", s.handleConsultingMetrics)
		r.Get("/owners/{owner_id}/engagements", s.handleListEngagements)
	})
}

func (s *Server) handleRecordEngagement(w http.ResponseWriter, r *http.Request) {
	var req consultinghttp.RecordEngagementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = userID(r)
	}
	resp, err := s.modules.Consulting.Handler.RecordEngagementHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeConsultingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsultingMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Consulting.Handler.MetricsHandler(r.Context(), chi.URLParam(r, "owner_id"))
	if err != nil {
		writeConsultingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEngagements(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Consulting.Handler.ListEngagementsHandler(r.Context(), chi.URLParam(r, "owner_id"))
	if err != nil {
		writeConsultingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeConsultingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consultingerrors.ErrInvalidInput):
		writeConsultingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, consultingerrors.ErrIdempotencyKeyMissing):
		writeConsultingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, consultingerrors.ErrIdempotencyConflict):
		writeConsultingError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeConsultingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeConsultingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, consultinghttp.ErrorResponse{Code: code, Message: message})
}
