package httpserver

import (
	"errors"
	"net/http"

	moderationerrors "statecraft/contexts/moderation-safety/moderation-service/domain/errors"
	moderationhttp "statecraft/contexts/moderation-safety/moderation-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesModeration() {
	s.router.Route("/api/moderation/v1", func(r chi.Router) {
		r.Post("/screen", s.handleScreenText)
		r.Post("/words", s.handleAddWord)
		r.Get("/words", s.handleListWords)
		r.Delete("/words/{term}", s.handleRemoveWord)
	})
}

func (s *Server) handleScreenText(w http.ResponseWriter, r *http.Request) {
	var req moderationhttp.ScreenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Moderation.Handler.ScreenHandler(r.Context(), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req moderationhttp.AddWordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Moderation.Handler.AddWordHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Moderation.Handler.ListWordsHandler(r.Context())
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	if err := s.modules.Moderation.Handler.RemoveWordHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "term")); err != nil {
		writeModerationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationerrors.ErrInvalidInput):
		writeModerationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, moderationerrors.ErrWordNotFound):
		writeModerationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, moderationerrors.ErrWordExists):
		writeModerationError(w, http.StatusConflict, "word_exists", err.Error())
	case errors.Is(err, moderationerrors.ErrIdempotencyConflict):
		writeModerationError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, moderationerrors.ErrIdempotencyKeyMissing):
		writeModerationError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeModerationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeModerationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, moderationhttp.ErrorResponse{Code: code, Message: message})
}
