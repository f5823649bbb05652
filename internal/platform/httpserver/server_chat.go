package httpserver

import (
	"errors"
	"net/http"

	chaterrors "statecraft/contexts/community-experience/chat-service/domain/errors"
	chathttp "statecraft/contexts/community-experience/chat-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routesChat() {
	s.router.Route("/api/chat/v1", func(r chi.Router) {
		r.Post("/messages", s.handlePostMessage)
		r.Patch("/messages/{message_id}", s.handleEditMessage)
		r.Delete("/messages/{message_id}", s.handleDeleteMessage)
		r.Get("/channels/{channel_id}/messages", s.handleListChannelMessages)
	})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req chathttp.PostMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuthorID == "" {
		req.AuthorID = userID(r)
	}
	resp, err := s.modules.Chat.Handler.PostMessageHandler(r.Context(), idempotencyKey(r), req)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	var req chathttp.EditMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuthorID == "" {
		req.AuthorID = userID(r)
	}
	resp, err := s.modules.Chat.Handler.EditMessageHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "message_id"), req)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	req := chathttp.DeleteMessageRequest{AuthorID: userID(r)}
	resp, err := s.modules.Chat.Handler.DeleteMessageHandler(r.Context(), idempotencyKey(r), chi.URLParam(r, "message_id"), req)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListChannelMessages(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Chat.Handler.ListMessagesHandler(
		r.Context(),
		chi.URLParam(r, "channel_id"),
		queryInt(r, "limit"),
		queryInt64(r, "before"),
	)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeChatDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chaterrors.ErrInvalidInput):
		writeChatError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, chaterrors.ErrMessageNotFound):
		writeChatError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, chaterrors.ErrNotAuthor):
		writeChatError(w, http.StatusForbidden, "not_author", err.Error())
	case errors.Is(err, chaterrors.ErrMessageDeleted),
		errors.Is(err, chaterrors.ErrIdempotencyConflict):
		writeChatError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, chaterrors.ErrProfanityRejected):
		writeChatError(w, http.StatusUnprocessableEntity, "profanity_rejected", err.Error())
	case errors.Is(err, chaterrors.ErrIdempotencyKeyMissing):
		writeChatError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeChatError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeChatError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, chathttp.ErrorResponse{Code: code, Message: message})
}
