package httpadapter

import (
	"context"
	"log/slog"

	"statecraft/contexts/community-experience/chat-service/application"
	"statecraft/contexts/community-experience/chat-service/ports"
	httptransport "statecraft/contexts/community-experience/chat-service/transport/http"
)

type Handler struct {
	Chat   application.Service
	Logger *slog.Logger
}

func (h Handler) PostMessageHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.PostMessageRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Chat.PostMessage(ctx, idempotencyKey, ports.PostMessageInput{
		ChannelID: req.ChannelID,
		AuthorID:  req.AuthorID,
		Content:   req.Content,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return mapMessage(message), nil
}

func (h Handler) EditMessageHandler(
	ctx context.Context,
	idempotencyKey string,
	messageID string,
	req httptransport.EditMessageRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Chat.EditMessage(ctx, idempotencyKey, ports.EditMessageInput{
		MessageID: messageID,
		AuthorID:  req.AuthorID,
		Content:   req.Content,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return mapMessage(message), nil
}

func (h Handler) DeleteMessageHandler(
	ctx context.Context,
	idempotencyKey string,
	messageID string,
	req httptransport.DeleteMessageRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Chat.DeleteMessage(ctx, idempotencyKey, ports.DeleteMessageInput{
		MessageID: messageID,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return mapMessage(message), nil
}

func (h Handler) ListMessagesHandler(
	ctx context.Context,
	channelID string,
	limit int,
	beforeSequence int64,
) (httptransport.MessagesResponse, error) {
	messages, err := h.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{
		ChannelID:      channelID,
		Limit:          limit,
		BeforeSequence: beforeSequence,
	})
	if err != nil {
		return httptransport.MessagesResponse{}, err
	}
	items := make([]httptransport.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, mapMessage(message))
	}
	return httptransport.MessagesResponse{Items: items}, nil
}

func mapMessage(message ports.Message) httptransport.MessageResponse {
	return httptransport.MessageResponse{
		MessageID: message.MessageID,
		ChannelID: message.ChannelID,
		AuthorID:  message.AuthorID,
		Content:   message.Content,
		Sequence:  message.Sequence,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
		Edited:    message.Edited,
		DeletedAt: message.DeletedAt,
	}
}
