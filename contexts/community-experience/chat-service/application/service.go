package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "statecraft/contexts/community-experience/chat-service/domain/errors"
	"statecraft/contexts/community-experience/chat-service/ports"
	"statecraft/internal/shared/events"
)

type Service struct {
	Repo           ports.Repository
	Filter         ports.ProfanityFilter
	Publisher      ports.EventPublisher
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// PostMessage screens the content, persists the message, and fans it out on
// topic "chat.<channel_id>". Block-tier words reject the whole message;
// mask-tier words are stored already masked.
func (s Service) PostMessage(ctx context.Context, idempotencyKey string, input ports.PostMessageInput) (ports.Message, error) {
	input.ChannelID = strings.TrimSpace(input.ChannelID)
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	input.Content = strings.TrimSpace(input.Content)
	if input.ChannelID == "" || input.AuthorID == "" || input.Content == "" {
		return ports.Message{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Message{}, err
	}

	requestHash := hashStrings("post_message", input.ChannelID, input.AuthorID, input.Content)
	var out ports.Message
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			content, err := s.screenContent(ctx, input.Content)
			if err != nil {
				return nil, err
			}
			messageID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			sequence, err := s.Repo.NextSequence(ctx, input.ChannelID)
			if err != nil {
				return nil, err
			}
			now := s.now()
			message := ports.Message{
				MessageID: messageID,
				ChannelID: input.ChannelID,
				AuthorID:  input.AuthorID,
				Content:   content,
				Sequence:  sequence,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.Repo.SaveMessage(ctx, message); err != nil {
				return nil, err
			}
			s.publishPosted(ctx, message)
			return json.Marshal(message)
		},
	)
	return out, err
}

func (s Service) EditMessage(ctx context.Context, idempotencyKey string, input ports.EditMessageInput) (ports.Message, error) {
	input.MessageID = strings.TrimSpace(input.MessageID)
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	input.Content = strings.TrimSpace(input.Content)
	if input.MessageID == "" || input.AuthorID == "" || input.Content == "" {
		return ports.Message{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Message{}, err
	}

	requestHash := hashStrings("edit_message", input.MessageID, input.AuthorID, input.Content)
	var out ports.Message
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			message, err := s.loadAuthored(ctx, input.MessageID, input.AuthorID)
			if err != nil {
				return nil, err
			}
			content, err := s.screenContent(ctx, input.Content)
			if err != nil {
				return nil, err
			}
			message.Content = content
			message.Edited = true
			message.UpdatedAt = s.now()
			if err := s.Repo.SaveMessage(ctx, message); err != nil {
				return nil, err
			}
			return json.Marshal(message)
		},
	)
	return out, err
}

func (s Service) DeleteMessage(ctx context.Context, idempotencyKey string, input ports.DeleteMessageInput) (ports.Message, error) {
	input.MessageID = strings.TrimSpace(input.MessageID)
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	if input.MessageID == "" || input.AuthorID == "" {
		return ports.Message{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Message{}, err
	}

	requestHash := hashStrings("delete_message", input.MessageID, input.AuthorID)
	var out ports.Message
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			message, err := s.loadAuthored(ctx, input.MessageID, input.AuthorID)
			if err != nil {
				return nil, err
			}
			now := s.now()
			message.Content = ""
			message.DeletedAt = &now
			message.UpdatedAt = now
			if err := s.Repo.SaveMessage(ctx, message); err != nil {
				return nil, err
			}
			return json.Marshal(message)
		},
	)
	return out, err
}

func (s Service) ListChannelMessages(ctx context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	input.ChannelID = strings.TrimSpace(input.ChannelID)
	if input.ChannelID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 200 {
		input.Limit = 200
	}
	return s.Repo.ListChannelMessages(ctx, input)
}

func (s Service) GetMessage(ctx context.Context, messageID string) (ports.Message, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return ports.Message{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetMessage(ctx, messageID)
}

func (s Service) loadAuthored(ctx context.Context, messageID string, authorID string) (ports.Message, error) {
	message, err := s.Repo.GetMessage(ctx, messageID)
	if err != nil {
		return ports.Message{}, err
	}
	if message.DeletedAt != nil {
		return ports.Message{}, domainerrors.ErrMessageDeleted
	}
	if message.AuthorID != authorID {
		return ports.Message{}, domainerrors.ErrNotAuthor
	}
	return message, nil
}

func (s Service) screenContent(ctx context.Context, content string) (string, error) {
	if s.Filter == nil {
		return content, nil
	}
	result, err := s.Filter.Screen(ctx, content)
	if err != nil {
		return "", err
	}
	switch result.Verdict {
	case ports.VerdictBlocked:
		return "", domainerrors.ErrProfanityRejected
	case ports.VerdictMasked:
		return result.Masked, nil
	default:
		return content, nil
	}
}

// publishPosted is best effort. Realtime fanout losing an event never rolls
// back a stored message.
func (s Service) publishPosted(ctx context.Context, message ports.Message) {
	if s.Publisher == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		eventID = message.MessageID
	}
	envelope := events.Envelope{
		EventID:        eventID,
		EventType:      "chat.message.posted",
		SourceService:  "community-experience/chat-service",
		OccurredAtUTC:  message.CreatedAt,
		EntityType:     "chat_message",
		EntityID:       message.MessageID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"message_id": message.MessageID,
			"channel_id": message.ChannelID,
			"author_id":  message.AuthorID,
			"content":    message.Content,
			"sequence":   message.Sequence,
			"posted_at":  message.CreatedAt,
		},
	}
	if err := s.Publisher.Publish(ctx, "chat."+message.ChannelID, envelope); err != nil {
		resolveLogger(s.Logger).Warn("chat fanout publish failed",
			"event", "chat_fanout_publish_failed",
			"module", "community-experience/chat-service",
			"layer", "application",
			"channel_id", message.ChannelID,
			"message_id", message.MessageID,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyMissing
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.GetRecord(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.ResponsePayload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}

	resolveLogger(s.Logger).Debug("chat idempotent operation committed",
		"event", "chat_idempotent_operation_committed",
		"module", "community-experience/chat-service",
		"layer", "application",
		"idempotency_key", key,
	)
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
