package ports

import (
	"context"
	"time"

	"statecraft/internal/shared/events"
)

type Message struct {
	MessageID string
	ChannelID string
	AuthorID  string
	Content   string
	Sequence  int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Edited    bool
	DeletedAt *time.Time
}

type PostMessageInput struct {
	ChannelID string
	AuthorID  string
	Content   string
}

type EditMessageInput struct {
	MessageID string
	AuthorID  string
	Content   string
}

type DeleteMessageInput struct {
	MessageID string
	AuthorID  string
}

// ListMessagesInput pages backwards through a channel. BeforeSequence of
// zero means "from the newest message"; results come back oldest first.
type ListMessagesInput struct {
	ChannelID      string
	Limit          int
	BeforeSequence int64
}

type Repository interface {
	SaveMessage(ctx context.Context, message Message) error
	GetMessage(ctx context.Context, messageID string) (Message, error)
	ListChannelMessages(ctx context.Context, input ListMessagesInput) ([]Message, error)
	NextSequence(ctx context.Context, channelID string) (int64, error)
}

// ScreenResult mirrors the moderation filter verdicts without importing
// that context's packages.
type ScreenResult struct {
	Verdict string
	Masked  string
}

const (
	VerdictClean   = "clean"
	VerdictMasked  = "masked"
	VerdictBlocked = "blocked"
)

type ProfanityFilter interface {
	Screen(ctx context.Context, text string) (ScreenResult, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
