package ports

import (
	"context"
	"time"

	"statecraft/contexts/legislation/bill-voting/domain/entities"
	"statecraft/internal/shared/events"
)

type BillRepository interface {
	SaveBill(ctx context.Context, bill entities.Bill) error
	GetBill(ctx context.Context, billID string) (entities.Bill, error)
	ListBillsBySession(ctx context.Context, sessionID string) ([]entities.Bill, error)
}

type BallotRepository interface {
	SaveVote(ctx context.Context, vote entities.BallotVote) error
	GetVote(ctx context.Context, voteID string) (entities.BallotVote, error)
	GetVoteByIdentity(ctx context.Context, billID string, memberID string) (entities.BallotVote, bool, error)
	ListVotesByBill(ctx context.Context, billID string) ([]entities.BallotVote, error)
}

// SeatSource answers delegation weight and quorum questions. The
// government-structure application service satisfies it.
type SeatSource interface {
	TallyWeight(ctx context.Context, chamber string, state string) (int, error)
	SeatsTotal(ctx context.Context, chamber string) (int, error)
	QuorumFraction(ctx context.Context, chamber string) (float64, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	EntityID    string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	OutboxWriter
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
