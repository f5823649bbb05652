package ports

import (
	"context"
	"time"

	"statecraft/internal/shared/events"
)

type LobbyOffer struct {
	OfferID       string
	BillID        string
	Chamber       string
	LobbyID       string
	DesiredStance string
	BasePayment   float64
	Status        string
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

type LobbyPayment struct {
	PaymentID string
	OfferID   string
	BillID    string
	LobbyID   string
	MemberID  string
	Stance    string
	SeatCount int
	Amount    float64
	PaidAt    time.Time
}

// Settlement is the result of paying out every eligible open offer for one
// cast vote.
type Settlement struct {
	SettlementID string
	BillID       string
	Chamber      string
	MemberID     string
	State        string
	Stance       string
	SeatCount    int
	Total        float64
	Payments     []LobbyPayment
	SettledAt    time.Time
}

type CreateOfferInput struct {
	BillID        string
	Chamber       string
	LobbyID       string
	DesiredStance string
	BasePayment   float64
}

type SettleVoteInput struct {
	BillID   string
	Chamber  string
	MemberID string
	State    string
	Stance   string
	CastAt   time.Time
}

// VoteCastEvent is the bill.vote.cast payload consumed from the bus.
type VoteCastEvent struct {
	VoteID    string `json:"vote_id"`
	BillID    string `json:"bill_id"`
	Chamber   string `json:"chamber"`
	MemberID  string `json:"member_id"`
	State     string `json:"state"`
	Stance    string `json:"stance"`
	Weight    int    `json:"weight"`
	Retracted bool   `json:"retracted"`
	CastAt    string `json:"occurred_at"`
	Reason    string `json:"reason,omitempty"`
}

type Repository interface {
	CreateOffer(ctx context.Context, offer LobbyOffer) error
	UpdateOffer(ctx context.Context, offer LobbyOffer) error
	GetOffer(ctx context.Context, offerID string) (LobbyOffer, error)
	ListOffersByBill(ctx context.Context, billID string) ([]LobbyOffer, error)
	CreatePayments(ctx context.Context, payments []LobbyPayment) error
	ListPaymentsByBill(ctx context.Context, billID string) ([]LobbyPayment, error)
}

// SeatSource resolves the delegation seat count used to scale payments. The
// government-structure application service satisfies it. Payments scale on
// raw seat count, so the non-voting DC delegate is still paid for a house
// vote.
type SeatSource interface {
	SeatCount(ctx context.Context, chamber string, state string) (int, error)
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

type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
