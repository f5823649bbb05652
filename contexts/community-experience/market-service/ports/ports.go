package ports

import (
	"context"
	"time"

	"statecraft/internal/shared/events"
)

const (
	ListingStatusOpen      = "open"
	ListingStatusFilled    = "filled"
	ListingStatusCancelled = "cancelled"
)

type Listing struct {
	ListingID string
	SellerID  string
	Symbol    string
	Quantity  float64
	Price     float64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Trade struct {
	TradeID   string
	ListingID string
	Symbol    string
	SellerID  string
	BuyerID   string
	Quantity  float64
	Price     float64
	Value     float64
	FilledAt  time.Time
}

type CreateListingInput struct {
	SellerID string
	Symbol   string
	Quantity float64
	Price    float64
}

type Repository interface {
	SaveListing(ctx context.Context, listing Listing) error
	GetListing(ctx context.Context, listingID string) (Listing, error)
	ListOpenListings(ctx context.Context, symbol string) ([]Listing, error)
	SaveTrade(ctx context.Context, trade Trade) error
	ListRecentTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)
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
