package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	domainerrors "statecraft/contexts/community-experience/market-service/domain/errors"
	"statecraft/contexts/community-experience/market-service/ports"
	"statecraft/internal/shared/events"
)

type Service struct {
	Repo           ports.Repository
	Publisher      ports.EventPublisher
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (s Service) CreateListing(ctx context.Context, idempotencyKey string, input ports.CreateListingInput) (ports.Listing, error) {
	input.SellerID = strings.TrimSpace(input.SellerID)
	input.Symbol = strings.ToUpper(strings.TrimSpace(input.Symbol))
	if input.SellerID == "" || input.Symbol == "" || input.Quantity <= 0 || input.Price <= 0 {
		return ports.Listing{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Listing{}, err
	}

	requestHash := hashStrings("create_listing", input.SellerID, input.Symbol,
		fmt.Sprintf("%.4f", input.Quantity), fmt.Sprintf("%.4f", input.Price))
	var out ports.Listing
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			listingID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			listing := ports.Listing{
				ListingID: listingID,
				SellerID:  input.SellerID,
				Symbol:    input.Symbol,
				Quantity:  input.Quantity,
				Price:     input.Price,
				Status:    ports.ListingStatusOpen,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.Repo.SaveListing(ctx, listing); err != nil {
				return nil, err
			}
			return json.Marshal(listing)
		},
	)
	return out, err
}

func (s Service) CancelListing(ctx context.Context, idempotencyKey string, listingID string, sellerID string) (ports.Listing, error) {
	listingID = strings.TrimSpace(listingID)
	sellerID = strings.TrimSpace(sellerID)
	if listingID == "" || sellerID == "" {
		return ports.Listing{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Listing{}, err
	}

	requestHash := hashStrings("cancel_listing", listingID, sellerID)
	var out ports.Listing
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			listing, err := s.Repo.GetListing(ctx, listingID)
			if err != nil {
				return nil, err
			}
			if listing.SellerID != sellerID {
				return nil, domainerrors.ErrNotSeller
			}
			if listing.Status != ports.ListingStatusOpen {
				return nil, domainerrors.ErrListingClosed
			}
			listing.Status = ports.ListingStatusCancelled
			listing.UpdatedAt = s.now()
			if err := s.Repo.SaveListing(ctx, listing); err != nil {
				return nil, err
			}
			return json.Marshal(listing)
		},
	)
	return out, err
}

// FillListing closes an open listing against a buyer and records the trade.
// The trade value is quantity times price at four decimal places.
func (s Service) FillListing(ctx context.Context, idempotencyKey string, listingID string, buyerID string) (ports.Trade, error) {
	listingID = strings.TrimSpace(listingID)
	buyerID = strings.TrimSpace(buyerID)
	if listingID == "" || buyerID == "" {
		return ports.Trade{}, domainerrors.ErrInvalidInput
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Trade{}, err
	}

	requestHash := hashStrings("fill_listing", listingID, buyerID)
	var out ports.Trade
	err := s.runIdempotent(ctx, idempotencyKey, requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			listing, err := s.Repo.GetListing(ctx, listingID)
			if err != nil {
				return nil, err
			}
			if listing.SellerID == buyerID {
				return nil, domainerrors.ErrSelfTrade
			}
			if listing.Status != ports.ListingStatusOpen {
				return nil, domainerrors.ErrListingClosed
			}

			tradeID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			now := s.now()
			trade := ports.Trade{
				TradeID:   tradeID,
				ListingID: listing.ListingID,
				Symbol:    listing.Symbol,
				SellerID:  listing.SellerID,
				BuyerID:   buyerID,
				Quantity:  listing.Quantity,
				Price:     listing.Price,
				Value:     round4(listing.Quantity * listing.Price),
				FilledAt:  now,
			}
			listing.Status = ports.ListingStatusFilled
			listing.UpdatedAt = now
			if err := s.Repo.SaveListing(ctx, listing); err != nil {
				return nil, err
			}
			if err := s.Repo.SaveTrade(ctx, trade); err != nil {
				return nil, err
			}
			s.publishFilled(ctx, trade)
			return json.Marshal(trade)
		},
	)
	return out, err
}

func (s Service) ListOpenListings(ctx context.Context, symbol string) ([]ports.Listing, error) {
	return s.Repo.ListOpenListings(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Ticker returns the most recent trades for a symbol, newest first.
func (s Service) Ticker(ctx context.Context, symbol string, limit int) ([]ports.Trade, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.Repo.ListRecentTrades(ctx, symbol, limit)
}

func (s Service) GetListing(ctx context.Context, listingID string) (ports.Listing, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return ports.Listing{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetListing(ctx, listingID)
}

// publishFilled is best effort; ticker subscribers missing a fill never
// rolls back the trade.
func (s Service) publishFilled(ctx context.Context, trade ports.Trade) {
	if s.Publisher == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		eventID = trade.TradeID
	}
	envelope := events.Envelope{
		EventID:        eventID,
		EventType:      "market.trade.filled",
		SourceService:  "community-experience/market-service",
		OccurredAtUTC:  trade.FilledAt,
		EntityType:     "market_trade",
		EntityID:       trade.TradeID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"trade_id":   trade.TradeID,
			"listing_id": trade.ListingID,
			"symbol":     trade.Symbol,
			"seller_id":  trade.SellerID,
			"buyer_id":   trade.BuyerID,
			"quantity":   trade.Quantity,
			"price":      trade.Price,
			"value":      trade.Value,
			"filled_at":  trade.FilledAt,
		},
	}
	if err := s.Publisher.Publish(ctx, "market."+trade.Symbol, envelope); err != nil {
		resolveLogger(s.Logger).Warn("market ticker publish failed",
			"event", "market_ticker_publish_failed",
			"module", "community-experience/market-service",
			"layer", "application",
			"symbol", trade.Symbol,
			"trade_id", trade.TradeID,
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

	resolveLogger(s.Logger).Debug("market idempotent operation committed",
		"event", "market_idempotent_operation_committed",
		"module", "community-experience/market-service",
		"layer", "application",
		"idempotency_key", key,
	)
	return decode(payload)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
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
