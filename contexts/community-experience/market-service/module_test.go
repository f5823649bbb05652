package marketservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "statecraft/contexts/community-experience/market-service/domain/errors"
	"statecraft/contexts/community-experience/market-service/ports"
	"statecraft/internal/platform/messaging"
	"statecraft/internal/shared/events"
)

func createListing(t *testing.T, module Module, key string, symbol string, qty float64, price float64) ports.Listing {
	t.Helper()
	listing, err := module.Market.CreateListing(context.Background(), key, ports.CreateListingInput{
		SellerID: "seller-1",
		Symbol:   symbol,
		Quantity: qty,
		Price:    price,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func TestFillListingComputesValueAndCloses(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	listing := createListing(t, module, "list-1", "oil", 12.5, 80.4)

	trade, err := module.Market.FillListing(ctx, "fill-1", listing.ListingID, "buyer-1")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if trade.Value != 1005 {
		t.Fatalf("value = %v, want 1005", trade.Value)
	}
	if trade.Symbol != "OIL" {
		t.Fatalf("symbol = %q, want normalized OIL", trade.Symbol)
	}

	// A filled listing never trades or cancels again.
	if _, err := module.Market.FillListing(ctx, "fill-2", listing.ListingID, "buyer-2"); !errors.Is(err, domainerrors.ErrListingClosed) {
		t.Fatalf("second fill: got %v, want ErrListingClosed", err)
	}
	if _, err := module.Market.CancelListing(ctx, "cancel-1", listing.ListingID, "seller-1"); !errors.Is(err, domainerrors.ErrListingClosed) {
		t.Fatalf("cancel after fill: got %v, want ErrListingClosed", err)
	}

	replay, err := module.Market.FillListing(ctx, "fill-1", listing.ListingID, "buyer-1")
	if err != nil {
		t.Fatalf("replay fill: %v", err)
	}
	if replay.TradeID != trade.TradeID {
		t.Fatalf("replay produced new trade: %q vs %q", replay.TradeID, trade.TradeID)
	}
}

func TestFillListingRejectsSelfTrade(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	listing := createListing(t, module, "list-1", "oil", 1, 10)

	if _, err := module.Market.FillListing(context.Background(), "fill-1", listing.ListingID, "seller-1"); !errors.Is(err, domainerrors.ErrSelfTrade) {
		t.Fatalf("self trade: got %v, want ErrSelfTrade", err)
	}
}

func TestCancelListingIsSellerOnlyAndFinal(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	listing := createListing(t, module, "list-1", "oil", 1, 10)

	if _, err := module.Market.CancelListing(ctx, "cancel-other", listing.ListingID, "rival-1"); !errors.Is(err, domainerrors.ErrNotSeller) {
		t.Fatalf("foreign cancel: got %v, want ErrNotSeller", err)
	}

	cancelled, err := module.Market.CancelListing(ctx, "cancel-1", listing.ListingID, "seller-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != ports.ListingStatusCancelled {
		t.Fatalf("status = %q after cancel", cancelled.Status)
	}
	if _, err := module.Market.CancelListing(ctx, "cancel-2", listing.ListingID, "seller-1"); !errors.Is(err, domainerrors.ErrListingClosed) {
		t.Fatalf("double cancel: got %v, want ErrListingClosed", err)
	}
	if _, err := module.Market.FillListing(ctx, "fill-1", listing.ListingID, "buyer-1"); !errors.Is(err, domainerrors.ErrListingClosed) {
		t.Fatalf("fill after cancel: got %v, want ErrListingClosed", err)
	}
}

func TestListOpenListingsFiltersClosed(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	open := createListing(t, module, "list-1", "oil", 1, 10)
	filled := createListing(t, module, "list-2", "oil", 2, 20)
	createListing(t, module, "list-3", "gas", 3, 30)

	if _, err := module.Market.FillListing(ctx, "fill-1", filled.ListingID, "buyer-1"); err != nil {
		t.Fatalf("fill: %v", err)
	}

	listings, err := module.Market.ListOpenListings(ctx, "oil")
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(listings) != 1 || listings[0].ListingID != open.ListingID {
		t.Fatalf("open oil listings wrong: %+v", listings)
	}

	all, err := module.Market.ListOpenListings(ctx, "")
	if err != nil {
		t.Fatalf("list all open: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d open listings, want 2", len(all))
	}
}

func TestTickerReturnsNewestFirst(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		listing := createListing(t, module, fmt.Sprintf("list-%d", i), "oil", float64(i), 10)
		if _, err := module.Market.FillListing(ctx, fmt.Sprintf("fill-%d", i), listing.ListingID, "buyer-1"); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}

	trades, err := module.Market.Ticker(ctx, "oil", 3)
	if err != nil {
		t.Fatalf("ticker: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}
	if trades[0].Quantity != 4 || trades[2].Quantity != 2 {
		t.Fatalf("ticker order wrong: %+v", trades)
	}
}

func TestFillPublishesOnSymbolTopic(t *testing.T) {
	bus := messaging.NewBus(nil)
	module := NewInMemoryModule(bus, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "market.OIL", "test-ticker", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	listing := createListing(t, module, "list-1", "oil", 2, 5)
	trade, err := module.Market.FillListing(ctx, "fill-1", listing.ListingID, "buyer-1")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	select {
	case event := <-received:
		if event.EventType != "market.trade.filled" {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.EntityID != trade.TradeID {
			t.Fatalf("entity id = %q, want %q", event.EntityID, trade.TradeID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no fill event on market.OIL")
	}
}
