package consultingservice

import (
	"context"
	"errors"
	"testing"

	"statecraft/contexts/internal-ops/consulting-service/application"
	domainerrors "statecraft/contexts/internal-ops/consulting-service/domain/errors"
)

func recordEngagement(t *testing.T, module Module, key string, input application.RecordEngagementInput) {
	t.Helper()
	if _, err := module.Consulting.RecordEngagement(context.Background(), key, input); err != nil {
		t.Fatalf("record engagement: %v", err)
	}
}

func TestMetricsAggregatesByOwner(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()

	recordEngagement(t, module, "key-e-1", application.RecordEngagementInput{
		OwnerID: "firm-1", ClientID: "client-a", Sector: "energy",
		Revenue: 1200, HoursBilled: 30, HoursAvailable: 40,
	})
	recordEngagement(t, module, "key-e-2", application.RecordEngagementInput{
		OwnerID: "firm-1", ClientID: "client-b", Sector: "defense",
		Revenue: 2000, HoursBilled: 50, HoursAvailable: 60,
	})
	recordEngagement(t, module, "key-e-3", application.RecordEngagementInput{
		OwnerID: "firm-1", ClientID: "client-c", Sector: "energy",
		Revenue: 900, HoursBilled: 20, HoursAvailable: 100,
	})
	// Another owner's work never leaks into firm-1's metrics.
	recordEngagement(t, module, "key-e-4", application.RecordEngagementInput{
		OwnerID: "firm-2", ClientID: "client-d", Sector: "energy",
		Revenue: 9999, HoursBilled: 1, HoursAvailable: 1,
	})

	metrics, err := module.Consulting.Metrics(ctx, "firm-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.EngagementCount != 3 {
		t.Fatalf("count = %d, want 3", metrics.EngagementCount)
	}
	if metrics.TotalRevenue != 4100 {
		t.Fatalf("revenue = %v, want 4100", metrics.TotalRevenue)
	}
	if metrics.AverageUtilization != 0.5 {
		t.Fatalf("utilization = %v, want 0.5 (100 billed / 200 available)", metrics.AverageUtilization)
	}
	if len(metrics.Sectors) != 2 {
		t.Fatalf("got %d sectors, want 2", len(metrics.Sectors))
	}
	if metrics.Sectors[0].Sector != "energy" || metrics.Sectors[0].Revenue != 2100 || metrics.Sectors[0].EngagementCount != 2 {
		t.Fatalf("top sector wrong: %+v", metrics.Sectors[0])
	}
	if metrics.Sectors[1].Sector != "defense" || metrics.Sectors[1].Revenue != 2000 {
		t.Fatalf("second sector wrong: %+v", metrics.Sectors[1])
	}
}

func TestRecordEngagementRetrySameKeyDoesNotDoubleCount(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	input := application.RecordEngagementInput{
		OwnerID: "firm-1", ClientID: "client-a", Sector: "energy",
		Revenue: 1200, HoursBilled: 30, HoursAvailable: 40,
	}

	first, err := module.Consulting.RecordEngagement(ctx, "key-e-1", input)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// A retried delivery with the same key replays the stored engagement
	// instead of inflating the owner's metrics.
	retried, err := module.Consulting.RecordEngagement(ctx, "key-e-1", input)
	if err != nil {
		t.Fatalf("retried record: %v", err)
	}
	if retried.EngagementID != first.EngagementID {
		t.Fatalf("retry created a second engagement: %s vs %s", retried.EngagementID, first.EngagementID)
	}

	metrics, err := module.Consulting.Metrics(ctx, "firm-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.EngagementCount != 1 || metrics.TotalRevenue != 1200 {
		t.Fatalf("metrics double-counted the retry: %+v", metrics)
	}

	input.Revenue = 9999
	if _, err := module.Consulting.RecordEngagement(ctx, "key-e-1", input); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("reused key: got %v, want ErrIdempotencyConflict", err)
	}
	if _, err := module.Consulting.RecordEngagement(ctx, "", input); !errors.Is(err, domainerrors.ErrIdempotencyKeyMissing) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyMissing", err)
	}
}

func TestMetricsZeroCapacity(t *testing.T) {
	module := NewInMemoryModule(nil)
	recordEngagement(t, module, "key-e-1", application.RecordEngagementInput{
		OwnerID: "firm-1", ClientID: "client-a", Sector: "media",
		Revenue: 500, HoursBilled: 0, HoursAvailable: 0,
	})

	metrics, err := module.Consulting.Metrics(context.Background(), "firm-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.AverageUtilization != 0 {
		t.Fatalf("utilization = %v, want 0 with no capacity", metrics.AverageUtilization)
	}
}

func TestMetricsEmptyOwner(t *testing.T) {
	module := NewInMemoryModule(nil)
	metrics, err := module.Consulting.Metrics(context.Background(), "firm-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.EngagementCount != 0 || metrics.TotalRevenue != 0 || len(metrics.Sectors) != 0 {
		t.Fatalf("empty owner metrics not zeroed: %+v", metrics)
	}
}

func TestRecordEngagementValidation(t *testing.T) {
	module := NewInMemoryModule(nil)
	ctx := context.Background()
	cases := []application.RecordEngagementInput{
		{ClientID: "client-a", Sector: "energy"},
		{OwnerID: "firm-1", Sector: "energy"},
		{OwnerID: "firm-1", ClientID: "client-a"},
		{OwnerID: "firm-1", ClientID: "client-a", Sector: "energy", Revenue: -1},
		{OwnerID: "firm-1", ClientID: "client-a", Sector: "energy", HoursBilled: -2},
	}
	for i, input := range cases {
		if _, err := module.Consulting.RecordEngagement(ctx, "key-e-bad", input); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("case %d: got %v, want ErrInvalidInput", i, err)
		}
	}
}
