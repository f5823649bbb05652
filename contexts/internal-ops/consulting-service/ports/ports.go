package ports

import (
	"context"
	"time"
)

type Engagement struct {
	EngagementID   string
	OwnerID        string
	ClientID       string
	Sector         string
	Revenue        float64
	HoursBilled    float64
	HoursAvailable float64
	RecordedAt     time.Time
}

type SectorRollup struct {
	Sector          string
	Revenue         float64
	EngagementCount int
}

type Metrics struct {
	OwnerID            string
	EngagementCount    int
	TotalRevenue       float64
	AverageUtilization float64
	Sectors            []SectorRollup
}

type Repository interface {
	SaveEngagement(ctx context.Context, engagement Engagement) error
	ListEngagementsByOwner(ctx context.Context, ownerID string) ([]Engagement, error)
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
