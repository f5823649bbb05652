package ports

import (
	"context"
	"time"

	"statecraft/contexts/elections/election-resolution/domain/entities"
)

type ResultRepository interface {
	SaveResult(ctx context.Context, result entities.ElectionResult) error
	GetResult(ctx context.Context, projectionID string) (entities.ElectionResult, error)
	ListResults(ctx context.Context, limit int) ([]entities.ElectionResult, error)
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

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
