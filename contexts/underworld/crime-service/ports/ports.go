package ports

import (
	"context"
	"time"

	"statecraft/contexts/underworld/crime-service/domain/entities"
)

type Repository interface {
	SaveFacility(ctx context.Context, facility entities.Facility) error
	GetFacility(ctx context.Context, facilityID string) (entities.Facility, error)
	ListFacilitiesByOwner(ctx context.Context, ownerID string) ([]entities.Facility, error)
	SaveRoute(ctx context.Context, route entities.Route) error
	GetRoute(ctx context.Context, routeID string) (entities.Route, error)
	ListRoutesByFacility(ctx context.Context, facilityID string) ([]entities.Route, error)
	SaveChannel(ctx context.Context, channel entities.Channel) error
	GetChannel(ctx context.Context, channelID string) (entities.Channel, error)
	ListChannelsByFacility(ctx context.Context, facilityID string) ([]entities.Channel, error)
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
