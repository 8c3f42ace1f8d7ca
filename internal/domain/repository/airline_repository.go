package repository

import (
	"context"
	"time"

	"flight-history-collector/internal/domain/entity"
)

// AirlineRepository caches the provider's airline directory
type AirlineRepository interface {
	// List returns the cached directory in directory order and the time it was stored.
	// An empty cache returns a nil slice and a zero time.
	List(ctx context.Context) ([]entity.Airline, time.Time, error)
	ReplaceAll(ctx context.Context, airlines []entity.Airline) error
}
