package repository

import (
	"context"

	"flight-history-collector/internal/domain/entity"
)

// AirportRepository records the details of airports seen in schedule payloads
type AirportRepository interface {
	Upsert(ctx context.Context, airport entity.Airport) error
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
}
