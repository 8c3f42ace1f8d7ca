package repository

import (
	"context"

	"flight-history-collector/internal/domain/entity"
)

// FlightRecordRepository is the persisted dataset of collected movements
type FlightRecordRepository interface {
	// FindAll returns every stored record in storage order; an absent dataset is empty
	FindAll(ctx context.Context) ([]entity.FlightRecord, error)
	// Append stores records after the existing ones without rewriting them
	Append(ctx context.Context, records []entity.FlightRecord) error
}
