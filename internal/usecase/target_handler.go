package usecase

import (
	"context"

	"flight-history-collector/internal/domain/entity"
)

// TargetCollector collects the movement history of one target
type TargetCollector interface {
	// Collect returns the target's records, stopping at earliest when set
	Collect(ctx context.Context, session entity.Session, id string, earliest *entity.Date) ([]entity.FlightRecord, error)
}

// CollectorRouter routes targets to the collector for their kind
type CollectorRouter interface {
	// Register registers the collector for a target kind
	Register(kind entity.TargetKind, collector TargetCollector)

	// GetCollector returns the collector for a target, nil if none is registered
	GetCollector(target entity.Target) TargetCollector
}
