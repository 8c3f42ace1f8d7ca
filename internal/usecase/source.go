package usecase

import (
	"context"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/interface/flightradar"
)

// FlightHistorySource serves an aircraft's movement history
type FlightHistorySource interface {
	FlightList(ctx context.Context, q flightradar.FlightListQuery) (*flightradar.FlightList, error)
	AircraftExists(ctx context.Context, registration string) error
}

// AirportScheduleSource serves airport arrival and departure boards
type AirportScheduleSource interface {
	AirportSchedule(ctx context.Context, q flightradar.ScheduleQuery) (*flightradar.ScheduleBoard, *flightradar.AirportDetails, error)
}

// AirlineDirectory is the known-airlines reference and fleet lookup
type AirlineDirectory interface {
	Airlines(ctx context.Context) ([]entity.Airline, error)
	Fleet(ctx context.Context, handle string) ([]string, error)
}

// SessionSource hands out the run's session
type SessionSource interface {
	Session() (entity.Session, error)
}
