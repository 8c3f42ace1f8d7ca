package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"
)

// MemoryFlightRecordRepository holds the dataset in process memory
type MemoryFlightRecordRepository struct {
	mu      sync.RWMutex
	records []entity.FlightRecord
}

// NewMemoryFlightRecordRepository creates a repository seeded with records
func NewMemoryFlightRecordRepository(records ...entity.FlightRecord) *MemoryFlightRecordRepository {
	return &MemoryFlightRecordRepository{records: append([]entity.FlightRecord(nil), records...)}
}

func (r *MemoryFlightRecordRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.FlightRecord{}, r.records...), nil
}

func (r *MemoryFlightRecordRepository) Append(ctx context.Context, records []entity.FlightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

// MemoryAirlineRepository caches the airline directory in process memory
type MemoryAirlineRepository struct {
	mu       sync.RWMutex
	airlines []entity.Airline
	storedAt time.Time
	now      func() time.Time
}

// NewMemoryAirlineRepository creates an empty airline cache
func NewMemoryAirlineRepository() *MemoryAirlineRepository {
	return &MemoryAirlineRepository{now: time.Now}
}

func (r *MemoryAirlineRepository) List(ctx context.Context) ([]entity.Airline, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.airlines) == 0 {
		return nil, time.Time{}, nil
	}
	return append([]entity.Airline(nil), r.airlines...), r.storedAt, nil
}

func (r *MemoryAirlineRepository) ReplaceAll(ctx context.Context, airlines []entity.Airline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.airlines = append([]entity.Airline(nil), airlines...)
	r.storedAt = r.now()
	return nil
}

// MemoryAirportRepository keeps airport details in process memory
type MemoryAirportRepository struct {
	mu       sync.RWMutex
	airports map[string]entity.Airport
}

// NewMemoryAirportRepository creates an empty airport store
func NewMemoryAirportRepository() *MemoryAirportRepository {
	return &MemoryAirportRepository{airports: make(map[string]entity.Airport)}
}

func (r *MemoryAirportRepository) Upsert(ctx context.Context, airport entity.Airport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	airport.Code = strings.ToUpper(airport.Code)
	r.airports[airport.Code] = airport
	return nil
}

// GetByCode returns a NotFoundError for unknown codes
func (r *MemoryAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	airport, ok := r.airports[strings.ToUpper(code)]
	if !ok {
		return nil, &entity.NotFoundError{Identifier: code}
	}
	return &airport, nil
}

var (
	_ repository.FlightRecordRepository = (*MemoryFlightRecordRepository)(nil)
	_ repository.AirlineRepository      = (*MemoryAirlineRepository)(nil)
	_ repository.AirportRepository      = (*MemoryAirportRepository)(nil)
)
