package repository

import (
	"context"
	"strings"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"column:code;uniqueIndex"`
	IATA      string `gorm:"column:iata"`
	ICAO      string `gorm:"column:icao"`
	Name      string `gorm:"column:name"`
	City      string `gorm:"column:city"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// Upsert stores the airport, refreshing details of a known code
func (r *GormAirportRepository) Upsert(ctx context.Context, airport entity.Airport) error {
	row := Airports{
		Code: strings.ToUpper(airport.Code),
		IATA: airport.IATA,
		ICAO: airport.ICAO,
		Name: airport.Name,
		City: airport.City,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"iata", "icao", "name", "city", "updated_at"}),
	}).Create(&row).Error
}

// GetByCode finds an airport by code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&airport)
	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Airport{
		Code: airport.Code,
		IATA: airport.IATA,
		ICAO: airport.ICAO,
		Name: airport.Name,
		City: airport.City,
	}, nil
}

// Migrate creates the reference tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&KnownAirlines{}, &Airports{})
}
