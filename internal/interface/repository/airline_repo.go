package repository

import (
	"context"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// KnownAirlines GORM model for database mapping
type KnownAirlines struct {
	ID        uint   `gorm:"primaryKey"`
	Position  int    `gorm:"column:position;index"`
	Name      string `gorm:"column:name"`
	Handle    string `gorm:"column:handle"`
	CreatedAt time.Time
}

// TableName overrides the default table name
func (KnownAirlines) TableName() string {
	return "m_known_airlines"
}

// List returns the cached directory in directory order
func (r *GormAirlineRepository) List(ctx context.Context) ([]entity.Airline, time.Time, error) {
	var rows []KnownAirlines
	result := r.db.WithContext(ctx).Order("position").Find(&rows)
	if result.Error != nil {
		return nil, time.Time{}, result.Error
	}
	if len(rows) == 0 {
		return nil, time.Time{}, nil
	}

	// Convert GORM models to domain entities
	airlines := make([]entity.Airline, 0, len(rows))
	for _, row := range rows {
		airlines = append(airlines, entity.Airline{Name: row.Name, Handle: row.Handle})
	}
	return airlines, rows[0].CreatedAt, nil
}

// ReplaceAll swaps the cached directory in one transaction
func (r *GormAirlineRepository) ReplaceAll(ctx context.Context, airlines []entity.Airline) error {
	now := time.Now()
	rows := make([]KnownAirlines, 0, len(airlines))
	for i, airline := range airlines {
		rows = append(rows, KnownAirlines{
			Position:  i,
			Name:      airline.Name,
			Handle:    airline.Handle,
			CreatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&KnownAirlines{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}
