package usecase

import (
	"context"
	"fmt"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"
)

const sourceAirport = "airport"

// AirportCollector paginates an airport's arrivals and departures boards
type AirportCollector struct {
	source   AirportScheduleSource
	airports repository.AirportRepository
	config   CollectorConfig
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewAirportCollector creates an airport history collector. airports may be nil.
func NewAirportCollector(source AirportScheduleSource, airports repository.AirportRepository, config CollectorConfig, metrics *metrics.Metrics, logger logger.Logger) *AirportCollector {
	return &AirportCollector{
		source:   source,
		airports: airports,
		config:   config.withDefaults(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Collect returns the airport's arrivals followed by its departures
func (c *AirportCollector) Collect(ctx context.Context, session entity.Session, code string, earliest *entity.Date) ([]entity.FlightRecord, error) {
	arrivals, airport, err := c.fetchDirection(ctx, session, code, entity.Arrivals, earliest)
	if err != nil {
		return nil, err
	}
	departures, _, err := c.fetchDirection(ctx, session, code, entity.Departures, earliest)
	if err != nil {
		return nil, err
	}

	if c.airports != nil {
		if err := c.airports.Upsert(ctx, airport); err != nil {
			c.logger.Warn("Failed to store airport details", "airport", code, "error", err)
		}
	}

	records := make([]entity.FlightRecord, 0, len(arrivals)+len(departures))
	records = append(records, arrivals...)
	records = append(records, departures...)

	if c.metrics != nil {
		c.metrics.RecordsCollected.WithLabelValues(sourceAirport).Add(float64(len(records)))
	}
	c.logger.Info("Collected airport history",
		"airport", code,
		"arrivals", len(arrivals),
		"departures", len(departures))
	return records, nil
}

// fetchDirection walks one board forward from page 1 until the reported
// current page reaches the reported total
func (c *AirportCollector) fetchDirection(ctx context.Context, session entity.Session, code string, direction entity.Direction, earliest *entity.Date) ([]entity.FlightRecord, entity.Airport, error) {
	log := c.logger.With("airport", code, "direction", direction.String())

	snapshot := c.config.Now().Add(-scheduleLag).Unix()
	cursor := entity.NewCursor(direction)
	airport := AirportFromDetails(code, nil)
	seen := make(map[entity.FlightRecord]struct{})
	var records []entity.FlightRecord

	for {
		if cursor.Page > c.config.MaxPages {
			log.Warn("Page limit reached", "maxPages", c.config.MaxPages)
			break
		}

		board, details, err := c.source.AirportSchedule(ctx, flightradar.ScheduleQuery{
			Code:      code,
			Direction: direction,
			Page:      cursor.Page,
			Limit:     c.config.PageSize,
			Timestamp: snapshot,
			Token:     session.Token,
		})
		if err != nil {
			return nil, airport, fmt.Errorf("airport %s %s page %d: %w", code, direction, cursor.Page, err)
		}
		if c.metrics != nil {
			c.metrics.PagesFetched.WithLabelValues(sourceAirport).Inc()
		}
		if details != nil {
			airport = AirportFromDetails(code, details)
		}

		for _, item := range board.Data {
			entry := item.Flight
			if SkipAirportStatus(entry.Status.Text) {
				continue
			}
			date, ok := EntryDate(entry)
			if !ok {
				continue
			}
			if earliest != nil && date.Before(*earliest) {
				log.Info("Reached earliest date", "date", date.String(), "page", cursor.Page)
				return records, airport, nil
			}

			record, ok := NormalizeAirportEntry(airport, direction, entry)
			if !ok {
				continue
			}
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}
			records = append(records, record)
		}

		if len(board.Data) == 0 || board.Page.Current >= board.Page.Total {
			break
		}
		cursor.Advance("", 0)

		if err := c.config.Sleep(ctx, c.config.PageDelay); err != nil {
			return nil, airport, err
		}
	}

	return records, airport, nil
}
