package usecase

import (
	"context"
	"fmt"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"
)

const sourceAircraft = "aircraft"

// AircraftCollector paginates an aircraft's movement history
type AircraftCollector struct {
	source  FlightHistorySource
	config  CollectorConfig
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewAircraftCollector creates an aircraft history collector
func NewAircraftCollector(source FlightHistorySource, config CollectorConfig, metrics *metrics.Metrics, logger logger.Logger) *AircraftCollector {
	return &AircraftCollector{
		source:  source,
		config:  config.withDefaults(),
		metrics: metrics,
		logger:  logger,
	}
}

// Collect walks the aircraft's history pages, newest first, until the provider
// reports no more pages or an entry older than earliest is met. In the latter
// case the records gathered so far are returned and no further page is fetched.
func (c *AircraftCollector) Collect(ctx context.Context, session entity.Session, registration string, earliest *entity.Date) ([]entity.FlightRecord, error) {
	log := c.logger.With("aircraft", registration)

	if c.config.VerifyAircraft {
		if err := c.source.AircraftExists(ctx, registration); err != nil {
			return nil, err
		}
	}

	cursor := entity.NewCursor(entity.Departures)
	seen := make(map[entity.FlightRecord]struct{})
	var records []entity.FlightRecord

	for {
		if cursor.Page > c.config.MaxPages {
			log.Warn("Page limit reached", "maxPages", c.config.MaxPages)
			break
		}

		page, err := c.source.FlightList(ctx, flightradar.FlightListQuery{
			Registration: registration,
			Page:         cursor.Page,
			Limit:        c.config.PageSize,
			OlderThan:    cursor.OlderThan,
			Timestamp:    cursor.Timestamp,
			Token:        session.Token,
		})
		if err != nil {
			return nil, fmt.Errorf("aircraft %s page %d: %w", registration, cursor.Page, err)
		}
		if c.metrics != nil {
			c.metrics.PagesFetched.WithLabelValues(sourceAircraft).Inc()
		}

		if page.Data == nil {
			if cursor.Page == 1 {
				log.Info("No flights found for aircraft")
			}
			break
		}

		for _, entry := range page.Data {
			if SkipAircraftStatus(entry.Status.Text) {
				continue
			}
			date, ok := EntryDate(entry)
			if !ok {
				log.Debug("Skipping undated entry", "flightId", entry.Identification.ID)
				continue
			}
			if earliest != nil && date.Before(*earliest) {
				log.Info("Reached earliest date", "date", date.String(), "page", cursor.Page, "collected", len(records))
				c.count(len(records))
				return records, nil
			}

			record, ok := NormalizeAircraftEntry(registration, entry)
			if !ok {
				continue
			}
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}
			records = append(records, record)
		}

		if !page.Page.More || len(page.Data) == 0 {
			break
		}

		last := page.Data[len(page.Data)-1]
		cursor.Advance(last.Identification.ID, last.Time.Scheduled.Departure)

		if err := c.config.Sleep(ctx, c.config.PageDelay); err != nil {
			return nil, err
		}
	}

	log.Info("Collected aircraft history", "records", len(records), "pages", cursor.Page)
	c.count(len(records))
	return records, nil
}

func (c *AircraftCollector) count(n int) {
	if c.metrics != nil {
		c.metrics.RecordsCollected.WithLabelValues(sourceAircraft).Add(float64(n))
	}
}
