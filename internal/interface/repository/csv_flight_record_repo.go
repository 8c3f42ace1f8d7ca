package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"
)

// csvHeader is the column layout of the output file
var csvHeader = []string{"NUMBER", "AIRLINE", "MODEL", "DATE", "FROM", "TO", "FLIGHT", "FLIGHT TIME", "STATUS"}

// CSVFlightRecordRepository keeps the dataset in a local append-only CSV file
type CSVFlightRecordRepository struct {
	path string
	mu   sync.Mutex
}

// NewCSVFlightRecordRepository creates a repository backed by the file at path
func NewCSVFlightRecordRepository(path string) *CSVFlightRecordRepository {
	return &CSVFlightRecordRepository{path: path}
}

// FindAll reads every row of the file. A missing file is an empty dataset.
func (r *CSVFlightRecordRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.FlightRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records := []entity.FlightRecord{}
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}
		line++
		if line == 1 && isHeader(row) {
			continue
		}
		record, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.path, line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Append writes records after the existing rows. The header is written only
// when the file is created.
func (r *CSVFlightRecordRepository) Append(ctx context.Context, records []entity.FlightRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	writeHeader := false
	if info, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return err
		}
	}
	for _, record := range records {
		if err := w.Write(toRow(record)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return f.Close()
}

func isHeader(row []string) bool {
	return len(row) > 0 && row[0] == csvHeader[0]
}

func toRow(r entity.FlightRecord) []string {
	return []string{
		r.Registration,
		r.Airline,
		r.Model,
		r.Date.String(),
		r.Origin,
		r.Destination,
		r.Flight,
		r.Duration,
		r.Status,
	}
}

func fromRow(row []string) (entity.FlightRecord, error) {
	if len(row) < 4 {
		return entity.FlightRecord{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}
	// older files may lack trailing columns
	cols := make([]string, len(csvHeader))
	copy(cols, row)

	date, err := entity.ParseDate(cols[3])
	if err != nil {
		return entity.FlightRecord{}, err
	}
	return entity.FlightRecord{
		Registration: cols[0],
		Airline:      cols[1],
		Model:        cols[2],
		Date:         date,
		Origin:       cols[4],
		Destination:  cols[5],
		Flight:       cols[6],
		Duration:     cols[7],
		Status:       cols[8],
	}, nil
}

var _ repository.FlightRecordRepository = (*CSVFlightRecordRepository)(nil)
