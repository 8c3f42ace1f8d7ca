package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// flightRecordDocument is the stored shape of a flight record
type flightRecordDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Registration string             `bson:"registration"`
	Airline      string             `bson:"airline"`
	Model        string             `bson:"model"`
	Date         string             `bson:"date"`
	Origin       string             `bson:"origin"`
	Destination  string             `bson:"destination"`
	Flight       string             `bson:"flight"`
	Duration     string             `bson:"duration"`
	Status       string             `bson:"status"`
	CollectedAt  time.Time          `bson:"collectedAt"`
}

func toDocument(record entity.FlightRecord, collectedAt time.Time) flightRecordDocument {
	return flightRecordDocument{
		ID:           primitive.NewObjectID(),
		Registration: record.Registration,
		Airline:      record.Airline,
		Model:        record.Model,
		Date:         record.Date.Format(entity.DateLayoutISO),
		Origin:       record.Origin,
		Destination:  record.Destination,
		Flight:       record.Flight,
		Duration:     record.Duration,
		Status:       record.Status,
		CollectedAt:  collectedAt,
	}
}

func (d flightRecordDocument) toEntity() (entity.FlightRecord, error) {
	date, err := entity.ParseDate(d.Date)
	if err != nil {
		return entity.FlightRecord{}, err
	}
	return entity.FlightRecord{
		Registration: d.Registration,
		Airline:      d.Airline,
		Model:        d.Model,
		Date:         date,
		Origin:       d.Origin,
		Destination:  d.Destination,
		Flight:       d.Flight,
		Duration:     d.Duration,
		Status:       d.Status,
	}, nil
}

// MongoFlightRecordRepository implements FlightRecordRepository
type MongoFlightRecordRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoFlightRecordRepository creates a new flight record repository
func NewMongoFlightRecordRepository(db *mongo.Database) *MongoFlightRecordRepository {
	return &MongoFlightRecordRepository{
		collection: db.Collection("flight_records"),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique index over every record field, so the
// collection itself refuses a movement stored twice
func (r *MongoFlightRecordRepository) EnsureIndexes(ctx context.Context) error {
	identityIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "registration", Value: 1},
			{Key: "date", Value: 1},
			{Key: "flight", Value: 1},
			{Key: "status", Value: 1},
			{Key: "origin", Value: 1},
			{Key: "destination", Value: 1},
			{Key: "airline", Value: 1},
			{Key: "model", Value: 1},
			{Key: "duration", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("record_identity"),
	}

	// Index on collectedAt for storage-order scans
	collectedAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "collectedAt", Value: 1}, {Key: "_id", Value: 1}},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{identityIndex, collectedAtIndex})
	if err != nil {
		return fmt.Errorf("failed to create flight record indexes: %w", err)
	}
	return nil
}

// FindAll returns every stored record in insertion order
func (r *MongoFlightRecordRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "collectedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flight records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []flightRecordDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode flight records: %w", err)
	}

	records := make([]entity.FlightRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := doc.toEntity()
		if err != nil {
			return nil, fmt.Errorf("flight record %s: %w", doc.ID.Hex(), err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Append inserts records in order. Records already present are skipped by the
// unique index rather than failing the batch.
func (r *MongoFlightRecordRepository) Append(ctx context.Context, records []entity.FlightRecord) error {
	if len(records) == 0 {
		return nil
	}

	collectedAt := r.now().UTC()
	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		docs = append(docs, toDocument(record, collectedAt))
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return fmt.Errorf("failed to insert flight records: %w", err)
	}
	return nil
}

// onlyDuplicates reports whether every write error of err is a duplicate key
func onlyDuplicates(err error) bool {
	var bulk mongo.BulkWriteException
	if !errors.As(err, &bulk) || bulk.WriteConcernError != nil || len(bulk.WriteErrors) == 0 {
		return false
	}
	for _, we := range bulk.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}

var _ repository.FlightRecordRepository = (*MongoFlightRecordRepository)(nil)
