package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// ErrReportNotFound is returned when no report matches the requested id.
var ErrReportNotFound = errors.New("yield report not found")

const reportsCollection = "yield_reports"

// Repository defines the interface for yield report storage.
type Repository interface {
	SaveYieldReport(ctx context.Context, report models.YieldReport) error
	FindYieldReport(ctx context.Context, id string) (models.YieldReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: reportsCollection,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveYieldReport inserts a report document.
func (r *MongoDBRepository) SaveYieldReport(ctx context.Context, report models.YieldReport) error {
	if report.ID == "" {
		return fmt.Errorf("yield report id must not be empty")
	}
	if _, err := r.collection().InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert yield report: %w", err)
	}
	return nil
}

// FindYieldReport loads a report by id.
func (r *MongoDBRepository) FindYieldReport(ctx context.Context, id string) (models.YieldReport, error) {
	var report models.YieldReport
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.YieldReport{}, ErrReportNotFound
	}
	if err != nil {
		return models.YieldReport{}, fmt.Errorf("failed to load yield report %s: %w", id, err)
	}
	return report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
