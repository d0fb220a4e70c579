// Package mongo is the primary Store backend, holding salaries,
// expenses and goals in one MongoDB database.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"fintrack/api/logger"
	"fintrack/api/store"
)

const (
	salaryCollection  = "salaries"
	expenseCollection = "expenses"
	goalCollection    = "goals"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and ensures the unique (user, month, year)
// salary index exists.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	logger.Get().Info("successfully connected to MongoDB", zap.String("database", database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	// One salary period per user per calendar month, enforced at the
	// database level so racing creates still collapse to one winner.
	_, err := s.db.Collection(salaryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "month", Value: 1},
			{Key: "year", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating salary index: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB", zap.Error(err))
		return
	}
	logger.Get().Info("successfully disconnected from MongoDB")
}

func newID() string {
	return bson.NewObjectID().Hex()
}

// unavailable tags a driver failure with the store-level sentinel so the
// request boundary can map it to a generic 500.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
