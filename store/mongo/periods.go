package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fintrack/api/models"
	"fintrack/api/store"
)

func (s *Store) InsertPeriod(ctx context.Context, p *models.SalaryPeriod) error {
	if p.ID == "" {
		p.ID = newID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.Collection(salaryCollection).InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}
		return unavailable("insert salary period", err)
	}
	return nil
}

func (s *Store) FindPeriod(ctx context.Context, f store.PeriodFilter) (*models.SalaryPeriod, error) {
	var p models.SalaryPeriod
	err := s.db.Collection(salaryCollection).FindOne(ctx, periodFilter(f)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find salary period", err)
	}
	return &p, nil
}

func (s *Store) FindPeriodByID(ctx context.Context, id, userID string) (*models.SalaryPeriod, error) {
	filter := bson.M{"_id": id}
	if userID != "" {
		filter["user_id"] = userID
	}

	var p models.SalaryPeriod
	err := s.db.Collection(salaryCollection).FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find salary period by id", err)
	}
	return &p, nil
}

func (s *Store) ListPeriods(ctx context.Context, f store.PeriodFilter) ([]models.SalaryPeriod, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "year", Value: -1},
		{Key: "month", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := s.db.Collection(salaryCollection).Find(ctx, periodFilter(f), opts)
	if err != nil {
		return nil, unavailable("list salary periods", err)
	}
	defer cursor.Close(ctx)

	periods := []models.SalaryPeriod{}
	if err := cursor.All(ctx, &periods); err != nil {
		return nil, unavailable("decode salary periods", err)
	}
	return periods, nil
}

// DecrementRemaining is the one compare-and-swap in the system: the
// sufficiency check rides inside the update filter, so two concurrent
// expenses can never both pass it against a stale balance.
func (s *Store) DecrementRemaining(ctx context.Context, id string, amount float64) (*models.SalaryPeriod, error) {
	filter := bson.M{
		"_id":       id,
		"remaining": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"remaining": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.SalaryPeriod
	err := s.db.Collection(salaryCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("decrement remaining", err)
	}
	return &p, nil
}

func (s *Store) IncrementRemaining(ctx context.Context, id string, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"remaining": amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	_, err := s.db.Collection(salaryCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return unavailable("increment remaining", err)
	}
	// A vanished period leaves MatchedCount at zero; restoring into
	// nothing is deliberately a no-op.
	return nil
}

func periodFilter(f store.PeriodFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Month != 0 {
		filter["month"] = f.Month
	}
	if f.Year != 0 {
		filter["year"] = f.Year
	}
	return filter
}
