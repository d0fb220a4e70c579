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

func (s *Store) InsertGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = newID()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := s.db.Collection(goalCollection).InsertOne(ctx, g)
	if err != nil {
		return unavailable("insert goal", err)
	}
	return nil
}

func (s *Store) FindGoalByID(ctx context.Context, id string) (*models.Goal, error) {
	var g models.Goal
	err := s.db.Collection(goalCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find goal", err)
	}
	return &g, nil
}

func (s *Store) ListGoals(ctx context.Context, f store.GoalFilter, limit int) ([]models.Goal, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "created_at", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(goalCollection).Find(ctx, goalFilter(f), opts)
	if err != nil {
		return nil, unavailable("list goals", err)
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, unavailable("decode goals", err)
	}
	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *models.Goal) error {
	g.UpdatedAt = time.Now()

	res, err := s.db.Collection(goalCollection).ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return unavailable("update goal", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.Collection(goalCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return unavailable("delete goal", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountGoals(ctx context.Context, f store.GoalFilter) (int64, error) {
	n, err := s.db.Collection(goalCollection).CountDocuments(ctx, goalFilter(f))
	if err != nil {
		return 0, unavailable("count goals", err)
	}
	return n, nil
}

func goalFilter(f store.GoalFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	return filter
}
