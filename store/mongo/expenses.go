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

func (s *Store) InsertExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = time.Now()

	_, err := s.db.Collection(expenseCollection).InsertOne(ctx, e)
	if err != nil {
		return unavailable("insert expense", err)
	}
	return nil
}

func (s *Store) FindExpenseByID(ctx context.Context, id string) (*models.Expense, error) {
	var e models.Expense
	err := s.db.Collection(expenseCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find expense", err)
	}
	return &e, nil
}

func (s *Store) ListExpenses(ctx context.Context, f store.ExpenseFilter) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := s.db.Collection(expenseCollection).Find(ctx, expenseFilter(f), opts)
	if err != nil {
		return nil, unavailable("list expenses", err)
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, unavailable("decode expenses", err)
	}
	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.Collection(expenseCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return unavailable("delete expense", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SumExpenses(ctx context.Context, f store.ExpenseFilter) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: expenseFilter(f)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := s.db.Collection(expenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, unavailable("sum expenses", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, unavailable("decode expense total", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (s *Store) SumExpensesByCategory(ctx context.Context, f store.ExpenseFilter) ([]models.CategoryTotal, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: expenseFilter(f)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"total": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"category": "$_id",
			"total":    1,
			"_id":      0,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "total", Value: -1},
			{Key: "category", Value: 1},
		}}},
	}

	cursor, err := s.db.Collection(expenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, unavailable("sum expenses by category", err)
	}
	defer cursor.Close(ctx)

	totals := []models.CategoryTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, unavailable("decode category totals", err)
	}
	return totals, nil
}

func expenseFilter(f store.ExpenseFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}

	switch {
	case f.Month != 0 && f.Year != 0:
		start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		filter["date"] = bson.M{"$gte": start, "$lt": start.AddDate(0, 1, 0)}
	case f.Month != 0:
		// Month without year spans every year with that month.
		filter["$expr"] = bson.M{"$eq": bson.A{bson.M{"$month": "$date"}, f.Month}}
	case f.Year != 0:
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		filter["date"] = bson.M{"$gte": start, "$lt": start.AddDate(1, 0, 0)}
	}
	return filter
}
