package rest

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwise1/travel_planner_api/internal/db"
	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (api *API) expenses() *mongo.Collection {
	return api.Deps.DB.Collection(db.Expenses)
}

func (api *API) CreateExpenseRepo(ctx context.Context, expense *model.Expense) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.expenses().InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// FindExpensesRepo returns the expenses matching filter, newest first.
func (api *API) FindExpensesRepo(ctx context.Context, filter bson.M) ([]model.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := api.expenses().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	expenses := []model.Expense{}
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

func (api *API) GetExpenseRepo(ctx context.Context, id, userID primitive.ObjectID) (model.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var expense model.Expense
	err := api.expenses().FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Expense{}, errNotFound
	}
	if err != nil {
		return model.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	return expense, nil
}

func (api *API) UpdateExpenseRepo(ctx context.Context, expense model.Expense) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.expenses().ReplaceOne(ctx, bson.M{"_id": expense.ID, "user_id": expense.UserID}, expense)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return errNotFound
	}
	return nil
}

func (api *API) DeleteExpenseRepo(ctx context.Context, id, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.expenses().DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}
