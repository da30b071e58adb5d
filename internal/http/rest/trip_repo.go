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

func (api *API) CreateTripRepo(ctx context.Context, trip *model.Trip) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.Deps.DB.Collection(db.Trips).InsertOne(ctx, trip); err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (api *API) ListTripsRepo(ctx context.Context, userID primitive.ObjectID) ([]model.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cur, err := api.Deps.DB.Collection(db.Trips).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find trips: %w", err)
	}
	trips := []model.Trip{}
	if err := cur.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}
	return trips, nil
}

func (api *API) GetTripRepo(ctx context.Context, id primitive.ObjectID) (model.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var trip model.Trip
	err := api.Deps.DB.Collection(db.Trips).FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Trip{}, errNotFound
	}
	if err != nil {
		return model.Trip{}, fmt.Errorf("find trip: %w", err)
	}
	return trip, nil
}

// TripOwnedBy reports whether userID owns the trip.
func (api *API) TripOwnedBy(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	n, err := api.Deps.DB.Collection(db.Trips).CountDocuments(ctx, bson.M{"_id": id, "user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count trips: %w", err)
	}
	return n > 0, nil
}

func (api *API) DeleteTripRepo(ctx context.Context, id, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.Deps.DB.Collection(db.Trips).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}
