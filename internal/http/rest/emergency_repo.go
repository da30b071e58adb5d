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

func (api *API) contacts() *mongo.Collection {
	return api.Deps.DB.Collection(db.EmergencyContacts)
}

func (api *API) CreateContactRepo(ctx context.Context, contact *model.EmergencyContact) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.contacts().InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("insert emergency contact: %w", err)
	}
	return nil
}

// ListContactsRepo sorts by name ignoring case.
func (api *API) ListContactsRepo(ctx context.Context, userID primitive.ObjectID) ([]model.EmergencyContact, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})
	cur, err := api.contacts().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find emergency contacts: %w", err)
	}
	contacts := []model.EmergencyContact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode emergency contacts: %w", err)
	}
	return contacts, nil
}

func (api *API) GetContactRepo(ctx context.Context, id, userID primitive.ObjectID) (model.EmergencyContact, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var contact model.EmergencyContact
	err := api.contacts().FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.EmergencyContact{}, errNotFound
	}
	if err != nil {
		return model.EmergencyContact{}, fmt.Errorf("find emergency contact: %w", err)
	}
	return contact, nil
}

func (api *API) UpdateContactRepo(ctx context.Context, id, userID primitive.ObjectID, set bson.M) (model.EmergencyContact, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var contact model.EmergencyContact
	err := api.contacts().FindOneAndUpdate(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set}, opts).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.EmergencyContact{}, errNotFound
	}
	if err != nil {
		return model.EmergencyContact{}, fmt.Errorf("update emergency contact: %w", err)
	}
	return contact, nil
}

func (api *API) DeleteContactRepo(ctx context.Context, id, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.contacts().DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete emergency contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}
