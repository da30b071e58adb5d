package rest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwise1/travel_planner_api/internal/db"
	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errNotFound = errors.New("not found")

func (api *API) users() *mongo.Collection {
	return api.Deps.DB.Collection(db.Users)
}

func (api *API) otps() *mongo.Collection {
	return api.Deps.DB.Collection(db.OTPs)
}

func (api *API) CreateUserRepo(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.users().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (api *API) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return api.findUser(ctx, bson.M{"email": email})
}

func (api *API) GetUserByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	return api.findUser(ctx, bson.M{"_id": id})
}

func (api *API) findUser(ctx context.Context, filter bson.M) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var user model.User
	err := api.users().FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, errNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateUserRepo applies set to the user and returns the updated document.
func (api *API) UpdateUserRepo(ctx context.Context, id primitive.ObjectID, set bson.M) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err := api.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, errNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// StoreOTP replaces any outstanding code for the same email and purpose.
func (api *API) StoreOTP(ctx context.Context, otp model.OTP) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{"email": otp.Email, "purpose": otp.Purpose}
	_, err := api.otps().ReplaceOne(ctx, filter, otp, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (api *API) GetOTP(ctx context.Context, email, purpose string) (model.OTP, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var otp model.OTP
	err := api.otps().FindOne(ctx, bson.M{"email": email, "purpose": purpose}).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.OTP{}, errNotFound
	}
	if err != nil {
		return model.OTP{}, fmt.Errorf("find otp: %w", err)
	}
	return otp, nil
}

func (api *API) IncrementOTPAttempts(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := api.otps().UpdateByID(ctx, id, bson.M{"$inc": bson.M{"attempts": 1}})
	if err != nil {
		return fmt.Errorf("increment otp attempts: %w", err)
	}
	return nil
}

func (api *API) DeleteOTP(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.otps().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
