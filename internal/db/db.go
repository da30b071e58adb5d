package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 5 * time.Second

// Collection names.
const (
	Users             = "users"
	OTPs              = "otps"
	Trips             = "trips"
	Blogs             = "blogs"
	Groups            = "groups"
	Expenses          = "expenses"
	EmergencyContacts = "emergency_contacts"
	Photos            = "photos"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func New(uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetServerSelectionTimeout(defaultTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return Wrap(client, database), nil
}

// Wrap builds a DB around an existing client.
func Wrap(client *mongo.Client, database string) *DB {
	return &DB{client: client, database: client.Database(database)}
}

func (db *DB) Database() *mongo.Database {
	return db.database
}

func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates every index the API relies on. Creating an index
// that already exists with the same definition is a no-op.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		Users: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("idx_users_email").SetUnique(true),
			},
		},
		OTPs: {
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("idx_otps_expires_ttl").SetExpireAfterSeconds(0),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}, {Key: "purpose", Value: 1}},
				Options: options.Index().SetName("idx_otps_email_purpose"),
			},
		},
		Trips: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: -1}},
				Options: options.Index().SetName("idx_trips_user_start"),
			},
		},
		Blogs: {
			{
				Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_blogs_published_created"),
			},
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}},
				Options: options.Index().SetName("idx_blogs_author"),
			},
		},
		Groups: {
			{
				Keys:    bson.D{{Key: "participants", Value: 1}},
				Options: options.Index().SetName("idx_groups_participants"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_groups_status_created"),
			},
		},
		Expenses: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
				Options: options.Index().SetName("idx_expenses_user_date"),
			},
		},
		EmergencyContacts: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetName("idx_emergency_user_name"),
			},
		},
		Photos: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_photos_user_created"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
