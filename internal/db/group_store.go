package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupStore persists the group aggregate in the groups collection. Every
// call is bounded by defaultTimeout on top of the caller's context.
type GroupStore struct {
	c *mongo.Collection
}

var _ grouptravel.Store = (*GroupStore)(nil)

func NewGroupStore(db *DB) *GroupStore {
	return &GroupStore{c: db.Collection(Groups)}
}

func (s *GroupStore) Create(ctx context.Context, g *model.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *GroupStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	var g model.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, grouptravel.ErrNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &g, nil
}

// List returns groups newest first, without their embedded sub-resources.
func (s *GroupStore) List(ctx context.Context, f grouptravel.ListFilter) ([]model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.Member.IsZero() {
		filter["$or"] = bson.A{
			bson.M{"owner": f.Member},
			bson.M{"participants": f.Member},
		}
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(f.Skip).
		SetProjection(bson.M{
			"group_expenses":    0,
			"attendance_checks": 0,
			"sos_alerts":        0,
			"announcements":     0,
		})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer cur.Close(ctx)

	groups := []model.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	return groups, nil
}

// Replace writes g only if the stored version still matches g.Version.
func (s *GroupStore) Replace(ctx context.Context, g *model.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	expected := g.Version
	g.Version = expected + 1
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": g.ID, "version": expected}, g)
	if err != nil {
		g.Version = expected
		return fmt.Errorf("replace group: %w", err)
	}
	if res.MatchedCount == 0 {
		g.Version = expected
		return grouptravel.ErrVersionConflict
	}
	return nil
}

// Join adds userID and takes a spot in one conditional update so two callers
// can never share the last spot.
func (s *GroupStore) Join(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	filter := bson.M{
		"_id":             id,
		"status":          model.GroupPublic,
		"available_spots": bson.M{"$gt": 0},
		"owner":           bson.M{"$ne": userID},
		"participants":    bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$inc":      bson.M{"available_spots": -1, "version": 1},
		"$set":      bson.M{"updated_at": now},
	}
	return s.findOneAndUpdate(ctx, id, filter, update)
}

// Cancel removes userID from participants and organizers and frees a spot.
func (s *GroupStore) Cancel(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	filter := bson.M{
		"_id":          id,
		"owner":        bson.M{"$ne": userID},
		"participants": userID,
	}
	update := bson.M{
		"$pull": bson.M{"participants": userID, "organizers": userID},
		"$inc":  bson.M{"available_spots": 1, "version": 1},
		"$set":  bson.M{"updated_at": now},
	}
	return s.findOneAndUpdate(ctx, id, filter, update)
}

func (s *GroupStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	var g model.Group
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g)
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update group: %w", err)
	}

	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("count group: %w", err)
	}
	if n == 0 {
		return nil, grouptravel.ErrNotFound
	}
	return nil, grouptravel.ErrConditionFailed
}
