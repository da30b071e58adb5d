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

const maxBlogPage = 100

func (api *API) blogs() *mongo.Collection {
	return api.Deps.DB.Collection(db.Blogs)
}

func (api *API) CreateBlogRepo(ctx context.Context, blog *model.Blog) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := api.blogs().InsertOne(ctx, blog); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

// ListBlogsRepo returns published posts plus the viewer's own drafts,
// newest first.
func (api *API) ListBlogsRepo(ctx context.Context, viewer primitive.ObjectID, limit, skip int64) ([]model.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if limit <= 0 || limit > maxBlogPage {
		limit = maxBlogPage
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"published": true},
		bson.M{"author_id": viewer},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cur, err := api.blogs().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	blogs := []model.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (api *API) GetBlogRepo(ctx context.Context, id primitive.ObjectID) (model.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var blog model.Blog
	err := api.blogs().FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Blog{}, errNotFound
	}
	if err != nil {
		return model.Blog{}, fmt.Errorf("find blog: %w", err)
	}
	return blog, nil
}

func (api *API) UpdateBlogRepo(ctx context.Context, blog model.Blog) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.blogs().ReplaceOne(ctx, bson.M{"_id": blog.ID, "author_id": blog.AuthorID}, blog)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return errNotFound
	}
	return nil
}

func (api *API) DeleteBlogRepo(ctx context.Context, id, authorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := api.blogs().DeleteOne(ctx, bson.M{"_id": id, "author_id": authorID})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}
