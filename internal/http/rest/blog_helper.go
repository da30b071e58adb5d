package rest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// blogPolicy is safe for concurrent use once built.
var blogPolicy = bluemonday.UGCPolicy()

func sanitizeContent(content string) string {
	return strings.TrimSpace(blogPolicy.Sanitize(content))
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// applyBlogRequest copies req onto blog, sanitizing the HTML body.
func applyBlogRequest(blog *model.Blog, req model.BlogRequest) bool {
	content := sanitizeContent(req.Content)
	if content == "" {
		return false
	}
	blog.Title = strings.TrimSpace(req.Title)
	blog.Slug = util.Slugify(blog.Title)
	blog.Content = content
	blog.Tags = cleanTags(req.Tags)
	blog.CoverImage = req.CoverImage
	blog.Published = req.Published
	return true
}

func (api *API) CreateBlogHelper(ctx context.Context, authorID primitive.ObjectID, req model.BlogRequest) (model.Blog, string, string, error) {
	now := time.Now().UTC()
	blog := model.Blog{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !applyBlogRequest(&blog, req) {
		return model.Blog{}, values.BadRequestBody, "content is empty after sanitizing", nil
	}

	if err := api.CreateBlogRepo(ctx, &blog); err != nil {
		return model.Blog{}, values.Error, "Failed to create blog", err
	}
	return blog, values.Created, "Blog created successfully", nil
}

// GetBlogHelper hides unpublished posts from everyone but their author.
func (api *API) GetBlogHelper(ctx context.Context, id, viewer primitive.ObjectID) (model.Blog, string, string, error) {
	blog, err := api.GetBlogRepo(ctx, id)
	if errors.Is(err, errNotFound) || (err == nil && !blog.Published && blog.AuthorID != viewer) {
		return model.Blog{}, values.NotFound, "Blog not found", nil
	}
	if err != nil {
		return model.Blog{}, values.Error, "Failed to get blog", err
	}
	return blog, values.Success, "Blog returned successfully", nil
}

func (api *API) UpdateBlogHelper(ctx context.Context, id, userID primitive.ObjectID, req model.BlogRequest) (model.Blog, string, string, error) {
	blog, status, message, err := api.GetBlogHelper(ctx, id, userID)
	if status != values.Success {
		return model.Blog{}, status, message, err
	}
	if blog.AuthorID != userID {
		return model.Blog{}, values.NotAllowed, "Only the author can edit this blog", nil
	}
	if !applyBlogRequest(&blog, req) {
		return model.Blog{}, values.BadRequestBody, "content is empty after sanitizing", nil
	}
	blog.UpdatedAt = time.Now().UTC()

	if err := api.UpdateBlogRepo(ctx, blog); err != nil {
		if errors.Is(err, errNotFound) {
			return model.Blog{}, values.NotFound, "Blog not found", nil
		}
		return model.Blog{}, values.Error, "Failed to update blog", err
	}
	return blog, values.Success, "Blog updated successfully", nil
}

func (api *API) DeleteBlogHelper(ctx context.Context, id, userID primitive.ObjectID) (string, string, error) {
	blog, status, message, err := api.GetBlogHelper(ctx, id, userID)
	if status != values.Success {
		return status, message, err
	}
	if blog.AuthorID != userID {
		return values.NotAllowed, "Only the author can delete this blog", nil
	}
	if err := api.DeleteBlogRepo(ctx, id, userID); err != nil {
		if errors.Is(err, errNotFound) {
			return values.NotFound, "Blog not found", nil
		}
		return values.Error, "Failed to delete blog", err
	}
	return values.Success, "Blog deleted successfully", nil
}
