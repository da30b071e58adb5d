package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"authorId"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Content    string             `bson:"content" json:"content"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CoverImage string             `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Published  bool               `bson:"published" json:"published"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

type BlogRequest struct {
	Title      string   `json:"title" validate:"required,notblank,max=200"`
	Content    string   `json:"content" validate:"required,notblank"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=40"`
	CoverImage string   `json:"coverImage" validate:"omitempty,url"`
	Published  bool     `json:"published"`
}
