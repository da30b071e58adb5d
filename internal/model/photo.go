package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Photo struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"userId"`
	TripID    *primitive.ObjectID `bson:"trip_id,omitempty" json:"tripId,omitempty"`
	URL       string              `bson:"url" json:"url"`
	PublicID  string              `bson:"public_id" json:"publicId"`
	Provider  string              `bson:"provider" json:"provider"`
	Caption   string              `bson:"caption,omitempty" json:"caption,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}

type TranslateRequest struct {
	Text   string `json:"text" validate:"required,notblank,max=5000"`
	Target string `json:"target" validate:"required,bcp47_language_tag"`
	Source string `json:"source" validate:"omitempty,bcp47_language_tag"`
}

type TranslateResponse struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
	Target         string `json:"target"`
	Fallback       bool   `json:"fallback"`
}
