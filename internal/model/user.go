package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

type User struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash,omitempty" json:"-"`
	AuthProvider      string             `bson:"auth_provider" json:"authProvider"`
	IsVerified        bool               `bson:"is_verified" json:"isVerified"`
	ProfilePicture    string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Bio               string             `bson:"bio,omitempty" json:"bio,omitempty"`
	PreferredLanguage string             `bson:"preferred_language,omitempty" json:"preferredLanguage,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,notblank,max=80"`
	Bio               *string `json:"bio" validate:"omitempty,max=500"`
	PreferredLanguage *string `json:"preferredLanguage" validate:"omitempty,bcp47_language_tag"`
	ProfilePicture    *string `json:"profilePicture" validate:"omitempty,url"`
}
