package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyContact struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Relationship string             `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

type EmergencyContactRequest struct {
	Name         string `json:"name" validate:"required,notblank,max=120"`
	Relationship string `json:"relationship" validate:"max=60"`
	Phone        string `json:"phone" validate:"required,e164"`
	Email        string `json:"email" validate:"omitempty,email"`
	Country      string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Notes        string `json:"notes" validate:"max=500"`
}
