package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense is a personal expense, unrelated to group expenses.
type Expense struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"userId"`
	TripID    *primitive.ObjectID `bson:"trip_id,omitempty" json:"tripId,omitempty"`
	Title     string              `bson:"title" json:"title"`
	Amount    float64             `bson:"amount" json:"amount"`
	Currency  string              `bson:"currency" json:"currency"`
	Category  string              `bson:"category" json:"category"`
	Date      time.Time           `bson:"date" json:"date"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

type ExpenseRequest struct {
	TripID   string    `json:"tripId"`
	Title    string    `json:"title" validate:"required,notblank,max=160"`
	Amount   Amount    `json:"amount"`
	Currency string    `json:"currency" validate:"omitempty,len=3,alpha"`
	Category string    `json:"category" validate:"max=60"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes" validate:"max=1000"`
}

type ExpenseSummary struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	ByCategory map[string]float64 `json:"byCategory"`
	ByMonth    map[string]float64 `json:"byMonth"`
}

type ExpenseSearch struct {
	Query    string
	Category string
	From     *time.Time
	To       *time.Time
}
