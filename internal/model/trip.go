package model

import (
	"time"

	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Stop struct {
	Name     string           `bson:"name" json:"name"`
	Location *util.Coordinate `bson:"location,omitempty" json:"location,omitempty"`
}

type Activity struct {
	Time        string `bson:"time,omitempty" json:"time,omitempty"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
}

type ItineraryDay struct {
	Day        int        `bson:"day" json:"day"`
	Date       *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Activities []Activity `bson:"activities" json:"activities"`
}

type Trip struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	Title         string             `bson:"title" json:"title"`
	Destination   string             `bson:"destination" json:"destination"`
	StartDate     time.Time          `bson:"start_date" json:"startDate"`
	EndDate       time.Time          `bson:"end_date" json:"endDate"`
	Budget        float64            `bson:"budget" json:"budget"`
	Travelers     int                `bson:"travelers" json:"travelers"`
	Interests     []string           `bson:"interests,omitempty" json:"interests,omitempty"`
	Itinerary     []ItineraryDay     `bson:"itinerary,omitempty" json:"itinerary,omitempty"`
	Stops         []Stop             `bson:"stops,omitempty" json:"stops,omitempty"`
	RoutePolyline string             `bson:"-" json:"routePolyline,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

type StopRequest struct {
	Name      string   `json:"name" validate:"required,notblank,max=200"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type CreateTripRequest struct {
	Title       string         `json:"title" validate:"required,notblank,max=160"`
	Destination string         `json:"destination" validate:"required,notblank,max=200"`
	StartDate   time.Time      `json:"startDate" validate:"required"`
	EndDate     time.Time      `json:"endDate" validate:"required,gtefield=StartDate"`
	Budget      float64        `json:"budget" validate:"min=0"`
	Travelers   int            `json:"travelers" validate:"omitempty,min=1,max=100"`
	Interests   []string       `json:"interests" validate:"max=20,dive,max=40"`
	Itinerary   []ItineraryDay `json:"itinerary"`
	Stops       []StopRequest  `json:"stops" validate:"max=50,dive"`
}

// TripRoute is the path through a trip's located stops. Approximate is set
// when no routing engine answered and the stops are joined by straight lines.
type TripRoute struct {
	TripID          primitive.ObjectID `json:"tripId"`
	Costing         string             `json:"costing"`
	Polyline        string             `json:"polyline"`
	DistanceMeters  float64            `json:"distanceMeters,omitempty"`
	DurationSeconds float64            `json:"durationSeconds,omitempty"`
	Stops           int                `json:"stops"`
	Approximate     bool               `json:"approximate"`
}
