package rest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	geocodeTimeout     = 10 * time.Second
	geocodeConcurrency = 4
)

// resolveStops copies coordinates the client sent and geocodes the rest.
// A stop that cannot be geocoded is kept without a location.
func (api *API) resolveStops(ctx context.Context, reqs []model.StopRequest) []model.Stop {
	stops := make([]model.Stop, len(reqs))
	for i, s := range reqs {
		stops[i].Name = strings.TrimSpace(s.Name)
		if s.Latitude != nil && s.Longitude != nil {
			stops[i].Location = &util.Coordinate{Lat: *s.Latitude, Lon: *s.Longitude}
		}
	}
	if api.Deps.Geocoder == nil {
		return stops
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i := range stops {
		if stops[i].Location != nil {
			continue
		}
		stop := &stops[i]
		g.Go(func() error {
			place, err := api.Deps.Geocoder.Geocode(ctx, stop.Name)
			if err != nil {
				api.logger().Debug("geocode stop", zap.String("stop", stop.Name), zap.Error(err))
				return nil
			}
			coord := place.Coordinate
			stop.Location = &coord
			return nil
		})
	}
	_ = g.Wait()
	return stops
}

// routePolyline encodes the stops that have coordinates, in order.
func routePolyline(stops []model.Stop) string {
	coords := make([]util.Coordinate, 0, len(stops))
	for _, s := range stops {
		if s.Location != nil {
			coords = append(coords, *s.Location)
		}
	}
	if len(coords) < 2 {
		return ""
	}
	return util.EncodeRoute(coords)
}

func (api *API) CreateTripHelper(ctx context.Context, userID primitive.ObjectID, req model.CreateTripRequest) (model.Trip, string, string, error) {
	now := time.Now().UTC()
	travelers := req.Travelers
	if travelers == 0 {
		travelers = 1
	}

	trip := model.Trip{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Destination: strings.TrimSpace(req.Destination),
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		Budget:      req.Budget,
		Travelers:   travelers,
		Interests:   req.Interests,
		Itinerary:   req.Itinerary,
		Stops:       api.resolveStops(ctx, req.Stops),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := api.CreateTripRepo(ctx, &trip); err != nil {
		return model.Trip{}, values.Error, "Failed to create trip", err
	}
	trip.RoutePolyline = routePolyline(trip.Stops)
	return trip, values.Created, "Trip created successfully", nil
}

func (api *API) GetTripHelper(ctx context.Context, id, userID primitive.ObjectID) (model.Trip, string, string, error) {
	trip, err := api.GetTripRepo(ctx, id)
	if errors.Is(err, errNotFound) {
		return model.Trip{}, values.NotFound, "Trip not found", nil
	}
	if err != nil {
		return model.Trip{}, values.Error, "Failed to get trip", err
	}
	if trip.UserID != userID {
		return model.Trip{}, values.NotAllowed, "You do not have access to this trip", nil
	}
	trip.RoutePolyline = routePolyline(trip.Stops)
	return trip, values.Success, "Trip returned successfully", nil
}

func (api *API) DeleteTripHelper(ctx context.Context, id, userID primitive.ObjectID) (string, string, error) {
	if _, status, message, err := api.GetTripHelper(ctx, id, userID); status != values.Success {
		return status, message, err
	}
	if err := api.DeleteTripRepo(ctx, id, userID); err != nil {
		if errors.Is(err, errNotFound) {
			return values.NotFound, "Trip not found", nil
		}
		return values.Error, "Failed to delete trip", err
	}
	return values.Success, "Trip deleted successfully", nil
}
