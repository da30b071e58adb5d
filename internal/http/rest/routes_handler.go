package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/bwise1/travel_planner_api/internal/http/valhalla"
	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const routeTimeout = 20 * time.Second

// TripRouteHelper routes through the trip's located stops. Without a routing
// engine, or when it fails, the stops are joined by straight lines.
func (api *API) TripRouteHelper(ctx context.Context, id, userID primitive.ObjectID, costing string) (model.TripRoute, string, string, error) {
	if costing == "" {
		costing = valhalla.CostingAuto
	}
	if !valhalla.ValidCosting(costing) {
		return model.TripRoute{}, values.BadRequestBody, "costing must be auto, pedestrian or bicycle", nil
	}

	trip, status, message, err := api.GetTripHelper(ctx, id, userID)
	if status != values.Success {
		return model.TripRoute{}, status, message, err
	}

	coords := make([]util.Coordinate, 0, len(trip.Stops))
	for _, s := range trip.Stops {
		if s.Location != nil {
			coords = append(coords, *s.Location)
		}
	}
	if len(coords) < 2 {
		return model.TripRoute{}, values.Unprocessable, "at least two stops need a location to build a route", nil
	}

	route := model.TripRoute{TripID: trip.ID, Costing: costing, Stops: len(coords)}
	if api.Deps.Router != nil {
		rctx, cancel := context.WithTimeout(ctx, routeTimeout)
		defer cancel()
		road, err := api.Deps.Router.Route(rctx, coords, costing)
		if err == nil {
			route.Polyline = util.EncodeRoute(road.Points)
			route.DistanceMeters = road.DistanceMeters
			route.DurationSeconds = road.DurationSeconds
			return route, values.Success, "Route returned successfully", nil
		}
		api.logger().Warn("routing failed, using straight lines",
			zap.String("trip_id", trip.ID.Hex()), zap.Error(err))
	}

	route.Polyline = util.EncodeRoute(coords)
	route.Approximate = true
	return route, values.Success, "Approximate route returned", nil
}

// TripRoute answers GET /trips/{tripID}/route?costing=auto|pedestrian|bicycle.
func (api *API) TripRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := pathObjectID(r, "tripID")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	route, status, message, err := api.TripRouteHelper(r.Context(), tripID, userID, r.URL.Query().Get("costing"))
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(values.Success, message, route)
}
