package rest

import (
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) TripRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListTrips))
		r.Method(http.MethodPost, "/", Handler(api.CreateTrip))
		r.Method(http.MethodGet, "/{tripID}", Handler(api.GetTrip))
		r.Method(http.MethodDelete, "/{tripID}", Handler(api.DeleteTrip))
		r.Method(http.MethodGet, "/{tripID}/route", Handler(api.TripRoute))
	})
	return mux
}

func (api *API) CreateTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.CreateTripRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	trip, status, message, err := api.CreateTripHelper(r.Context(), userID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, trip)
}

func (api *API) ListTrips(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	trips, err := api.ListTripsRepo(r.Context(), userID)
	if err != nil {
		return respondWithError(err, "Failed to list trips", values.Error, &tc)
	}
	return respond(values.Success, "Trips returned successfully", trips)
}

func (api *API) GetTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := pathObjectID(r, "tripID")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.GetTripHelper(r.Context(), tripID, userID)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, trip)
}

func (api *API) DeleteTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := pathObjectID(r, "tripID")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeleteTripHelper(r.Context(), tripID, userID)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, nil)
}
