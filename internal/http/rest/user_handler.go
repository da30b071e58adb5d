package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson"
)

func (api *API) Profile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	user, err := api.GetUserByID(r.Context(), userID)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "User not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to load profile", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Profile retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       user,
	}
}

func (api *API) UpdateProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.UpdateProfileRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	set := profileUpdate(req)
	if len(set) == 0 {
		return respondWithError(nil, "nothing to update", values.BadRequestBody, &tc)
	}

	user, err := api.UpdateUserRepo(r.Context(), userID, set)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "User not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to update profile", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Profile updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       user,
	}
}

// profileUpdate keeps only the fields the client sent.
func profileUpdate(req model.UpdateProfileRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.PreferredLanguage != nil {
		set["preferred_language"] = *req.PreferredLanguage
	}
	if req.ProfilePicture != nil {
		set["profile_picture"] = *req.ProfilePicture
	}
	return set
}
