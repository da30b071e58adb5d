package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (api *API) EmergencyRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListEmergencyContacts))
		r.Method(http.MethodPost, "/", Handler(api.CreateEmergencyContact))
		r.Method(http.MethodGet, "/{contactID}", Handler(api.GetEmergencyContact))
		r.Method(http.MethodPut, "/{contactID}", Handler(api.UpdateEmergencyContact))
		r.Method(http.MethodDelete, "/{contactID}", Handler(api.DeleteEmergencyContact))
	})
	return mux
}

func contactFields(req model.EmergencyContactRequest) bson.M {
	return bson.M{
		"name":         strings.TrimSpace(req.Name),
		"relationship": strings.TrimSpace(req.Relationship),
		"phone":        req.Phone,
		"email":        util.NormalizeEmail(req.Email),
		"country":      strings.ToUpper(req.Country),
		"notes":        strings.TrimSpace(req.Notes),
		"updated_at":   time.Now().UTC(),
	}
}

func (api *API) CreateEmergencyContact(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.EmergencyContactRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	now := time.Now().UTC()
	contact := model.EmergencyContact{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Relationship: strings.TrimSpace(req.Relationship),
		Phone:        req.Phone,
		Email:        util.NormalizeEmail(req.Email),
		Country:      strings.ToUpper(req.Country),
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := api.CreateContactRepo(r.Context(), &contact); err != nil {
		return respondWithError(err, "Failed to create emergency contact", values.Error, &tc)
	}
	return respond(values.Created, "Emergency contact created successfully", contact)
}

func (api *API) ListEmergencyContacts(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	contacts, err := api.ListContactsRepo(r.Context(), userID)
	if err != nil {
		return respondWithError(err, "Failed to list emergency contacts", values.Error, &tc)
	}
	return respond(values.Success, "Emergency contacts returned successfully", contacts)
}

func (api *API) GetEmergencyContact(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	contactID, err := pathObjectID(r, "contactID")
	if err != nil {
		return respondWithError(err, "invalid contact id", values.BadRequestBody, &tc)
	}

	contact, err := api.GetContactRepo(r.Context(), contactID, userID)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "Emergency contact not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to get emergency contact", values.Error, &tc)
	}
	return respond(values.Success, "Emergency contact returned successfully", contact)
}

func (api *API) UpdateEmergencyContact(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	contactID, err := pathObjectID(r, "contactID")
	if err != nil {
		return respondWithError(err, "invalid contact id", values.BadRequestBody, &tc)
	}

	var req model.EmergencyContactRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	contact, err := api.UpdateContactRepo(r.Context(), contactID, userID, contactFields(req))
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "Emergency contact not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to update emergency contact", values.Error, &tc)
	}
	return respond(values.Success, "Emergency contact updated successfully", contact)
}

func (api *API) DeleteEmergencyContact(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	contactID, err := pathObjectID(r, "contactID")
	if err != nil {
		return respondWithError(err, "invalid contact id", values.BadRequestBody, &tc)
	}

	err = api.DeleteContactRepo(r.Context(), contactID, userID)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "Emergency contact not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to delete emergency contact", values.Error, &tc)
	}
	return respond(values.Success, "Emergency contact deleted successfully", nil)
}
