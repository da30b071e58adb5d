package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// groupError maps a service error onto the envelope. Domain errors carry
// their own status; anything else is an internal failure.
func groupError(err error, tc *tracing.Context) *ServerResponse {
	if gErr, ok := grouptravel.AsError(err); ok {
		return respondWithError(err, gErr.Message, gErr.Status, tc)
	}
	return respondWithError(err, values.SystemErr, values.Error, tc)
}

// groupActor resolves the caller and the {groupID} path parameter.
func groupActor(r *http.Request, tc *tracing.Context) (groupID, userID primitive.ObjectID, errResp *ServerResponse) {
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, respondWithError(err, "unable to get user ID from context", values.NotAuthorised, tc)
	}
	groupID, err = pathObjectID(r, "groupID")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, respondWithError(err, "invalid group id", values.BadRequestBody, tc)
	}
	return groupID, userID, nil
}

// listFilter reads ?member=me, ?status=, ?limit= and ?skip=. Without
// member=me only public groups are listed.
func listFilter(r *http.Request, userID primitive.ObjectID) (grouptravel.ListFilter, error) {
	q := r.URL.Query()
	f := grouptravel.ListFilter{Status: q.Get("status")}

	if q.Get("member") == "me" {
		f.Member = userID
	} else {
		f.Status = model.GroupPublic
	}
	if f.Status != "" && f.Status != model.GroupPublic && f.Status != model.GroupPrivate {
		return grouptravel.ListFilter{}, strconv.ErrSyntax
	}

	for key, dst := range map[string]*int64{"limit": &f.Limit, "skip": &f.Skip} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return grouptravel.ListFilter{}, strconv.ErrSyntax
		}
		*dst = n
	}
	return f, nil
}

func respond(status, message string, data interface{}) *ServerResponse {
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       data,
	}
}
