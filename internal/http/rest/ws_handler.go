package rest

import (
	"net/http"

	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
)

// WebSocket upgrades the connection and streams group events for the caller.
// It returns nil because the upgrade takes over the response.
func (api *API) WebSocket(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	api.Deps.WebSocket.HandleConnections(w, r, userID)
	return nil
}
