package rest

import (
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.uber.org/zap"
)

// Translate never fails because of the provider: on error the original text
// comes back with fallback set.
func (api *API) Translate(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.TranslateRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	resp, err := api.Deps.Translator.Translate(r.Context(), req)
	if err != nil {
		api.logger().Warn("translation fell back to source text",
			zap.String("request_id", tc.RequestID),
			zap.String("target", req.Target),
			zap.Error(err))
		return respond(values.Success, "Translation unavailable, returning original text", resp)
	}
	return respond(values.Success, "Text translated successfully", resp)
}
