package rest

import (
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(RateLimit(rate.Limit(1), 5))
		r.Method(http.MethodPost, "/register", Handler(api.Register))
		r.Method(http.MethodPost, "/login", Handler(api.Login))
		r.Method(http.MethodPost, "/verify-email", Handler(api.VerifyEmail))
		r.Method(http.MethodPost, "/resend-verification-otp", Handler(api.ResendVerificationOTP))
		r.Method(http.MethodPost, "/google", Handler(api.GoogleLogin))
	})
	mux.Method(http.MethodPost, "/logout", Handler(api.Logout))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/profile", Handler(api.Profile))
		r.Method(http.MethodPost, "/profile/update", Handler(api.UpdateProfile))
	})
	return mux
}

func (api *API) Register(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.RegisterRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	user, status, message, err := api.RegisterHelper(r.Context(), req)
	if err != nil || status != values.Created {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data: map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	}
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.LoginRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	resp, status, message, err := api.LoginHelper(r.Context(), w, req)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) VerifyEmail(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.VerifyCodeRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	resp, status, message, err := api.VerifyEmailHelper(r.Context(), w, req)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) ResendVerificationOTP(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.ResendCodeRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	status, message, err := api.ResendVerificationHelper(r.Context(), req)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) GoogleLogin(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.GoogleLoginRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	resp, status, message, err := api.GoogleLoginHelper(r.Context(), w, req)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) Logout(w http.ResponseWriter, _ *http.Request) *ServerResponse {
	http.SetCookie(w, api.authCookie("", -1))
	return &ServerResponse{
		Message:    "Logged out",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}
