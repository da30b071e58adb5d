package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwise1/travel_planner_api/config"
	deps "github.com/bwise1/travel_planner_api/internal/debs"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultShutdownPeriod = 30 * time.Second
	dbTimeout             = 5 * time.Second
)

// ServerResponse is the envelope every endpoint answers with.
type ServerResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	StatusCode int         `json:"-"`
}

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	if resp == nil {
		// the handler already wrote the response
		return
	}
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, r, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	Log    *zap.Logger
}

func (api *API) logger() *zap.Logger {
	if api.Log != nil {
		return api.Log
	}
	return zap.NewNop()
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	api.logger().Info("server listening", zap.String("addr", api.Server.Addr))
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(RequestTracing)
	mux.Use(api.RequestLogger)
	mux.Use(Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", values.HeaderRequestID, values.HeaderRequestSource},
		ExposedHeaders:   []string{values.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Method(http.MethodGet, "/health", Handler(api.Health))
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Mount("/auth", api.AuthRoutes())
		r.Mount("/trips", api.TripRoutes())
		r.Mount("/blogs", api.BlogRoutes())
		r.Mount("/groups", api.GroupRoutes())
		r.Mount("/expenses", api.ExpenseRoutes())
		r.Mount("/emergency", api.EmergencyRoutes())

		r.Group(func(r chi.Router) {
			r.Use(api.RequireLogin)
			r.Method(http.MethodPost, "/upload-image", Handler(api.UploadImage))
			r.Method(http.MethodPost, "/upload-profile-picture", Handler(api.UploadProfilePicture))
			r.Method(http.MethodGet, "/photos", Handler(api.ListPhotos))
			r.Method(http.MethodPost, "/translate", Handler(api.Translate))
			r.Method(http.MethodGet, "/ws", Handler(api.WebSocket))
		})
	})

	return mux
}

func (api *API) Health(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := api.Deps.DB.Ping(ctx); err != nil {
		return respondWithError(err, "database unreachable", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "ok",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) Shutdown(ctx context.Context) error {
	if api.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultShutdownPeriod)
	defer cancel()
	return api.Server.Shutdown(ctx)
}

// respondWithError logs err against the request and builds the envelope.
// Internal failures never leak their message to the client.
func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	if status == values.Error || status == values.Failed {
		zap.L().Error(message,
			zap.String("request_id", tc.RequestID),
			zap.String("source", tc.RequestSource),
			zap.Error(err))
		if message == "" {
			message = values.SystemErr
		}
	} else if err != nil {
		zap.L().Debug(message,
			zap.String("request_id", tc.RequestID),
			zap.String("status", status),
			zap.Error(err))
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeJSONResponse(w http.ResponseWriter, content []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(content); err != nil {
		zap.L().Debug("write response", zap.Error(err))
	}
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error, status, message string) {
	tc := tracing.FromContext(r.Context())
	resp := respondWithError(err, message, status, &tc)
	content, _ := json.Marshal(resp)
	writeJSONResponse(w, content, resp.StatusCode)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It returns nil when dst is ready to use.
func decodeAndValidate(r *http.Request, tc *tracing.Context, dst interface{}) *ServerResponse {
	if err := util.DecodeJSONBody(tc, r.Body, dst); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, tc)
	}
	if err := util.ValidateStruct(dst); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, tc)
	}
	return nil
}

// pathObjectID parses the chi URL parameter key as an ObjectID.
func pathObjectID(r *http.Request, key string) (primitive.ObjectID, error) {
	return util.ParseObjectID(chi.URLParam(r, key))
}
