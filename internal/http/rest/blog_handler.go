package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) BlogRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		// ?limit=, ?skip=
		r.Method(http.MethodGet, "/", Handler(api.ListBlogs))
		r.Method(http.MethodPost, "/", Handler(api.CreateBlog))
		r.Method(http.MethodGet, "/{blogID}", Handler(api.GetBlog))
		r.Method(http.MethodPut, "/{blogID}", Handler(api.UpdateBlog))
		r.Method(http.MethodDelete, "/{blogID}", Handler(api.DeleteBlog))
	})
	return mux
}

func (api *API) CreateBlog(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.BlogRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	blog, status, message, err := api.CreateBlogHelper(r.Context(), userID, req)
	if status != values.Created {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, blog)
}

func (api *API) ListBlogs(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}

	blogs, err := api.ListBlogsRepo(r.Context(), userID, limit, skip)
	if err != nil {
		return respondWithError(err, "Failed to list blogs", values.Error, &tc)
	}
	return respond(values.Success, "Blogs returned successfully", blogs)
}

func (api *API) GetBlog(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	blogID, err := pathObjectID(r, "blogID")
	if err != nil {
		return respondWithError(err, "invalid blog id", values.BadRequestBody, &tc)
	}

	blog, status, message, err := api.GetBlogHelper(r.Context(), blogID, userID)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, blog)
}

func (api *API) UpdateBlog(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	blogID, err := pathObjectID(r, "blogID")
	if err != nil {
		return respondWithError(err, "invalid blog id", values.BadRequestBody, &tc)
	}

	var req model.BlogRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	blog, status, message, err := api.UpdateBlogHelper(r.Context(), blogID, userID, req)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, blog)
}

func (api *API) DeleteBlog(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	blogID, err := pathObjectID(r, "blogID")
	if err != nil {
		return respondWithError(err, "invalid blog id", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeleteBlogHelper(r.Context(), blogID, userID)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, nil)
}
