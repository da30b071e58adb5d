package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

func (api *API) ExpenseRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListExpenses))
		r.Method(http.MethodPost, "/", Handler(api.CreateExpense))
		r.Method(http.MethodGet, "/summary", Handler(api.ExpenseSummary))
		// ?q=, ?category=, ?from=, ?to=
		r.Method(http.MethodGet, "/search", Handler(api.SearchExpenses))
		r.Method(http.MethodGet, "/{expenseID}", Handler(api.GetExpense))
		r.Method(http.MethodPut, "/{expenseID}", Handler(api.UpdateExpense))
		r.Method(http.MethodDelete, "/{expenseID}", Handler(api.DeleteExpense))
	})
	return mux
}

func (api *API) CreateExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.ExpenseRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	expense, status, message, err := api.CreateExpenseHelper(r.Context(), userID, req)
	if status != values.Created {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, expense)
}

func (api *API) ListExpenses(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	expenses, err := api.FindExpensesRepo(r.Context(), bson.M{"user_id": userID})
	if err != nil {
		return respondWithError(err, "Failed to list expenses", values.Error, &tc)
	}
	return respond(values.Success, "Expenses returned successfully", expenses)
}

func (api *API) ExpenseSummary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	expenses, err := api.FindExpensesRepo(r.Context(), bson.M{"user_id": userID})
	if err != nil {
		return respondWithError(err, "Failed to summarize expenses", values.Error, &tc)
	}
	return respond(values.Success, "Expense summary returned successfully", summarize(expenses))
}

func (api *API) SearchExpenses(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	q := r.URL.Query()
	search := model.ExpenseSearch{Query: q.Get("q"), Category: q.Get("category")}
	if search.From, err = parseSearchDate(q.Get("from"), false); err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}
	if search.To, err = parseSearchDate(q.Get("to"), true); err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	expenses, err := api.FindExpensesRepo(r.Context(), searchFilter(userID, search))
	if err != nil {
		return respondWithError(err, "Failed to search expenses", values.Error, &tc)
	}
	return respond(values.Success, "Expenses returned successfully", expenses)
}

func (api *API) GetExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	expenseID, err := pathObjectID(r, "expenseID")
	if err != nil {
		return respondWithError(err, "invalid expense id", values.BadRequestBody, &tc)
	}

	expense, err := api.GetExpenseRepo(r.Context(), expenseID, userID)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "Expense not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to get expense", values.Error, &tc)
	}
	return respond(values.Success, "Expense returned successfully", expense)
}

func (api *API) UpdateExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	expenseID, err := pathObjectID(r, "expenseID")
	if err != nil {
		return respondWithError(err, "invalid expense id", values.BadRequestBody, &tc)
	}

	var req model.ExpenseRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	expense, status, message, err := api.UpdateExpenseHelper(r.Context(), expenseID, userID, req)
	if status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(status, message, expense)
}

func (api *API) DeleteExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	expenseID, err := pathObjectID(r, "expenseID")
	if err != nil {
		return respondWithError(err, "invalid expense id", values.BadRequestBody, &tc)
	}

	err = api.DeleteExpenseRepo(r.Context(), expenseID, userID)
	if errors.Is(err, errNotFound) {
		return respondWithError(err, "Expense not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to delete expense", values.Error, &tc)
	}
	return respond(values.Success, "Expense deleted successfully", nil)
}
