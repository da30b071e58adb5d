package rest

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultCurrency        = "USD"
	defaultExpenseCategory = "other"
	monthKeyLayout         = "2006-01"
)

var searchDateLayouts = []string{time.RFC3339, "2006-01-02"}

// buildExpense validates req and copies it onto e.
func buildExpense(e *model.Expense, req model.ExpenseRequest, now time.Time) (string, error) {
	if !req.Amount.Finite() {
		return "amount must be a positive number", errors.New("invalid amount")
	}
	amount := decimal.NewFromFloat(float64(req.Amount)).Round(2)
	if !amount.IsPositive() {
		return "amount must be a positive number", errors.New("invalid amount")
	}

	e.Title = strings.TrimSpace(req.Title)
	e.Amount = amount.InexactFloat64()
	e.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if e.Currency == "" {
		e.Currency = defaultCurrency
	}
	e.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if e.Category == "" {
		e.Category = defaultExpenseCategory
	}
	e.Date = req.Date.UTC()
	if req.Date.IsZero() {
		e.Date = now
	}
	e.Notes = strings.TrimSpace(req.Notes)
	e.TripID = nil
	if req.TripID != "" {
		tripID, err := util.ParseObjectID(req.TripID)
		if err != nil {
			return "tripId is not a valid id", err
		}
		e.TripID = &tripID
	}
	e.UpdatedAt = now
	return "", nil
}

// summarize totals expenses per category and per month. Sums are exact to
// the cent.
func summarize(expenses []model.Expense) model.ExpenseSummary {
	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}

	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
		month := e.Date.UTC().Format(monthKeyLayout)
		byMonth[month] = byMonth[month].Add(amount)
	}

	summary := model.ExpenseSummary{
		Total:      total.Round(2).InexactFloat64(),
		Count:      len(expenses),
		ByCategory: make(map[string]float64, len(byCategory)),
		ByMonth:    make(map[string]float64, len(byMonth)),
	}
	for k, v := range byCategory {
		summary.ByCategory[k] = v.Round(2).InexactFloat64()
	}
	for k, v := range byMonth {
		summary.ByMonth[k] = v.Round(2).InexactFloat64()
	}
	return summary
}

// parseSearchDate accepts RFC3339 or YYYY-MM-DD. With endOfDay a bare date
// is moved to the last instant of that day.
func parseSearchDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range searchDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			if endOfDay && layout == "2006-01-02" {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			return &t, nil
		}
	}
	return nil, errors.New("dates must be RFC3339 or YYYY-MM-DD")
}

// searchFilter matches title or notes case-insensitively, plus optional
// category and inclusive date bounds.
func searchFilter(userID primitive.ObjectID, s model.ExpenseSearch) bson.M {
	filter := bson.M{"user_id": userID}
	if q := strings.TrimSpace(s.Query); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"notes": pattern},
		}
	}
	if c := strings.TrimSpace(s.Category); c != "" {
		filter["category"] = strings.ToLower(c)
	}
	date := bson.M{}
	if s.From != nil {
		date["$gte"] = *s.From
	}
	if s.To != nil {
		date["$lte"] = *s.To
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	return filter
}

func (api *API) CreateExpenseHelper(ctx context.Context, userID primitive.ObjectID, req model.ExpenseRequest) (model.Expense, string, string, error) {
	now := time.Now().UTC()
	expense := model.Expense{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: now}
	if message, err := buildExpense(&expense, req, now); err != nil {
		return model.Expense{}, values.BadRequestBody, message, err
	}

	if err := api.CreateExpenseRepo(ctx, &expense); err != nil {
		return model.Expense{}, values.Error, "Failed to create expense", err
	}
	return expense, values.Created, "Expense created successfully", nil
}

func (api *API) UpdateExpenseHelper(ctx context.Context, id, userID primitive.ObjectID, req model.ExpenseRequest) (model.Expense, string, string, error) {
	expense, err := api.GetExpenseRepo(ctx, id, userID)
	if errors.Is(err, errNotFound) {
		return model.Expense{}, values.NotFound, "Expense not found", nil
	}
	if err != nil {
		return model.Expense{}, values.Error, "Failed to get expense", err
	}

	if message, err := buildExpense(&expense, req, time.Now().UTC()); err != nil {
		return model.Expense{}, values.BadRequestBody, message, err
	}
	if err := api.UpdateExpenseRepo(ctx, expense); err != nil {
		if errors.Is(err, errNotFound) {
			return model.Expense{}, values.NotFound, "Expense not found", nil
		}
		return model.Expense{}, values.Error, "Failed to update expense", err
	}
	return expense, values.Success, "Expense updated successfully", nil
}
