package grouptravel

import (
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseLedger is the expense list of a group with derived totals.
type ExpenseLedger struct {
	Expenses      []model.GroupExpense `json:"expenses"`
	TotalExpenses float64              `json:"totalExpenses"`
	TotalApproved float64              `json:"totalApproved"`
	TotalPending  float64              `json:"totalPending"`
	Counts        ExpenseCounts        `json:"counts"`
}

type ExpenseCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

var expenseDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseExpenseDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	for _, layout := range expenseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, badRequest("date must be RFC3339 or YYYY-MM-DD")
}

// AddExpense appends an expense paid by actor. Its status starts approved
// unless the group requires approval.
func AddExpense(g *model.Group, actor primitive.ObjectID, req model.GroupExpenseRequest, now time.Time) (model.GroupExpense, error) {
	if err := requireParticipant(g, actor); err != nil {
		return model.GroupExpense{}, err
	}
	if !g.Settings.AllowExpenseSubmission {
		return model.GroupExpense{}, ErrExpensesDisabled
	}
	if !req.Amount.Finite() {
		return model.GroupExpense{}, ErrInvalidAmount
	}
	amount := decimal.NewFromFloat(float64(req.Amount)).Round(2)
	if !amount.IsPositive() {
		return model.GroupExpense{}, ErrInvalidAmount
	}
	date, err := parseExpenseDate(req.Date, now)
	if err != nil {
		return model.GroupExpense{}, err
	}

	var split []primitive.ObjectID
	for _, raw := range req.SplitAmong {
		id, err := util.ParseObjectID(raw)
		if err != nil {
			return model.GroupExpense{}, badRequest("splitAmong contains an invalid user id")
		}
		if !IsParticipant(g, id) {
			return model.GroupExpense{}, badRequest("splitAmong may only contain group participants")
		}
		if !containsID(split, id) {
			split = append(split, id)
		}
	}

	status := model.ExpenseApproved
	if g.Settings.RequireExpenseApproval {
		status = model.ExpensePending
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "other"
	}

	expense := model.GroupExpense{
		ExpenseID:    util.GenerateToken(),
		PaidBy:       actor,
		Amount:       amount.InexactFloat64(),
		Description:  strings.TrimSpace(req.Description),
		Category:     category,
		SplitAmong:   split,
		ReceiptImage: strings.TrimSpace(req.ReceiptImage),
		Date:         date,
		Status:       status,
	}
	g.GroupExpenses = append(g.GroupExpenses, expense)
	return expense, nil
}

// ApproveExpense moves a pending expense to approved or rejected.
func ApproveExpense(g *model.Group, actor primitive.ObjectID, expenseID, action string) (model.GroupExpense, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return model.GroupExpense{}, err
	}
	if action != model.ExpenseApproved && action != model.ExpenseRejected {
		return model.GroupExpense{}, ErrInvalidAction
	}
	for i := range g.GroupExpenses {
		e := &g.GroupExpenses[i]
		if e.ExpenseID != expenseID {
			continue
		}
		if e.Status != model.ExpensePending {
			return model.GroupExpense{}, ErrExpenseDecided
		}
		e.Status = action
		approver := actor
		e.ApprovedBy = &approver
		return *e, nil
	}
	return model.GroupExpense{}, ErrExpenseNotFound
}

// Expenses returns the ledger visible to a participant.
func Expenses(g *model.Group, actor primitive.ObjectID) (ExpenseLedger, error) {
	if err := requireParticipant(g, actor); err != nil {
		return ExpenseLedger{}, err
	}
	ledger := ExpenseLedger{Expenses: g.GroupExpenses}
	if ledger.Expenses == nil {
		ledger.Expenses = []model.GroupExpense{}
	}

	total, approved, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range g.GroupExpenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		switch e.Status {
		case model.ExpenseApproved:
			approved = approved.Add(amount)
			ledger.Counts.Approved++
		case model.ExpensePending:
			pending = pending.Add(amount)
			ledger.Counts.Pending++
		case model.ExpenseRejected:
			ledger.Counts.Rejected++
		}
	}
	ledger.TotalExpenses = total.InexactFloat64()
	ledger.TotalApproved = approved.InexactFloat64()
	ledger.TotalPending = pending.InexactFloat64()
	return ledger, nil
}
