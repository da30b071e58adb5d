package model

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GroupPublic  = "public"
	GroupPrivate = "private"
)

const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

const (
	AttendanceNoResponse = "no-response"
	AttendancePresent    = "present"
	AttendanceAbsent     = "absent"
)

const (
	SOSActive   = "active"
	SOSResolved = "resolved"
)

// Group is the aggregate root for a travel group. Expenses, attendance
// checks, SOS alerts and announcements live inside the document and are only
// mutated through it. Version increases on every versioned replace.
type Group struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	TripID         *primitive.ObjectID  `bson:"trip_id,omitempty" json:"tripId,omitempty"`
	GroupName      string               `bson:"group_name" json:"groupName"`
	Description    string               `bson:"description" json:"description"`
	GatheringPoint string               `bson:"gathering_point" json:"gatheringPoint"`
	Owner          primitive.ObjectID   `bson:"owner" json:"owner"`
	Organizers     []primitive.ObjectID `bson:"organizers" json:"organizers"`
	Participants   []primitive.ObjectID `bson:"participants" json:"participants"`
	AvailableSpots int                  `bson:"available_spots" json:"availableSpots"`
	Status         string               `bson:"status" json:"status"`
	Settings       GroupSettings        `bson:"settings" json:"settings"`

	GroupExpenses    []GroupExpense    `bson:"group_expenses" json:"groupExpenses"`
	AttendanceChecks []AttendanceCheck `bson:"attendance_checks" json:"attendanceChecks"`
	SOSAlerts        []SOSAlert        `bson:"sos_alerts" json:"sosAlerts"`
	Announcements    []Announcement    `bson:"announcements" json:"announcements"`

	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type GroupSettings struct {
	AllowExpenseSubmission bool `bson:"allow_expense_submission" json:"allowExpenseSubmission"`
	RequireExpenseApproval bool `bson:"require_expense_approval" json:"requireExpenseApproval"`
}

type GroupExpense struct {
	ExpenseID    string               `bson:"expense_id" json:"expenseID"`
	PaidBy       primitive.ObjectID   `bson:"paid_by" json:"paidBy"`
	Amount       float64              `bson:"amount" json:"amount"`
	Description  string               `bson:"description" json:"description"`
	Category     string               `bson:"category" json:"category"`
	SplitAmong   []primitive.ObjectID `bson:"split_among,omitempty" json:"splitAmong,omitempty"`
	ReceiptImage string               `bson:"receipt_image,omitempty" json:"receiptImage,omitempty"`
	Date         time.Time            `bson:"date" json:"date"`
	Status       string               `bson:"status" json:"status"`
	ApprovedBy   *primitive.ObjectID  `bson:"approved_by,omitempty" json:"approvedBy,omitempty"`
}

type AttendanceResponse struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"userID"`
	Status    string             `bson:"status" json:"status"`
	Timestamp *time.Time         `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

type AttendanceCheck struct {
	AttendanceID string               `bson:"attendance_id" json:"attendanceID"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Location     string               `bson:"location" json:"location"`
	Responses    []AttendanceResponse `bson:"responses" json:"responses"`
	ExpiresAt    time.Time            `bson:"expires_at" json:"expiresAt"`
	IsActive     bool                 `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
}

type SOSResponse struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"userID"`
	Response  string             `bson:"response" json:"response"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type SOSAlert struct {
	SOSID       string             `bson:"sos_id" json:"sosID"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Message     string             `bson:"message" json:"message"`
	Location    string             `bson:"location" json:"location"`
	Priority    string             `bson:"priority" json:"priority"`
	Status      string             `bson:"status" json:"status"`
	RespondedBy []SOSResponse      `bson:"responded_by" json:"respondedBy"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	ResolvedAt  *time.Time         `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

type ReadReceipt struct {
	UserID primitive.ObjectID `bson:"user_id" json:"userID"`
	ReadAt time.Time          `bson:"read_at" json:"readAt"`
}

type Announcement struct {
	AnnouncementID string             `bson:"announcement_id" json:"announcementID"`
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Title          string             `bson:"title" json:"title"`
	Message        string             `bson:"message" json:"message"`
	Priority       string             `bson:"priority" json:"priority"`
	Attachments    []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ReadBy         []ReadReceipt      `bson:"read_by" json:"readBy"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// Request payloads.

type CreateGroupRequest struct {
	TripID         string         `json:"tripId"`
	GroupName      string         `json:"groupName" validate:"required,notblank,max=120"`
	Description    string         `json:"description" validate:"max=2000"`
	GatheringPoint string         `json:"gatheringPoint" validate:"max=300"`
	AvailableSpots int            `json:"availableSpots" validate:"min=0"`
	Status         string         `json:"status" validate:"omitempty,oneof=public private"`
	Settings       *GroupSettings `json:"settings"`
}

type UpdateGroupSettingsRequest struct {
	AllowExpenseSubmission *bool `json:"allowExpenseSubmission"`
	RequireExpenseApproval *bool `json:"requireExpenseApproval"`
}

type OrganizerRequest struct {
	UserID string `json:"userID" validate:"required"`
}

type GroupExpenseRequest struct {
	Amount       Amount   `json:"amount"`
	Description  string   `json:"description" validate:"max=500"`
	Category     string   `json:"category" validate:"max=60"`
	SplitAmong   []string `json:"splitAmong"`
	ReceiptImage string   `json:"receiptImage"`
	Date         string   `json:"date"`
}

type ExpenseActionRequest struct {
	Action string `json:"action" validate:"required"`
}

type AttendanceCheckRequest struct {
	Title             string `json:"title" validate:"required,notblank,max=120"`
	Description       string `json:"description" validate:"max=500"`
	Location          string `json:"location" validate:"max=300"`
	ExpirationMinutes *int   `json:"expirationMinutes" validate:"omitempty,min=0"`
}

type MarkAttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent"`
}

type SOSRequest struct {
	Message  string `json:"message" validate:"max=1000"`
	Location string `json:"location" validate:"max=300"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}

type SOSRespondRequest struct {
	Response string `json:"response" validate:"required,notblank,max=200"`
}

type AnnouncementRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=160"`
	Message     string   `json:"message" validate:"required,notblank,max=5000"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Attachments []string `json:"attachments"`
}

// Amount accepts a JSON number or a numeric string ("12.50") so form-driven
// clients can submit either.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		*a = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	if !Amount(f).Finite() {
		return errors.New("amount must be a finite number")
	}
	*a = Amount(f)
	return nil
}

// Finite reports whether a is neither NaN nor an infinity.
func (a Amount) Finite() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
