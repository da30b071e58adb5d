package grouptravel

import (
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultAttendanceMinutes = 30

// AttendanceReport summarises the responses of one check.
type AttendanceReport struct {
	Check      model.AttendanceCheck `json:"check"`
	Present    int                   `json:"present"`
	Absent     int                   `json:"absent"`
	NoResponse int                   `json:"noResponse"`
	Total      int                   `json:"total"`
	IsExpired  bool                  `json:"isExpired"`
}

// expired treats the expiry instant itself as expired, so a zero-minute
// check never accepts a response.
func expired(c *model.AttendanceCheck, now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func findCheck(g *model.Group, attendanceID string) (*model.AttendanceCheck, error) {
	for i := range g.AttendanceChecks {
		if g.AttendanceChecks[i].AttendanceID == attendanceID {
			return &g.AttendanceChecks[i], nil
		}
	}
	return nil, ErrCheckNotFound
}

// CreateAttendanceCheck opens a check with one no-response entry per
// current participant.
func CreateAttendanceCheck(g *model.Group, actor primitive.ObjectID, req model.AttendanceCheckRequest, now time.Time) (model.AttendanceCheck, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return model.AttendanceCheck{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.AttendanceCheck{}, badRequest("title is required")
	}
	minutes := DefaultAttendanceMinutes
	if req.ExpirationMinutes != nil {
		minutes = *req.ExpirationMinutes
	}
	if minutes < 0 {
		return model.AttendanceCheck{}, badRequest("expirationMinutes cannot be negative")
	}

	participants := g.Participants
	if !containsID(participants, g.Owner) {
		participants = append([]primitive.ObjectID{g.Owner}, participants...)
	}
	responses := make([]model.AttendanceResponse, 0, len(participants))
	for _, id := range participants {
		responses = append(responses, model.AttendanceResponse{UserID: id, Status: model.AttendanceNoResponse})
	}

	check := model.AttendanceCheck{
		AttendanceID: util.GenerateToken(),
		CreatedBy:    actor,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Responses:    responses,
		ExpiresAt:    now.Add(time.Duration(minutes) * time.Minute),
		IsActive:     true,
		CreatedAt:    now,
	}
	g.AttendanceChecks = append(g.AttendanceChecks, check)
	return check, nil
}

// MarkAttendance records actor's single answer to a check.
func MarkAttendance(g *model.Group, actor primitive.ObjectID, attendanceID, status string, now time.Time) (model.AttendanceResponse, error) {
	if err := requireParticipant(g, actor); err != nil {
		return model.AttendanceResponse{}, err
	}
	if status != model.AttendancePresent && status != model.AttendanceAbsent {
		return model.AttendanceResponse{}, badRequest(`status must be "present" or "absent"`)
	}
	check, err := findCheck(g, attendanceID)
	if err != nil {
		return model.AttendanceResponse{}, err
	}
	if !check.IsActive {
		return model.AttendanceResponse{}, ErrCheckInactive
	}
	if expired(check, now) {
		return model.AttendanceResponse{}, ErrCheckExpired
	}
	for i := range check.Responses {
		r := &check.Responses[i]
		if r.UserID != actor {
			continue
		}
		if r.Status != model.AttendanceNoResponse {
			return model.AttendanceResponse{}, ErrAlreadyMarked
		}
		at := now
		r.Status = status
		r.Timestamp = &at
		return *r, nil
	}
	return model.AttendanceResponse{}, ErrNotInCheck
}

// CloseAttendanceCheck stops a check from accepting responses.
func CloseAttendanceCheck(g *model.Group, actor primitive.ObjectID, attendanceID string) (model.AttendanceCheck, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return model.AttendanceCheck{}, err
	}
	check, err := findCheck(g, attendanceID)
	if err != nil {
		return model.AttendanceCheck{}, err
	}
	if !check.IsActive {
		return model.AttendanceCheck{}, ErrCheckInactive
	}
	check.IsActive = false
	return *check, nil
}

// Report counts the responses of a check.
func Report(g *model.Group, actor primitive.ObjectID, attendanceID string, now time.Time) (AttendanceReport, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return AttendanceReport{}, err
	}
	check, err := findCheck(g, attendanceID)
	if err != nil {
		return AttendanceReport{}, err
	}
	report := AttendanceReport{Check: *check, Total: len(check.Responses), IsExpired: expired(check, now)}
	for _, r := range check.Responses {
		switch r.Status {
		case model.AttendancePresent:
			report.Present++
		case model.AttendanceAbsent:
			report.Absent++
		default:
			report.NoResponse++
		}
	}
	return report, nil
}
