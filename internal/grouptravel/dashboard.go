package grouptravel

import (
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecentActivity struct {
	LastExpense         *model.GroupExpense    `json:"lastExpense,omitempty"`
	LastAttendanceCheck *model.AttendanceCheck `json:"lastAttendanceCheck,omitempty"`
	LastSOS             *model.SOSAlert        `json:"lastSOS,omitempty"`
	LastAnnouncement    *model.Announcement    `json:"lastAnnouncement,omitempty"`
}

type Dashboard struct {
	GroupID                primitive.ObjectID `json:"groupID"`
	GroupName              string             `json:"groupName"`
	ParticipantCount       int                `json:"participantCount"`
	OrganizerCount         int                `json:"organizerCount"`
	AvailableSpots         int                `json:"availableSpots"`
	ActiveSOSCount         int                `json:"activeSOSCount"`
	ActiveAttendanceChecks int                `json:"activeAttendanceChecks"`
	UnreadAnnouncements    int                `json:"unreadAnnouncements"`
	PendingExpenses        int                `json:"pendingExpenses"`
	IsOwner                bool               `json:"isOwner"`
	IsOrganizer            bool               `json:"isOrganizer"`
	RecentActivity         RecentActivity     `json:"recentActivity"`
}

// BuildDashboard composes the caller's view of g. Pending expenses are only
// counted for organizers.
func BuildDashboard(g *model.Group, actor primitive.ObjectID, now time.Time) (Dashboard, error) {
	if err := requireParticipant(g, actor); err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{
		GroupID:          g.ID,
		GroupName:        g.GroupName,
		ParticipantCount: len(g.Participants),
		OrganizerCount:   len(g.Organizers),
		AvailableSpots:   g.AvailableSpots,
		IsOwner:          IsOwner(g, actor),
		IsOrganizer:      IsOrganizer(g, actor),
	}
	for _, a := range g.SOSAlerts {
		if a.Status == model.SOSActive {
			d.ActiveSOSCount++
		}
	}
	for i := range g.AttendanceChecks {
		if c := &g.AttendanceChecks[i]; c.IsActive && !expired(c, now) {
			d.ActiveAttendanceChecks++
		}
	}
	for i := range g.Announcements {
		if !hasRead(&g.Announcements[i], actor) {
			d.UnreadAnnouncements++
		}
	}
	if d.IsOrganizer {
		for _, e := range g.GroupExpenses {
			if e.Status == model.ExpensePending {
				d.PendingExpenses++
			}
		}
	}

	// recent activity is the tail of each list; sub-resources are append-only
	if n := len(g.GroupExpenses); n > 0 {
		d.RecentActivity.LastExpense = &g.GroupExpenses[n-1]
	}
	if n := len(g.AttendanceChecks); n > 0 {
		d.RecentActivity.LastAttendanceCheck = &g.AttendanceChecks[n-1]
	}
	if n := len(g.SOSAlerts); n > 0 {
		d.RecentActivity.LastSOS = &g.SOSAlerts[n-1]
	}
	if n := len(g.Announcements); n > 0 {
		d.RecentActivity.LastAnnouncement = &g.Announcements[n-1]
	}
	return d, nil
}

type ExpenseStats struct {
	Count      int                `json:"count"`
	Total      float64            `json:"total"`
	Approved   float64            `json:"approved"`
	ByCategory map[string]float64 `json:"byCategory"`
	Counts     ExpenseCounts      `json:"counts"`
}

type AttendanceStats struct {
	Checks       int     `json:"checks"`
	Active       int     `json:"active"`
	Responses    int     `json:"responses"`
	Answered     int     `json:"answered"`
	ResponseRate float64 `json:"responseRate"`
}

type SOSStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
}

type AnnouncementStats struct {
	Total    int     `json:"total"`
	ReadRate float64 `json:"readRate"`
}

type Statistics struct {
	GroupID        primitive.ObjectID `json:"groupID"`
	Participants   int                `json:"participants"`
	Organizers     int                `json:"organizers"`
	AvailableSpots int                `json:"availableSpots"`
	Expenses       ExpenseStats       `json:"expenses"`
	Attendance     AttendanceStats    `json:"attendance"`
	SOS            SOSStats           `json:"sos"`
	Announcements  AnnouncementStats  `json:"announcements"`
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).DivRound(decimal.NewFromInt(int64(den)), 4).InexactFloat64()
}

// BuildStatistics aggregates every sub-resource of g for organizers.
func BuildStatistics(g *model.Group, actor primitive.ObjectID, now time.Time) (Statistics, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return Statistics{}, err
	}
	s := Statistics{
		GroupID:        g.ID,
		Participants:   len(g.Participants),
		Organizers:     len(g.Organizers),
		AvailableSpots: g.AvailableSpots,
	}

	total, approved := decimal.Zero, decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, e := range g.GroupExpenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
		switch e.Status {
		case model.ExpenseApproved:
			approved = approved.Add(amount)
			s.Expenses.Counts.Approved++
		case model.ExpensePending:
			s.Expenses.Counts.Pending++
		case model.ExpenseRejected:
			s.Expenses.Counts.Rejected++
		}
	}
	s.Expenses.Count = len(g.GroupExpenses)
	s.Expenses.Total = total.InexactFloat64()
	s.Expenses.Approved = approved.InexactFloat64()
	s.Expenses.ByCategory = make(map[string]float64, len(byCategory))
	for k, v := range byCategory {
		s.Expenses.ByCategory[k] = v.InexactFloat64()
	}

	for i := range g.AttendanceChecks {
		c := &g.AttendanceChecks[i]
		s.Attendance.Checks++
		if c.IsActive && !expired(c, now) {
			s.Attendance.Active++
		}
		for _, r := range c.Responses {
			s.Attendance.Responses++
			if r.Status != model.AttendanceNoResponse {
				s.Attendance.Answered++
			}
		}
	}
	s.Attendance.ResponseRate = ratio(s.Attendance.Answered, s.Attendance.Responses)

	for _, a := range g.SOSAlerts {
		s.SOS.Total++
		if a.Status == model.SOSResolved {
			s.SOS.Resolved++
		} else {
			s.SOS.Active++
		}
	}

	// Receipts left by members who have since cancelled are not counted.
	reads := 0
	for _, a := range g.Announcements {
		for _, r := range a.ReadBy {
			if IsParticipant(g, r.UserID) {
				reads++
			}
		}
	}
	s.Announcements.Total = len(g.Announcements)
	s.Announcements.ReadRate = ratio(reads, len(g.Announcements)*len(g.Participants))
	return s, nil
}
