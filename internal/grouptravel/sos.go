package grouptravel

import (
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultSOSMessage  = "Emergency! I need help."
	DefaultSOSPriority = "high"

	// SOSResolveResponse is the response text that closes an alert.
	SOSResolveResponse = "resolved"
)

// CreateSOS raises an active alert on behalf of actor.
func CreateSOS(g *model.Group, actor primitive.ObjectID, req model.SOSRequest, now time.Time) (model.SOSAlert, error) {
	if err := requireParticipant(g, actor); err != nil {
		return model.SOSAlert{}, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = DefaultSOSMessage
	}
	priority := req.Priority
	if priority == "" {
		priority = DefaultSOSPriority
	}
	alert := model.SOSAlert{
		SOSID:       util.GenerateToken(),
		CreatedBy:   actor,
		Message:     message,
		Location:    strings.TrimSpace(req.Location),
		Priority:    priority,
		Status:      model.SOSActive,
		RespondedBy: []model.SOSResponse{},
		CreatedAt:   now,
	}
	g.SOSAlerts = append(g.SOSAlerts, alert)
	return alert, nil
}

// RespondToSOS upserts actor's response. A "resolved" response closes an
// active alert; resolvedNow reports whether this call did so.
func RespondToSOS(g *model.Group, actor primitive.ObjectID, sosID, response string, now time.Time) (alert model.SOSAlert, resolvedNow bool, err error) {
	if err := requireParticipant(g, actor); err != nil {
		return model.SOSAlert{}, false, err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return model.SOSAlert{}, false, badRequest("response is required")
	}

	var a *model.SOSAlert
	for i := range g.SOSAlerts {
		if g.SOSAlerts[i].SOSID == sosID {
			a = &g.SOSAlerts[i]
			break
		}
	}
	if a == nil {
		return model.SOSAlert{}, false, ErrSOSNotFound
	}

	updated := false
	for i := range a.RespondedBy {
		if a.RespondedBy[i].UserID == actor {
			a.RespondedBy[i].Response = response
			a.RespondedBy[i].Timestamp = now
			updated = true
			break
		}
	}
	if !updated {
		a.RespondedBy = append(a.RespondedBy, model.SOSResponse{UserID: actor, Response: response, Timestamp: now})
	}

	if strings.EqualFold(response, SOSResolveResponse) && a.Status == model.SOSActive {
		at := now
		a.Status = model.SOSResolved
		a.ResolvedAt = &at
		resolvedNow = true
	}
	return *a, resolvedNow, nil
}

// ActiveSOS lists unresolved alerts.
func ActiveSOS(g *model.Group, actor primitive.ObjectID) ([]model.SOSAlert, error) {
	if err := requireParticipant(g, actor); err != nil {
		return nil, err
	}
	active := []model.SOSAlert{}
	for _, a := range g.SOSAlerts {
		if a.Status == model.SOSActive {
			active = append(active, a)
		}
	}
	return active, nil
}
