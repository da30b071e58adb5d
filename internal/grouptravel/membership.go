package grouptravel

import (
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// IsOwner reports whether userID owns g.
func IsOwner(g *model.Group, userID primitive.ObjectID) bool {
	return g.Owner == userID
}

// IsOrganizer reports whether userID may act as an organizer. The owner
// always can.
func IsOrganizer(g *model.Group, userID primitive.ObjectID) bool {
	return IsOwner(g, userID) || containsID(g.Organizers, userID)
}

// IsParticipant reports whether userID is a member of g. The owner always is.
func IsParticipant(g *model.Group, userID primitive.ObjectID) bool {
	return IsOwner(g, userID) || containsID(g.Participants, userID)
}

func requireParticipant(g *model.Group, userID primitive.ObjectID) error {
	if !IsParticipant(g, userID) {
		return ErrNotParticipant
	}
	return nil
}

func requireOrganizer(g *model.Group, userID primitive.ObjectID) error {
	if !IsOrganizer(g, userID) {
		return ErrNotOrganizer
	}
	return nil
}

func requireOwner(g *model.Group, userID primitive.ObjectID) error {
	if !IsOwner(g, userID) {
		return ErrNotOwner
	}
	return nil
}

// NewGroup builds a group owned by owner, who starts as the only participant
// and organizer.
func NewGroup(owner primitive.ObjectID, req model.CreateGroupRequest, now time.Time) (*model.Group, error) {
	name := strings.TrimSpace(req.GroupName)
	if name == "" {
		return nil, badRequest("groupName is required")
	}
	if req.AvailableSpots < 0 {
		return nil, badRequest("availableSpots cannot be negative")
	}

	status := req.Status
	if status == "" {
		status = model.GroupPublic
	}
	if status != model.GroupPublic && status != model.GroupPrivate {
		return nil, badRequest(`status must be "public" or "private"`)
	}

	settings := model.GroupSettings{AllowExpenseSubmission: true, RequireExpenseApproval: true}
	if req.Settings != nil {
		settings = *req.Settings
	}

	g := &model.Group{
		ID:               primitive.NewObjectID(),
		GroupName:        name,
		Description:      strings.TrimSpace(req.Description),
		GatheringPoint:   strings.TrimSpace(req.GatheringPoint),
		Owner:            owner,
		Organizers:       []primitive.ObjectID{owner},
		Participants:     []primitive.ObjectID{owner},
		AvailableSpots:   req.AvailableSpots,
		Status:           status,
		Settings:         settings,
		GroupExpenses:    []model.GroupExpense{},
		AttendanceChecks: []model.AttendanceCheck{},
		SOSAlerts:        []model.SOSAlert{},
		Announcements:    []model.Announcement{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.TripID != "" {
		tripID, err := util.ParseObjectID(req.TripID)
		if err != nil {
			return nil, badRequest("tripId is not a valid id")
		}
		g.TripID = &tripID
	}
	return g, nil
}

// JoinError explains why userID cannot join g. It returns nil when a join
// would currently succeed.
func JoinError(g *model.Group, userID primitive.ObjectID) error {
	if IsParticipant(g, userID) {
		return ErrAlreadyMember
	}
	if g.Status == model.GroupPrivate {
		return ErrGroupNotFound
	}
	if g.AvailableSpots <= 0 {
		return ErrNoSpots
	}
	return nil
}

// CancelError explains why userID cannot leave g. It returns nil when a
// cancel would currently succeed.
func CancelError(g *model.Group, userID primitive.ObjectID) error {
	if IsOwner(g, userID) {
		return ErrOwnerCannotLeave
	}
	if !containsID(g.Participants, userID) {
		return ErrNotMember
	}
	return nil
}

// AddMember lets an organizer place target in the group directly, taking one
// spot. It is the only way into a private group.
func AddMember(g *model.Group, actor, target primitive.ObjectID) error {
	if err := requireOrganizer(g, actor); err != nil {
		return err
	}
	if IsParticipant(g, target) {
		return conflict("user is already a member of this group")
	}
	if g.AvailableSpots <= 0 {
		return ErrNoSpots
	}
	g.Participants = append(g.Participants, target)
	g.AvailableSpots--
	return nil
}

// AddOrganizer promotes target to organizer. target must already be a participant.
func AddOrganizer(g *model.Group, actor, target primitive.ObjectID) error {
	if err := requireOrganizer(g, actor); err != nil {
		return err
	}
	if !IsParticipant(g, target) {
		return badRequest("user must be a participant before becoming an organizer")
	}
	if IsOrganizer(g, target) {
		return conflict("user is already an organizer")
	}
	g.Organizers = append(g.Organizers, target)
	return nil
}

// RemoveOrganizer demotes target. Only the owner may do this and the owner
// can never be removed.
func RemoveOrganizer(g *model.Group, actor, target primitive.ObjectID) error {
	if err := requireOwner(g, actor); err != nil {
		return err
	}
	if IsOwner(g, target) {
		return forbidden("the group owner cannot be removed from organizers")
	}
	if !containsID(g.Organizers, target) {
		return notFound("user is not an organizer")
	}
	g.Organizers = removeID(g.Organizers, target)
	return nil
}

// UpdateSettings applies the non-nil fields of req.
func UpdateSettings(g *model.Group, actor primitive.ObjectID, req model.UpdateGroupSettingsRequest) error {
	if err := requireOrganizer(g, actor); err != nil {
		return err
	}
	if req.AllowExpenseSubmission != nil {
		g.Settings.AllowExpenseSubmission = *req.AllowExpenseSubmission
	}
	if req.RequireExpenseApproval != nil {
		g.Settings.RequireExpenseApproval = *req.RequireExpenseApproval
	}
	return nil
}
