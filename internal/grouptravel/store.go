package grouptravel

import (
	"context"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListFilter narrows ListGroups. Zero values match everything.
type ListFilter struct {
	Status string
	Member primitive.ObjectID
	Limit  int64
	Skip   int64
}

// Store persists groups.
//
// Replace must only succeed when the stored version equals g.Version; on
// success it bumps g.Version. Join and Cancel must be single atomic
// conditional updates and return ErrConditionFailed when the condition does
// not hold.
type Store interface {
	Create(ctx context.Context, g *model.Group) error
	Get(ctx context.Context, id primitive.ObjectID) (*model.Group, error)
	List(ctx context.Context, f ListFilter) ([]model.Group, error)
	Replace(ctx context.Context, g *model.Group) error
	Join(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error)
	Cancel(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error)
}

const (
	EventSOSCreated          = "sos.created"
	EventSOSResolved         = "sos.resolved"
	EventAnnouncementCreated = "announcement.created"
	EventAttendanceCreated   = "attendance.created"
)

// Event is pushed to group members after a successful write.
type Event struct {
	Type    string      `json:"type"`
	GroupID string      `json:"groupID"`
	Data    interface{} `json:"data"`
}

// Notifier delivers events to connected users. Delivery is best effort.
type Notifier interface {
	Notify(userIDs []primitive.ObjectID, event Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify([]primitive.ObjectID, Event) {}
