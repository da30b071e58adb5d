// Package grouptravel implements the travel group aggregate: membership and
// roles, the expense sub-ledger, attendance checks, SOS alerts,
// announcements and the dashboard views built from them.
//
// The functions operating on *model.Group are pure. Service loads a group,
// applies one of them and writes it back with an optimistic version check,
// retrying when another writer got there first.
package grouptravel

import (
	"context"
	"errors"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxAttempts = 5
	// opTimeout bounds all store work done for one service call, retries included.
	opTimeout = 5 * time.Second
)

type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	timeout  time.Duration
}

func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		timeout:  opTimeout,
	}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*model.Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	g, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	return g, err
}

// mutate applies fn to a fresh copy of the group and replaces it. fn is run
// again on every retry, so it must only write through g and its own locals.
// When fn reports no change nothing is written.
func (s *Service) mutate(ctx context.Context, id primitive.ObjectID, fn func(g *model.Group, now time.Time) (bool, error)) (*model.Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		g, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		now := s.now()
		changed, err := fn(g, now)
		if err != nil {
			return nil, err
		}
		if !changed {
			return g, nil
		}
		g.UpdatedAt = now
		err = s.store.Replace(ctx, g)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		s.log.Debug("group version conflict, retrying",
			zap.String("group_id", id.Hex()), zap.Int("attempt", attempt))
	}
	return nil, ErrTooManyConflicts
}

func (s *Service) notify(g *model.Group, except primitive.ObjectID, eventType string, data interface{}) {
	recipients := make([]primitive.ObjectID, 0, len(g.Participants)+1)
	if g.Owner != except && !containsID(g.Participants, g.Owner) {
		recipients = append(recipients, g.Owner)
	}
	for _, id := range g.Participants {
		if id != except {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}
	s.notifier.Notify(recipients, Event{Type: eventType, GroupID: g.ID.Hex(), Data: data})
}

func (s *Service) CreateGroup(ctx context.Context, owner primitive.ObjectID, req model.CreateGroupRequest) (*model.Group, error) {
	g, err := NewGroup(owner, req, s.now())
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroup returns a group. Private groups are only visible to members.
func (s *Service) GetGroup(ctx context.Context, id, viewer primitive.ObjectID) (*model.Group, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status == model.GroupPrivate && !IsParticipant(g, viewer) {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

func (s *Service) ListGroups(ctx context.Context, f ListFilter) ([]model.Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.List(ctx, f)
}

// JoinGroup adds userID and takes one spot in a single conditional update.
// When the update does not apply the current document is inspected to report
// why; if it would now succeed the update is attempted again.
func (s *Service) JoinGroup(ctx context.Context, id, userID primitive.ObjectID) (*model.Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		g, err := s.store.Join(ctx, id, userID, s.now())
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrConditionFailed) {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
		current, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if reason := JoinError(current, userID); reason != nil {
			return nil, reason
		}
	}
	return nil, ErrTooManyConflicts
}

// CancelGroup removes userID and frees one spot in a single conditional update.
func (s *Service) CancelGroup(ctx context.Context, id, userID primitive.ObjectID) (*model.Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		g, err := s.store.Cancel(ctx, id, userID, s.now())
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrConditionFailed) {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
		current, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if reason := CancelError(current, userID); reason != nil {
			return nil, reason
		}
	}
	return nil, ErrTooManyConflicts
}

func (s *Service) UpdateSettings(ctx context.Context, id, actor primitive.ObjectID, req model.UpdateGroupSettingsRequest) (*model.Group, error) {
	return s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		return true, UpdateSettings(g, actor, req)
	})
}

func (s *Service) AddMember(ctx context.Context, id, actor, target primitive.ObjectID) (*model.Group, error) {
	return s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		return true, AddMember(g, actor, target)
	})
}

func (s *Service) AddOrganizer(ctx context.Context, id, actor, target primitive.ObjectID) (*model.Group, error) {
	return s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		return true, AddOrganizer(g, actor, target)
	})
}

func (s *Service) RemoveOrganizer(ctx context.Context, id, actor, target primitive.ObjectID) (*model.Group, error) {
	return s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		return true, RemoveOrganizer(g, actor, target)
	})
}

func (s *Service) AddGroupExpense(ctx context.Context, id, actor primitive.ObjectID, req model.GroupExpenseRequest) (model.GroupExpense, error) {
	var expense model.GroupExpense
	_, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		expense, err = AddExpense(g, actor, req, now)
		return true, err
	})
	return expense, err
}

func (s *Service) ApproveExpense(ctx context.Context, id, actor primitive.ObjectID, expenseID, action string) (model.GroupExpense, error) {
	var expense model.GroupExpense
	_, err := s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		var err error
		expense, err = ApproveExpense(g, actor, expenseID, action)
		return true, err
	})
	return expense, err
}

func (s *Service) GetGroupExpenses(ctx context.Context, id, actor primitive.ObjectID) (ExpenseLedger, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return ExpenseLedger{}, err
	}
	return Expenses(g, actor)
}

func (s *Service) CreateAttendanceCheck(ctx context.Context, id, actor primitive.ObjectID, req model.AttendanceCheckRequest) (model.AttendanceCheck, error) {
	var check model.AttendanceCheck
	g, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		check, err = CreateAttendanceCheck(g, actor, req, now)
		return true, err
	})
	if err != nil {
		return model.AttendanceCheck{}, err
	}
	s.notify(g, actor, EventAttendanceCreated, check)
	return check, nil
}

func (s *Service) MarkAttendance(ctx context.Context, id, actor primitive.ObjectID, attendanceID, status string) (model.AttendanceResponse, error) {
	var resp model.AttendanceResponse
	_, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		resp, err = MarkAttendance(g, actor, attendanceID, status, now)
		return true, err
	})
	return resp, err
}

func (s *Service) CloseAttendanceCheck(ctx context.Context, id, actor primitive.ObjectID, attendanceID string) (model.AttendanceCheck, error) {
	var check model.AttendanceCheck
	_, err := s.mutate(ctx, id, func(g *model.Group, _ time.Time) (bool, error) {
		var err error
		check, err = CloseAttendanceCheck(g, actor, attendanceID)
		return true, err
	})
	return check, err
}

func (s *Service) GetAttendanceReport(ctx context.Context, id, actor primitive.ObjectID, attendanceID string) (AttendanceReport, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return AttendanceReport{}, err
	}
	return Report(g, actor, attendanceID, s.now())
}

func (s *Service) CreateSOS(ctx context.Context, id, actor primitive.ObjectID, req model.SOSRequest) (model.SOSAlert, error) {
	var alert model.SOSAlert
	g, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		alert, err = CreateSOS(g, actor, req, now)
		return true, err
	})
	if err != nil {
		return model.SOSAlert{}, err
	}
	s.log.Warn("sos raised",
		zap.String("group_id", id.Hex()), zap.String("sos_id", alert.SOSID), zap.String("priority", alert.Priority))
	s.notify(g, actor, EventSOSCreated, alert)
	return alert, nil
}

func (s *Service) RespondToSOS(ctx context.Context, id, actor primitive.ObjectID, sosID, response string) (model.SOSAlert, error) {
	var (
		alert    model.SOSAlert
		resolved bool
	)
	g, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		alert, resolved, err = RespondToSOS(g, actor, sosID, response, now)
		return true, err
	})
	if err != nil {
		return model.SOSAlert{}, err
	}
	if resolved {
		s.notify(g, actor, EventSOSResolved, alert)
	}
	return alert, nil
}

func (s *Service) GetActiveSOS(ctx context.Context, id, actor primitive.ObjectID) ([]model.SOSAlert, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ActiveSOS(g, actor)
}

func (s *Service) CreateAnnouncement(ctx context.Context, id, actor primitive.ObjectID, req model.AnnouncementRequest) (model.Announcement, error) {
	var a model.Announcement
	g, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		var err error
		a, err = CreateAnnouncement(g, actor, req, now)
		return true, err
	})
	if err != nil {
		return model.Announcement{}, err
	}
	s.notify(g, actor, EventAnnouncementCreated, a)
	return a, nil
}

func (s *Service) MarkAnnouncementAsRead(ctx context.Context, id, actor primitive.ObjectID, announcementID string) error {
	_, err := s.mutate(ctx, id, func(g *model.Group, now time.Time) (bool, error) {
		return MarkRead(g, actor, announcementID, now)
	})
	return err
}

func (s *Service) GetGroupAnnouncements(ctx context.Context, id, actor primitive.ObjectID) (AnnouncementFeed, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return AnnouncementFeed{}, err
	}
	return Announcements(g, actor)
}

func (s *Service) GetDashboard(ctx context.Context, id, actor primitive.ObjectID) (Dashboard, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(g, actor, s.now())
}

func (s *Service) GetStatistics(ctx context.Context, id, actor primitive.ObjectID) (Statistics, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return Statistics{}, err
	}
	return BuildStatistics(g, actor, s.now())
}
