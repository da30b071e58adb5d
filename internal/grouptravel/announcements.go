package grouptravel

import (
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultAnnouncementPriority = "normal"

type AnnouncementView struct {
	model.Announcement
	IsRead bool `json:"isRead"`
}

type AnnouncementFeed struct {
	Announcements []AnnouncementView `json:"announcements"`
	UnreadCount   int                `json:"unreadCount"`
}

func hasRead(a *model.Announcement, userID primitive.ObjectID) bool {
	for _, r := range a.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// CreateAnnouncement posts a broadcast to the group.
func CreateAnnouncement(g *model.Group, actor primitive.ObjectID, req model.AnnouncementRequest, now time.Time) (model.Announcement, error) {
	if err := requireOrganizer(g, actor); err != nil {
		return model.Announcement{}, err
	}
	title, message := strings.TrimSpace(req.Title), strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return model.Announcement{}, badRequest("title and message are required")
	}
	priority := req.Priority
	if priority == "" {
		priority = DefaultAnnouncementPriority
	}
	a := model.Announcement{
		AnnouncementID: util.GenerateToken(),
		CreatedBy:      actor,
		Title:          title,
		Message:        message,
		Priority:       priority,
		Attachments:    req.Attachments,
		ReadBy:         []model.ReadReceipt{},
		CreatedAt:      now,
	}
	g.Announcements = append(g.Announcements, a)
	return a, nil
}

// MarkRead records that actor read the announcement. changed is false when
// actor had already read it.
func MarkRead(g *model.Group, actor primitive.ObjectID, announcementID string, now time.Time) (changed bool, err error) {
	if err := requireParticipant(g, actor); err != nil {
		return false, err
	}
	for i := range g.Announcements {
		a := &g.Announcements[i]
		if a.AnnouncementID != announcementID {
			continue
		}
		if hasRead(a, actor) {
			return false, nil
		}
		a.ReadBy = append(a.ReadBy, model.ReadReceipt{UserID: actor, ReadAt: now})
		return true, nil
	}
	return false, ErrAnnouncementNotFound
}

// Announcements returns the feed as seen by actor.
func Announcements(g *model.Group, actor primitive.ObjectID) (AnnouncementFeed, error) {
	if err := requireParticipant(g, actor); err != nil {
		return AnnouncementFeed{}, err
	}
	feed := AnnouncementFeed{Announcements: make([]AnnouncementView, 0, len(g.Announcements))}
	for i := range g.Announcements {
		read := hasRead(&g.Announcements[i], actor)
		if !read {
			feed.UnreadCount++
		}
		feed.Announcements = append(feed.Announcements, AnnouncementView{Announcement: g.Announcements[i], IsRead: read})
	}
	return feed, nil
}
