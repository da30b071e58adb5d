package grouptravel

import (
	"context"
	"sync"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore keeps bson-encoded copies so callers never share slices with the
// stored document, mirroring a real round trip through the database.
type memStore struct {
	mu       sync.Mutex
	docs     map[primitive.ObjectID][]byte
	replaces int
	// unbounded counts calls that arrived without a context deadline.
	unbounded int
	// staleWrites makes the next n Replace calls fail as if another writer won.
	staleWrites int
}

func newMemStore() *memStore {
	return &memStore{docs: map[primitive.ObjectID][]byte{}}
}

func (m *memStore) put(g *model.Group) {
	raw, err := bson.Marshal(g)
	if err != nil {
		panic(err)
	}
	m.docs[g.ID] = raw
}

func (m *memStore) track(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		m.unbounded++
	}
}

func (m *memStore) get(id primitive.ObjectID) (*model.Group, error) {
	raw, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	var g model.Group
	if err := bson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *memStore) Create(ctx context.Context, g *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	m.put(g)
	return nil
}

func (m *memStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	return m.get(id)
}

func (m *memStore) List(ctx context.Context, f ListFilter) ([]model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	var out []model.Group
	for id := range m.docs {
		g, _ := m.get(id)
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if !f.Member.IsZero() && !IsParticipant(g, f.Member) {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (m *memStore) Replace(ctx context.Context, g *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	current, err := m.get(g.ID)
	if err != nil {
		return err
	}
	if m.staleWrites > 0 {
		m.staleWrites--
		current.Version++
		m.put(current)
		return ErrVersionConflict
	}
	if current.Version != g.Version {
		return ErrVersionConflict
	}
	g.Version++
	m.put(g)
	m.replaces++
	return nil
}

func (m *memStore) Join(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	g, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if g.Status != model.GroupPublic || g.AvailableSpots <= 0 || containsID(g.Participants, userID) {
		return nil, ErrConditionFailed
	}
	g.Participants = append(g.Participants, userID)
	g.AvailableSpots--
	g.Version++
	g.UpdatedAt = now
	m.put(g)
	return g, nil
}

func (m *memStore) Cancel(ctx context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(ctx)
	g, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if g.Owner == userID || !containsID(g.Participants, userID) {
		return nil, ErrConditionFailed
	}
	g.Participants = removeID(g.Participants, userID)
	g.Organizers = removeID(g.Organizers, userID)
	g.AvailableSpots++
	g.Version++
	g.UpdatedAt = now
	m.put(g)
	return g, nil
}

type sentEvent struct {
	to    []primitive.ObjectID
	event Event
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (r *recordingNotifier) Notify(to []primitive.ObjectID, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEvent{to: to, event: e})
}
