package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/config"
	deps "github.com/bwise1/travel_planner_api/internal/debs"
	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/bwise1/travel_planner_api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func newTestAPI(d *deps.Dependencies) *API {
	if d == nil {
		d = &deps.Dependencies{}
	}
	return &API{
		Config: &config.Config{Env: "development", JwtSecret: testSecret, JwtExpires: "1h"},
		Deps:   d,
	}
}

func bearer(t *testing.T, api *API, userID primitive.ObjectID) string {
	t.Helper()
	token, _, err := api.createToken(userID.Hex())
	if err != nil {
		t.Fatalf("createToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, h http.Handler, method, target, auth, body string) (*httptest.ResponseRecorder, ServerResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp ServerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s %s: %v (body %q)", method, target, err, rec.Body.String())
	}
	return rec, resp
}

// groupStore is a bson round-tripping Store for handler tests.
type groupStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID][]byte
}

func newGroupStore() *groupStore {
	return &groupStore{docs: map[primitive.ObjectID][]byte{}}
}

func (s *groupStore) put(g *model.Group) {
	raw, err := bson.Marshal(g)
	if err != nil {
		panic(err)
	}
	s.docs[g.ID] = raw
}

func (s *groupStore) get(id primitive.ObjectID) (*model.Group, error) {
	raw, ok := s.docs[id]
	if !ok {
		return nil, grouptravel.ErrNotFound
	}
	var g model.Group
	if err := bson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *groupStore) Create(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(g)
	return nil
}

func (s *groupStore) Get(_ context.Context, id primitive.ObjectID) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *groupStore) List(_ context.Context, f grouptravel.ListFilter) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Group{}
	for id := range s.docs {
		g, _ := s.get(id)
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if !f.Member.IsZero() && !grouptravel.IsParticipant(g, f.Member) {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (s *groupStore) Replace(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.get(g.ID)
	if err != nil {
		return err
	}
	if current.Version != g.Version {
		return grouptravel.ErrVersionConflict
	}
	g.Version++
	s.put(g)
	return nil
}

func (s *groupStore) Join(_ context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if g.Status != model.GroupPublic || g.AvailableSpots <= 0 || grouptravel.IsParticipant(g, userID) {
		return nil, grouptravel.ErrConditionFailed
	}
	g.Participants = append(g.Participants, userID)
	g.AvailableSpots--
	g.Version++
	g.UpdatedAt = now
	s.put(g)
	return g, nil
}

func (s *groupStore) Cancel(_ context.Context, id, userID primitive.ObjectID, now time.Time) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if g.Owner == userID || !grouptravel.IsParticipant(g, userID) {
		return nil, grouptravel.ErrConditionFailed
	}
	kept := g.Participants[:0]
	for _, p := range g.Participants {
		if p != userID {
			kept = append(kept, p)
		}
	}
	g.Participants = kept
	g.AvailableSpots++
	g.Version++
	g.UpdatedAt = now
	s.put(g)
	return g, nil
}
