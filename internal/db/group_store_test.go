package db_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/internal/db"
	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newStore(t *testing.T) *db.GroupStore {
	t.Helper()
	client, database := testutil.SetupTestDB(t)
	d := db.Wrap(client, database.Name())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := d.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return db.NewGroupStore(d)
}

func seedGroup(t *testing.T, store *db.GroupStore, spots int) *model.Group {
	t.Helper()
	g, err := grouptravel.NewGroup(primitive.NewObjectID(), model.CreateGroupRequest{
		GroupName: "Alps hike", AvailableSpots: spots,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.Create(ctx, g); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return g
}

func TestGroupStore_GetMissing(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, primitive.NewObjectID()); !errors.Is(err, grouptravel.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGroupStore_ReplaceRejectsStaleVersion(t *testing.T) {
	store := newStore(t)
	g := seedGroup(t, store, 3)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, _ := store.Get(ctx, g.ID)
	second, _ := store.Get(ctx, g.ID)

	first.Description = "first writer"
	if err := store.Replace(ctx, first); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("version = %d, want 1", first.Version)
	}

	second.Description = "second writer"
	if err := store.Replace(ctx, second); !errors.Is(err, grouptravel.ErrVersionConflict) {
		t.Fatalf("stale replace err = %v, want ErrVersionConflict", err)
	}
	if second.Version != 0 {
		t.Errorf("failed replace changed version to %d", second.Version)
	}

	got, _ := store.Get(ctx, g.ID)
	if got.Description != "first writer" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestGroupStore_JoinLastSpot(t *testing.T) {
	store := newStore(t)
	g := seedGroup(t, store, 1)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		joined  int
		refused int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := testutil.TestContext()
			defer cancel()
			_, err := store.Join(ctx, g.ID, primitive.NewObjectID(), time.Now().UTC())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, grouptravel.ErrConditionFailed):
				refused++
			default:
				t.Errorf("Join: %v", err)
			}
		}()
	}
	wg.Wait()

	if joined != 1 || refused != callers-1 {
		t.Errorf("joined=%d refused=%d", joined, refused)
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := store.Get(ctx, g.ID)
	if got.AvailableSpots != 0 || len(got.Participants) != 2 {
		t.Errorf("spots=%d participants=%d", got.AvailableSpots, len(got.Participants))
	}
}

func TestGroupStore_JoinAndCancelConditions(t *testing.T) {
	store := newStore(t)
	g := seedGroup(t, store, 2)
	user := primitive.NewObjectID()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	now := time.Now().UTC()

	if _, err := store.Join(ctx, g.ID, user, now); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := store.Join(ctx, g.ID, user, now); !errors.Is(err, grouptravel.ErrConditionFailed) {
		t.Errorf("duplicate join err = %v", err)
	}
	if _, err := store.Cancel(ctx, g.ID, g.Owner, now); !errors.Is(err, grouptravel.ErrConditionFailed) {
		t.Errorf("owner cancel err = %v", err)
	}

	left, err := store.Cancel(ctx, g.ID, user, now)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if left.AvailableSpots != 2 || len(left.Participants) != 1 {
		t.Errorf("after cancel spots=%d participants=%v", left.AvailableSpots, left.Participants)
	}
	if _, err := store.Cancel(ctx, g.ID, user, now); !errors.Is(err, grouptravel.ErrConditionFailed) {
		t.Errorf("second cancel err = %v", err)
	}
	if _, err := store.Join(ctx, primitive.NewObjectID(), user, now); !errors.Is(err, grouptravel.ErrNotFound) {
		t.Errorf("join missing group err = %v", err)
	}
}

func TestGroupStore_ListByMember(t *testing.T) {
	store := newStore(t)
	g := seedGroup(t, store, 2)
	seedGroup(t, store, 2)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine, err := store.List(ctx, grouptravel.ListFilter{Member: g.Owner})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != g.ID {
		t.Errorf("member list = %+v", mine)
	}
	all, err := store.List(ctx, grouptravel.ListFilter{Status: model.GroupPublic})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("public list = %d, want 2", len(all))
	}
}
