package rest

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSanitizeContent(t *testing.T) {
	got := sanitizeContent(`<p>Hello <b>world</b></p><script>alert(1)</script><a href="javascript:x()">x</a>`)
	if strings.Contains(got, "<script") || strings.Contains(got, "javascript:") {
		t.Errorf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<b>world</b>") {
		t.Errorf("safe markup stripped: %q", got)
	}
}

func TestApplyBlogRequest(t *testing.T) {
	var blog model.Blog
	ok := applyBlogRequest(&blog, model.BlogRequest{
		Title:   "  Three Days in Kyrenia ",
		Content: "<p>Harbour, castle and mountains.</p>",
		Tags:    []string{"Cyprus", "cyprus", " food ", ""},
	})
	if !ok {
		t.Fatal("valid request rejected")
	}
	if blog.Title != "Three Days in Kyrenia" || blog.Slug != "three-days-in-kyrenia" {
		t.Errorf("title %q slug %q", blog.Title, blog.Slug)
	}
	if want := []string{"cyprus", "food"}; !reflect.DeepEqual(blog.Tags, want) {
		t.Errorf("tags %v, want %v", blog.Tags, want)
	}

	if applyBlogRequest(&blog, model.BlogRequest{Title: "x", Content: "<script>only()</script>"}) {
		t.Error("content that sanitizes to nothing was accepted")
	}
}

func TestBuildExpense(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	var e model.Expense
	if msg, err := buildExpense(&e, model.ExpenseRequest{Title: " Taxi ", Amount: 12.345}, now); err != nil {
		t.Fatalf("buildExpense: %s %v", msg, err)
	}
	if e.Title != "Taxi" || e.Amount != 12.35 || e.Currency != "USD" || e.Category != "other" || !e.Date.Equal(now) {
		t.Errorf("defaults not applied: %+v", e)
	}

	for _, amount := range []model.Amount{0, -3, 0.004, model.Amount(math.NaN()), model.Amount(math.Inf(1))} {
		if _, err := buildExpense(&e, model.ExpenseRequest{Title: "x", Amount: amount}, now); err == nil {
			t.Errorf("amount %v accepted", amount)
		}
	}
	if _, err := buildExpense(&e, model.ExpenseRequest{Title: "x", Amount: 1, TripID: "nope"}, now); err == nil {
		t.Error("invalid trip id accepted")
	}
}

func TestSummarizeIsExactToTheCent(t *testing.T) {
	march := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		{Amount: 0.1, Category: "food", Date: march},
		{Amount: 0.2, Category: "food", Date: march},
		{Amount: 19.99, Category: "transport", Date: april},
	}

	s := summarize(expenses)
	if s.Total != 20.29 || s.Count != 3 {
		t.Errorf("total %v count %d", s.Total, s.Count)
	}
	if s.ByCategory["food"] != 0.3 || s.ByCategory["transport"] != 19.99 {
		t.Errorf("by category %v", s.ByCategory)
	}
	if s.ByMonth["2024-03"] != 0.3 || s.ByMonth["2024-04"] != 19.99 {
		t.Errorf("by month %v", s.ByMonth)
	}

	empty := summarize(nil)
	if empty.Total != 0 || empty.ByCategory == nil || empty.ByMonth == nil {
		t.Errorf("empty summary %+v", empty)
	}
}

func TestParseSearchDate(t *testing.T) {
	from, err := parseSearchDate("2024-03-01", false)
	if err != nil || !from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v, %v", from, err)
	}
	to, err := parseSearchDate("2024-03-01", true)
	if err != nil || !to.Equal(time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("to = %v, %v", to, err)
	}
	exact, err := parseSearchDate("2024-03-01T10:00:00Z", true)
	if err != nil || exact.Hour() != 10 {
		t.Errorf("timestamp moved: %v, %v", exact, err)
	}
	if d, err := parseSearchDate("", true); d != nil || err != nil {
		t.Errorf("empty = %v, %v", d, err)
	}
	if _, err := parseSearchDate("01/03/2024", false); err == nil {
		t.Error("bad layout accepted")
	}
}

func TestSearchFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := searchFilter(userID, model.ExpenseSearch{Query: "a+b", Category: "Food", From: &from})
	if f["user_id"] != userID || f["category"] != "food" {
		t.Errorf("filter %v", f)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v", f["$or"])
	}
	pattern := or[0].(bson.M)["title"].(primitive.Regex)
	if pattern.Pattern != `a\+b` || pattern.Options != "i" {
		t.Errorf("pattern %+v", pattern)
	}
	date := f["date"].(bson.M)
	if _, ok := date["$lte"]; ok || date["$gte"] != from {
		t.Errorf("date bounds %v", date)
	}

	bare := searchFilter(userID, model.ExpenseSearch{})
	if len(bare) != 1 {
		t.Errorf("empty search filter %v", bare)
	}
}

func TestRoutePolyline(t *testing.T) {
	a := util.Coordinate{Lat: 35.34, Lon: 33.32}
	b := util.Coordinate{Lat: 35.19, Lon: 33.36}

	if got := routePolyline([]model.Stop{{Name: "a", Location: &a}, {Name: "nowhere"}}); got != "" {
		t.Errorf("single located stop produced %q", got)
	}
	got := routePolyline([]model.Stop{{Name: "a", Location: &a}, {Name: "nowhere"}, {Name: "b", Location: &b}})
	coords, err := util.DecodeRoute(got)
	if err != nil {
		t.Fatal(err)
	}
	if len(coords) != 2 {
		t.Fatalf("decoded %d points, want 2", len(coords))
	}
}

func TestProfileUpdate(t *testing.T) {
	name, lang := "Ana", "el"
	set := profileUpdate(model.UpdateProfileRequest{Name: &name, PreferredLanguage: &lang})
	want := bson.M{"name": "Ana", "preferred_language": "el"}
	if !reflect.DeepEqual(set, want) {
		t.Errorf("profileUpdate = %v, want %v", set, want)
	}
	if len(profileUpdate(model.UpdateProfileRequest{})) != 0 {
		t.Error("empty request produced an update")
	}
}
