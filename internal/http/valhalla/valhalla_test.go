package valhalla

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwise1/travel_planner_api/util"
)

func shape(points ...[]float64) string {
	return string(shapeCodec.EncodeCoords(nil, points))
}

func TestRoute(t *testing.T) {
	var got routeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"trip": map[string]interface{}{
				"summary": map[string]float64{"length": 12.5, "time": 900},
				"legs": []map[string]interface{}{
					{"shape": shape([]float64{35.1, 33.1}, []float64{35.2, 33.2})},
					{"shape": shape([]float64{35.2, 33.2}, []float64{35.3, 33.3})},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	stops := []util.Coordinate{{Lat: 35.1, Lon: 33.1}, {Lat: 35.2, Lon: 33.2}, {Lat: 35.3, Lon: 33.3}}
	route, err := c.Route(context.Background(), stops, "")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if got.Costing != CostingAuto || got.Units != unitsKilometers || len(got.Locations) != 3 {
		t.Errorf("request %+v", got)
	}
	if route.DistanceMeters != 12500 || route.DurationSeconds != 900 {
		t.Errorf("summary %+v", route)
	}
	if len(route.Points) != 3 {
		t.Fatalf("got %d points, want 3 with the shared joint removed", len(route.Points))
	}
	if route.Points[2].Lat != 35.3 || route.Points[2].Lon != 33.3 {
		t.Errorf("last point %+v", route.Points[2])
	}
}

func TestRouteErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"trip":{"legs":[]}}`))
	}))
	defer empty.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"no path"}`, http.StatusBadRequest)
	}))
	defer failing.Close()

	stops := []util.Coordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}

	if _, err := NewClient(empty.URL).Route(context.Background(), stops, CostingBicycle); !errors.Is(err, ErrNoRoute) {
		t.Errorf("empty legs: err %v, want ErrNoRoute", err)
	}
	if _, err := NewClient(empty.URL).Route(context.Background(), stops[:1], CostingAuto); err == nil {
		t.Error("single stop accepted")
	}
	if _, err := NewClient(failing.URL).Route(context.Background(), stops, CostingAuto); err == nil {
		t.Error("non-200 response accepted")
	}
}

func TestValidCosting(t *testing.T) {
	for costing, want := range map[string]bool{"auto": true, "pedestrian": true, "bicycle": true, "truck": false, "": false} {
		if ValidCosting(costing) != want {
			t.Errorf("ValidCosting(%q) = %v", costing, !want)
		}
	}
}
