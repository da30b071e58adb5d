package stadiamaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	c.BaseURL, _ = url.Parse(srv.URL)
	return c
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocoding/v2/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" || q.Get("text") != "Eiffel Tower" || q.Get("size") != "1" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[2.2945,48.8584]},
			 "properties":{"gid":"osm:venue:1","layer":"venue","name":"Tour Eiffel"}}]}`))
	})

	place, err := c.Geocode(context.Background(), "Eiffel Tower")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if place.Name != "Tour Eiffel" || place.Coordinate.Lat != 48.8584 || place.Coordinate.Lon != 2.2945 {
		t.Errorf("place = %+v", place)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})
	if _, err := c.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNoResults) {
		t.Errorf("err = %v, want ErrNoResults", err)
	}
}

func TestGeocodeProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	if _, err := c.Geocode(context.Background(), "Rome"); err == nil {
		t.Fatal("expected error")
	}
}
