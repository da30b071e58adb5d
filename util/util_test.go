package util

import (
	"context"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPolyLineRoundTrip(t *testing.T) {
	route := []Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}
	encoded := EncodeRoute(route)
	if encoded != "_p~iF~ps|U_ulLnnqC_mqNvxq`@" {
		t.Fatalf("EncodeRoute = %q", encoded)
	}

	decoded, err := DecodeRoute(encoded)
	if err != nil {
		t.Fatalf("Decoding returned error %v", err)
	}
	if len(decoded) != len(route) {
		t.Fatalf("decoded %d points, want %d", len(decoded), len(route))
	}
	for i := range route {
		if math.Abs(decoded[i].Lat-route[i].Lat) > 1e-5 || math.Abs(decoded[i].Lon-route[i].Lon) > 1e-5 {
			t.Errorf("point %d: got %+v, want %+v", i, decoded[i], route[i])
		}
	}
}

func TestEncodeRouteEmpty(t *testing.T) {
	if got := EncodeRoute(nil); got != "" {
		t.Errorf("EncodeRoute(nil) = %q, want empty", got)
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"Simple", "Hello World", "hello-world"},
		{"Punctuation", "Kyoto, in 3 days!", "kyoto-in-3-days"},
		{"Unicode dropped", "Café Zürich", "caf-zrich"},
		{"Keeps dash and underscore", "road_trip-2025", "road_trip-2025"},
		{"Trims", "  spaced  ", "spaced"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	testCases := map[string]int{
		values.Success:        http.StatusOK,
		values.Created:        http.StatusCreated,
		values.BadRequestBody: http.StatusBadRequest,
		values.NotAllowed:     http.StatusForbidden,
		values.Conflict:       http.StatusConflict,
		values.NotFound:       http.StatusNotFound,
		values.NotAuthorised:  http.StatusUnauthorized,
		values.TokenExpired:   http.StatusUnauthorized,
		values.TooManyRequest: http.StatusTooManyRequests,
		values.Error:          http.StatusInternalServerError,
		"unknown":             http.StatusOK,
	}
	for status, want := range testCases {
		if got := StatusCode(status); got != want {
			t.Errorf("StatusCode(%q) = %d; want %d", status, got, want)
		}
	}
}

func TestValidationMessage(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		Name     string `validate:"notblank"`
	}
	err := ValidateStruct(req{Email: "nope", Password: "short", Name: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := ValidationMessage(err)
	for _, want := range []string{"email is invalid (email)", "password is invalid (min)", "name is invalid (notblank)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code := GenerateNumericCode(6)
		if len(code) != 6 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}

func TestUserIDContextRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := GetUserIDFromContext(WithUserID(context.Background(), id))
	if err != nil {
		t.Fatalf("GetUserIDFromContext: %v", err)
	}
	if got != id {
		t.Errorf("got %v, want %v", got, id)
	}

	if _, err := GetUserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}
}
