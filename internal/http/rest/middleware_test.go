package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(id.Hex()))
}

func TestRequireLogin(t *testing.T) {
	api := newTestAPI(nil)
	userID := primitive.NewObjectID()
	token, _, err := api.createToken(userID.Hex())
	if err != nil {
		t.Fatal(err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.Hex(),
		"exp": time.Now().Add(-time.Minute).Unix(),
		"typ": tokenTypeAccess,
	})
	expiredToken, _ := expired.SignedString([]byte(testSecret))

	wrongType := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"typ": "refresh",
	})
	wrongTypeToken, _ := wrongType.SignedString([]byte(testSecret))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"typ": tokenTypeAccess,
	})
	forgedToken, _ := forged.SignedString([]byte("other-secret"))

	cases := []struct {
		name       string
		prepare    func(r *http.Request)
		wantCode   int
		wantStatus string
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: values.AuthCookieName, Value: token}) }, http.StatusOK, ""},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, values.NotAuthorised},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", token) }, http.StatusUnauthorized, values.NotAuthorised},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expiredToken) }, http.StatusUnauthorized, values.TokenExpired},
		{"wrong type", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+wrongTypeToken) }, http.StatusUnauthorized, values.NotAuthorised},
		{"forged", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forgedToken) }, http.StatusUnauthorized, values.NotAuthorised},
	}

	h := api.RequireLogin(http.HandlerFunc(echoUser))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.prepare(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("status %d, want %d (body %q)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantCode == http.StatusOK {
				if rec.Body.String() != userID.Hex() {
					t.Errorf("user id %q, want %q", rec.Body.String(), userID.Hex())
				}
				return
			}
			if got := decodeEnvelope(t, rec).Status; got != tc.wantStatus {
				t.Errorf("envelope status %q, want %q", got, tc.wantStatus)
			}
		})
	}
}

func TestRequestTracingSetsRequestID(t *testing.T) {
	h := RequestTracing(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(values.HeaderRequestID) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(values.HeaderRequestID, "abc123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(values.HeaderRequestID); got != "abc123" {
		t.Errorf("request id %q, want abc123", got)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rate.Limit(1), 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: status %d, want 429", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusNoContent {
		t.Fatalf("other client: status %d", code)
	}
}
