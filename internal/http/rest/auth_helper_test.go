package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util/values"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckOTP(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fresh := model.OTP{CodeHash: string(hash), ExpiresAt: now.Add(5 * time.Minute)}

	expired := fresh
	expired.ExpiresAt = now

	locked := fresh
	locked.Attempts = maxOTPAttempts

	cases := []struct {
		name        string
		otp         model.OTP
		code        string
		wantOK      bool
		wantStatus  string
		wantMessage string
	}{
		{"valid", fresh, "123456", true, values.Success, ""},
		{"wrong code", fresh, "654321", false, values.BadRequestBody, msgInvalidCode},
		{"expired", expired, "123456", false, values.BadRequestBody, msgExpiredCode},
		{"locked", locked, "123456", false, values.TooManyRequest, "too many attempts, request a new code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, status, message := checkOTP(tc.otp, tc.code, now)
			if ok != tc.wantOK || status != tc.wantStatus || message != tc.wantMessage {
				t.Errorf("checkOTP = (%v, %q, %q), want (%v, %q, %q)",
					ok, status, message, tc.wantOK, tc.wantStatus, tc.wantMessage)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	api := newTestAPI(nil)
	id := primitive.NewObjectID().Hex()

	token, expiresAt, err := api.createToken(id)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(expiresAt); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v, want about 1h", d)
	}

	claims, err := api.verifyToken(token)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if claims.UserID != id || claims.Type != tokenTypeAccess {
		t.Errorf("claims %+v", claims)
	}
	if claims.Exp != expiresAt.Unix() {
		t.Errorf("exp %d, want %d", claims.Exp, expiresAt.Unix())
	}

	if _, err := api.verifyToken(token + "x"); err != errInvalidToken {
		t.Errorf("tampered token: err %v, want errInvalidToken", err)
	}
}

func TestSetSessionCookie(t *testing.T) {
	user := model.User{ID: primitive.NewObjectID(), Email: "ana@example.com"}

	api := newTestAPI(nil)
	api.Config.Env = "production"
	rec := httptest.NewRecorder()
	resp, err := api.setSession(rec, user)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("login response %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != values.AuthCookieName || c.Value != resp.Token {
		t.Errorf("cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode {
		t.Errorf("production cookie flags: httpOnly=%v secure=%v sameSite=%v", c.HttpOnly, c.Secure, c.SameSite)
	}
	if c.MaxAge != int(time.Hour.Seconds()) {
		t.Errorf("max age %d", c.MaxAge)
	}

	api.Config.Env = "development"
	dev := api.authCookie("v", 10)
	if dev.Secure || dev.SameSite != http.SameSiteLaxMode {
		t.Errorf("development cookie flags: secure=%v sameSite=%v", dev.Secure, dev.SameSite)
	}
}
