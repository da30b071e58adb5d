package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwise1/travel_planner_api/internal/model"
	"google.golang.org/api/option"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("target"); got != "es" {
			t.Errorf("target = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Hola mundo","detectedSourceLanguage":"EN"}]}}`))
	}))
	defer srv.Close()

	tr, err := NewTranslator(context.Background(), "key",
		option.WithEndpoint(srv.URL+"/language/translate/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	got, err := tr.Translate(context.Background(), model.TranslateRequest{Text: "Hello world", Target: "es"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := model.TranslateResponse{Text: "Hola mundo", SourceLanguage: "en", Target: "es"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":503,"message":"unavailable"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr, err := NewTranslator(context.Background(), "key",
		option.WithEndpoint(srv.URL+"/language/translate/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	req := model.TranslateRequest{Text: "Where is the station?", Target: "fr"}
	got, err := tr.Translate(context.Background(), req)
	if err == nil {
		t.Error("expected the provider error to be reported")
	}
	if !got.Fallback || got.Text != req.Text {
		t.Errorf("got %+v, want fallback to input", got)
	}
}

func TestTranslateDisabled(t *testing.T) {
	tr, err := NewTranslator(context.Background(), "")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	got, err := tr.Translate(context.Background(), model.TranslateRequest{Text: "hi", Target: "de"})
	if !errors.Is(err, ErrTranslateDisabled) || !got.Fallback {
		t.Errorf("got %+v, %v", got, err)
	}
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"sub":"123","email":"ana@example.com","email_verified":true,"name":"Ana"}`))
	}))
	defer srv.Close()

	c := NewUserInfoClient("client-id")
	c.Endpoint = srv.URL

	info, err := c.UserInfo(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if info.Email != "ana@example.com" || !info.EmailVerified || info.Name != "Ana" {
		t.Errorf("info = %+v", info)
	}

	if _, err := c.UserInfo(context.Background(), "bad-token"); err == nil {
		t.Error("expected error for rejected token")
	}
}
