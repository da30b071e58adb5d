package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ServerResponse {
	t.Helper()
	var resp ServerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandlerWritesEnvelope(t *testing.T) {
	h := Handler(func(http.ResponseWriter, *http.Request) *ServerResponse {
		return respond(values.Created, "made", map[string]int{"n": 1})
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type %q", ct)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != values.Created || resp.Message != "made" {
		t.Errorf("envelope %+v", resp)
	}
}

func TestHandlerNilResponse(t *testing.T) {
	h := Handler(func(w http.ResponseWriter, _ *http.Request) *ServerResponse {
		w.WriteHeader(http.StatusAccepted)
		return nil
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Errorf("handler output was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRespondWithErrorHidesInternalMessage(t *testing.T) {
	tc := tracing.Context{RequestID: "req-1"}

	resp := respondWithError(errors.New("mongo exploded"), "", values.Error, &tc)
	if resp.StatusCode != http.StatusInternalServerError || resp.Message != values.SystemErr {
		t.Errorf("internal error: %+v", resp)
	}

	resp = respondWithError(nil, "Trip not found", values.NotFound, &tc)
	if resp.StatusCode != http.StatusNotFound || resp.Message != "Trip not found" {
		t.Errorf("not found: %+v", resp)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"name":"Ana","relationship":"sister","phone":"+35799123456"}`, true},
		{"not json", `{name`, false},
		{"missing phone", `{"name":"Ana"}`, false},
		{"bad phone", `{"name":"Ana","phone":"12"}`, false},
		{"blank name", `{"name":"  ","phone":"+35799123456"}`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.body))
			tc := tracing.FromContext(r.Context())
			var req model.EmergencyContactRequest

			errResp := decodeAndValidate(r, &tc, &req)
			if c.ok && errResp != nil {
				t.Fatalf("unexpected rejection: %q", errResp.Message)
			}
			if !c.ok {
				if errResp == nil {
					t.Fatal("expected rejection")
				}
				if errResp.StatusCode != http.StatusBadRequest {
					t.Errorf("status %d, want 400", errResp.StatusCode)
				}
			}
		})
	}
}
