package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, "Pin added successfully", map[string]any{"pin": map[string]any{"id": "1"}}, http.StatusCreated)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if env.Status != StatusSuccess {
		t.Errorf("expected status %q, got %q", StatusSuccess, env.Status)
	}
	if env.Data["message"] != "Pin added successfully" {
		t.Errorf("unexpected message: %v", env.Data["message"])
	}
	if _, ok := env.Data["pin"]; !ok {
		t.Error("expected pin payload in data")
	}
}

func TestFailEnvelopeWithStringMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	Fail(rec, "Pin does not exist", http.StatusBadRequest)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if env.Status != StatusFail {
		t.Errorf("expected status %q, got %q", StatusFail, env.Status)
	}
	if env.Data["message"] != "Pin does not exist" {
		t.Errorf("unexpected message: %v", env.Data["message"])
	}
}

func TestFailEnvelopeWithFieldMessages(t *testing.T) {
	rec := httptest.NewRecorder()

	Fail(rec, map[string][]string{"latLng": {"Length must be between 2 and 2."}}, http.StatusBadRequest)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	fields, ok := env.Data["message"].(map[string]any)
	if !ok {
		t.Fatalf("expected message to be a field map, got %T", env.Data["message"])
	}
	if _, ok := fields["latLng"]; !ok {
		t.Error("expected latLng violation in message map")
	}
}
