package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubDirectory struct {
	users []*User
	err   error
}

func (d *stubDirectory) ListAll(ctx context.Context) ([]*User, error) {
	return d.users, d.err
}

func TestAllUsersReturnsSummaries(t *testing.T) {
	h := NewHandler(&stubDirectory{users: []*User{
		{ID: "user-1", Username: "alice", PasswordHash: "hash1", IsActive: true},
		{ID: "user-2", Username: "bob", PasswordHash: "hash2", IsActive: true},
	}})

	req := httptest.NewRequest(http.MethodGet, "/all_users", nil)
	rec := httptest.NewRecorder()
	h.AllUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Message string    `json:"message"`
			Users   []Summary `json:"users"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "success" {
		t.Errorf("expected success status, got %q", resp.Status)
	}
	if resp.Data.Message != "Users retrieved successfully" {
		t.Errorf("unexpected message: %q", resp.Data.Message)
	}
	if len(resp.Data.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp.Data.Users))
	}
	if resp.Data.Users[0].Username != "alice" || resp.Data.Users[1].Username != "bob" {
		t.Errorf("unexpected users: %+v", resp.Data.Users)
	}

	// Password hashes never leave the server
	if strings.Contains(rec.Body.String(), "hash1") || strings.Contains(rec.Body.String(), "hash2") {
		t.Error("response must not expose password hashes")
	}
}

func TestAllUsersStorageError(t *testing.T) {
	h := NewHandler(&stubDirectory{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/all_users", nil)
	rec := httptest.NewRecorder()
	h.AllUsers(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "fail" {
		t.Errorf("expected fail status, got %q", resp.Status)
	}
	if resp.Data.Message != "Something went wrong" {
		t.Errorf("unexpected message: %q", resp.Data.Message)
	}
}
