package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != accountPath || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Appwrite-Project"); got != "proj-1" {
			t.Errorf("unexpected project header %q", got)
		}
		if got := r.Header.Get("X-Appwrite-Key"); got != "key-1" {
			t.Errorf("unexpected key header %q", got)
		}

		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.UserID == "" {
			t.Error("expected a generated userId")
		}
		if req.Email != "jane@example.com" || req.Name != "Jane Doe" {
			t.Errorf("unexpected request %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]string{"$id": "identity-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "proj-1", "key-1")
	id, err := client.CreateAccount(context.Background(), "jane@example.com", "hunter22", "Jane Doe")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if id != "identity-1" {
		t.Errorf("expected identity-1, got %q", id)
	}
}

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != sessionsPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"$id":    "sess-1",
			"userId": "identity-1",
			"secret": "secret-1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "proj-1", "key-1")
	sess, err := client.CreateSession(context.Background(), "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if sess.Secret != "secret-1" || sess.AccountID != "identity-1" {
		t.Errorf("unexpected session %+v", sess)
	}
}

func TestGetAccount_SessionHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Appwrite-Session"); got != "secret-1" {
			t.Errorf("expected session header secret-1, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"$id": "identity-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "proj-1", "key-1")
	id, err := client.GetAccount(context.Background(), "secret-1")
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if id != "identity-1" {
		t.Errorf("expected identity-1, got %q", id)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "invalid credentials",
			status:  http.StatusUnauthorized,
			body:    `{"message": "Invalid credentials", "code": 401, "type": "user_invalid_credentials"}`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "duplicate account",
			status:  http.StatusConflict,
			body:    `{"message": "A user with the same email already exists", "code": 409, "type": "user_already_exists"}`,
			wantErr: ErrAccountExists,
		},
		{
			name:    "missing session",
			status:  http.StatusNotFound,
			body:    `{"message": "Session not found", "code": 404, "type": "user_session_not_found"}`,
			wantErr: ErrNoSession,
		},
		{
			name:    "plain unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"message": "Unauthorized", "code": 401, "type": "general_unauthorized"}`,
			wantErr: ErrNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "proj-1", "key-1")
			_, err := client.CreateSession(context.Background(), "jane@example.com", "pw")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUnclassifiedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "Rate limit exceeded", "code": 429, "type": "general_rate_limit_exceeded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "proj-1", "key-1")
	_, err := client.CreateAccount(context.Background(), "jane@example.com", "pw", "Jane")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrNoSession) || errors.Is(err, ErrAccountExists) {
		t.Errorf("unclassified error must not map to a sentinel: %v", err)
	}
}
