package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon/internal/domain/session"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/appwrite"
	"horizon/internal/shared/auth"
)

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	RegisterFunc func(ctx context.Context, params session.RegisterParams) (*session.Result, error)
	SignInFunc   func(ctx context.Context, email, password string) (*session.Result, error)
	SignOutFunc  func(ctx context.Context, sessionSecret string)
}

func (m *MockSessionService) Register(ctx context.Context, params session.RegisterParams) (*session.Result, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockSessionService) SignIn(ctx context.Context, email, password string) (*session.Result, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockSessionService) SignOut(ctx context.Context, sessionSecret string) {
	if m.SignOutFunc != nil {
		m.SignOutFunc(ctx, sessionSecret)
	}
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	svc := &MockSessionService{
		RegisterFunc: func(ctx context.Context, params session.RegisterParams) (*session.Result, error) {
			if params.Email != "jane@example.com" {
				t.Errorf("unexpected email %q", params.Email)
			}
			if params.SSN != "123-45-6789" {
				t.Errorf("unexpected ssn %q", params.SSN)
			}
			return &session.Result{
				User:    &user.User{ID: "u1", Email: params.Email},
				Session: &appwrite.Session{Secret: "secret-1"},
			}, nil
		},
	}
	handler := NewAuthHandler(svc)

	body := `{
		"email": "jane@example.com",
		"password": "hunter22",
		"firstName": "Jane",
		"lastName": "Doe",
		"address1": "1 Main St",
		"city": "Springfield",
		"state": "IL",
		"postalCode": "62701",
		"dateOfBirth": "1990-01-01",
		"ssn": "123-45-6789"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if cookie.Value != "secret-1" {
		t.Errorf("expected cookie value secret-1, got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	if !strings.Contains(rr.Body.String(), `"email":"jane@example.com"`) {
		t.Errorf("expected user in response, got %s", rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "123-45-6789") {
		t.Error("ssn must never appear in a response")
	}
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", session.ErrValidation, http.StatusBadRequest},
		{"duplicate", session.ErrAccountExists, http.StatusConflict},
		{"upstream", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSessionService{
				RegisterFunc: func(ctx context.Context, params session.RegisterParams) (*session.Result, error) {
					return nil, tt.err
				},
			}
			handler := NewAuthHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{}`))
			rr := httptest.NewRecorder()
			handler.HandleRegister(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if sessionCookie(rr) != nil {
				t.Error("no session cookie should be set on failure")
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	svc := &MockSessionService{
		SignInFunc: func(ctx context.Context, email, password string) (*session.Result, error) {
			if email != "jane@example.com" || password != "hunter22" {
				t.Errorf("unexpected credentials %q/%q", email, password)
			}
			return &session.Result{
				User:    &user.User{ID: "u1", Email: email},
				Session: &appwrite.Session{Secret: "secret-2"},
			}, nil
		},
	}
	handler := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email": "jane@example.com", "password": "hunter22"}`))
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	cookie := sessionCookie(rr)
	if cookie == nil || cookie.Value != "secret-2" {
		t.Errorf("expected session cookie secret-2, got %+v", cookie)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	svc := &MockSessionService{
		SignInFunc: func(ctx context.Context, email, password string) (*session.Result, error) {
			return nil, session.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email": "jane@example.com", "password": "wrong"}`))
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	signedOut := ""
	svc := &MockSessionService{
		SignOutFunc: func(ctx context.Context, sessionSecret string) {
			signedOut = sessionSecret
		},
	}
	handler := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "secret-1"})
	rr := httptest.NewRecorder()
	handler.HandleLogout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if signedOut != "secret-1" {
		t.Errorf("expected sign-out of secret-1, got %q", signedOut)
	}

	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("expected a clearing cookie")
	}
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Errorf("expected an expired empty cookie, got %+v", cookie)
	}
}

func TestHandleLogout_NoCookie(t *testing.T) {
	svc := &MockSessionService{
		SignOutFunc: func(ctx context.Context, sessionSecret string) {
			t.Error("sign-out should not be called without a cookie")
		},
	}
	handler := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	handler.HandleLogout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestAuthEndpoints_MethodNotAllowed(t *testing.T) {
	handler := NewAuthHandler(&MockSessionService{})

	for _, h := range []http.HandlerFunc{handler.HandleRegister, handler.HandleLogin, handler.HandleLogout} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		h(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rr.Code)
		}
	}
}
