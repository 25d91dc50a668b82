package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/session"
	"horizon/internal/shared/auth"
)

// SessionService is the slice of the session workflow the auth endpoints use.
type SessionService interface {
	Register(ctx context.Context, params session.RegisterParams) (*session.Result, error)
	SignIn(ctx context.Context, email, password string) (*session.Result, error)
	SignOut(ctx context.Context, sessionSecret string)
}

type AuthHandler struct {
	sessions SessionService
}

func NewAuthHandler(sessions SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account, a payment-rail customer and a profile,
// then opens a session for the new user.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.sessions.Register(r.Context(), session.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		DateOfBirth: req.DateOfBirth,
		SSN:         req.SSN,
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, session.ErrAccountExists):
			http.Error(w, "An account with this email already exists", http.StatusConflict)
		default:
			log.Printf("Error registering user: %v", err)
			http.Error(w, "Failed to register", http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, auth.SessionCookie(res.Session.Secret))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res.User)
}

// HandleLogin opens a session for an existing account and sets the session
// cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, session.ErrInvalidCredentials):
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			log.Printf("Error signing in: %v", err)
			http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, auth.SessionCookie(res.Session.Secret))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.User)
}

// HandleLogout revokes the current session and clears the cookie. The cookie
// is cleared even when revocation fails upstream.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		h.sessions.SignOut(r.Context(), cookie.Value)
	}

	http.SetCookie(w, auth.ClearSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}
