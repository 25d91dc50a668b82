package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 15 * time.Second
	accountPath    = "/account"
	sessionsPath   = "/account/sessions/email"
	currentPath    = "/account/sessions/current"
)

// Client handles communication with the hosted identity provider
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	apiKey     string
}

// Ensure Client implements Gateway
var _ Gateway = (*Client)(nil)

// NewClient creates a new identity provider client
func NewClient(baseURL, projectID, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:   baseURL,
		projectID: projectID,
		apiKey:    apiKey,
	}
}

type createAccountRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type accountResponse struct {
	ID string `json:"$id"`
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

// errorResponse is the provider's structured error body
type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// CreateAccount registers a new identity account and returns its id
func (c *Client) CreateAccount(ctx context.Context, email, password, name string) (string, error) {
	req := createAccountRequest{
		UserID:   uuid.NewString(),
		Email:    email,
		Password: password,
		Name:     name,
	}

	var resp accountResponse
	if err := c.do(ctx, http.MethodPost, accountPath, "", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateSession authenticates an email/password pair and returns the session
func (c *Client) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	req := createSessionRequest{Email: email, Password: password}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, sessionsPath, "", req, &resp); err != nil {
		return nil, err
	}
	return &Session{Secret: resp.Secret, AccountID: resp.UserID}, nil
}

// GetAccount resolves the account behind a session secret
func (c *Client) GetAccount(ctx context.Context, sessionSecret string) (string, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, accountPath, sessionSecret, nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// DeleteSession revokes the session behind a secret
func (c *Client) DeleteSession(ctx context.Context, sessionSecret string) error {
	return c.do(ctx, http.MethodDelete, currentPath, sessionSecret, nil, nil)
}

// do sends one request. Session-scoped calls carry the session secret; all
// calls carry the project id and the server API key.
func (c *Client) do(ctx context.Context, method, path, sessionSecret string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.projectID)
	req.Header.Set("X-Appwrite-Key", c.apiKey)
	if sessionSecret != "" {
		req.Header.Set("X-Appwrite-Session", sessionSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// mapError translates provider error bodies into the package sentinels
func (c *Client) mapError(status int, raw []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		return fmt.Errorf("identity request failed with status %d: %s", status, string(raw))
	}

	switch errResp.Type {
	case "user_invalid_credentials":
		return ErrInvalidCredentials
	case "user_already_exists", "user_email_already_exists":
		return ErrAccountExists
	case "user_session_not_found", "general_unauthorized_scope":
		return ErrNoSession
	}
	if status == http.StatusUnauthorized {
		return ErrNoSession
	}
	return fmt.Errorf("identity error (status %d): %s: %s", status, errResp.Type, errResp.Message)
}
