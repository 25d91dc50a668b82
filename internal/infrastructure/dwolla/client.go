package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	tokenPath      = "/token"
	customersPath  = "/customers"

	// Refresh the app token slightly before the provider expires it
	tokenExpirySlack = 60 * time.Second
)

// Client handles communication with the payment-rail API. Application auth
// uses short-lived client-credential tokens, cached until near expiry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string

	mu          sync.Mutex
	appToken    string
	tokenExpiry time.Time
}

// NewClient creates a new payment-rail API client
func NewClient(baseURL, key, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		key:     key,
		secret:  secret,
	}
}

// CustomerParams are the profile fields required for a personal customer record
type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type fundingSourceRequest struct {
	PlaidToken string `json:"plaidToken"`
	Name       string `json:"name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// APIError is the payment rail's structured error body
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment-rail error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
}

// CreateCustomer creates a personal customer record and returns its resource
// URL (from the Location header).
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	if params.Type == "" {
		params.Type = "personal"
	}
	return c.create(ctx, customersPath, params)
}

// CreateFundingSource attaches a verified funding source to an existing
// customer using a processor token, returning the funding-source URL.
func (c *Client) CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	path := fmt.Sprintf("%s/%s/funding-sources", customersPath, customerID)
	return c.create(ctx, path, fundingSourceRequest{
		PlaidToken: processorToken,
		Name:       bankName,
	})
}

// ExtractResourceID returns the trailing path segment of a resource URL
// (customer or funding-source), which is the provider's id for it.
func ExtractResourceID(resourceURL string) string {
	trimmed := strings.TrimRight(resourceURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// create POSTs a resource and returns the Location header. Every call carries
// a fresh idempotency key so a retried request cannot create a duplicate.
func (c *Client) create(ctx context.Context, path string, payload any) (string, error) {
	token, err := c.applicationToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			return "", fmt.Errorf("payment-rail request failed with status %d: %s", resp.StatusCode, string(raw))
		}
		return "", apiErr
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("payment-rail response missing Location header")
	}
	return location, nil
}

// applicationToken returns a valid client-credentials token, requesting a new
// one when the cached token is missing or close to expiry.
func (c *Client) applicationToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.appToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.appToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.key, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.appToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.appToken, nil
}
