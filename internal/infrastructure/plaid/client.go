package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout     = 30 * time.Second
	linkTokenPath      = "/link/token/create"
	exchangePath       = "/item/public_token/exchange"
	accountsPath       = "/accounts/get"
	processorTokenPath = "/processor/token/create"
	transactionsPath   = "/transactions/get"
)

// Client handles communication with the bank-data aggregator API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// NewClient creates a new aggregator API client
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// Balances carries the point-in-time balance block of an account.
// Null balances happen (some credit products), hence NullDecimal.
type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	IsoCurrencyCode string              `json:"iso_currency_code"`
}

// Account represents one account under a linked item
type Account struct {
	AccountID    string   `json:"account_id"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Mask         string   `json:"mask"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Balances     Balances `json:"balances"`
}

// Transaction represents one transaction under a linked item
type Transaction struct {
	TransactionID  string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	Pending        bool            `json:"pending"`
	PaymentChannel string          `json:"payment_channel"`
	Category       []string        `json:"category"`
}

type linkTokenRequest struct {
	User         linkTokenUser `json:"user"`
	ClientName   string        `json:"client_name"`
	Products     []string      `json:"products"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type exchangeRequest struct {
	PublicToken string `json:"public_token"`
}

// ExchangeResult is the durable output of a public-token exchange
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

type accountsRequest struct {
	AccessToken string `json:"access_token"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type processorTokenRequest struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
	Processor   string `json:"processor"`
}

type processorTokenResponse struct {
	ProcessorToken string `json:"processor_token"`
}

type transactionsRequest struct {
	AccessToken string `json:"access_token"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type transactionsResponse struct {
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
}

// APIError is the aggregator's structured error body
type APIError struct {
	StatusCode   int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator error (status %d): %s/%s: %s", e.StatusCode, e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

// CreateLinkToken requests a short-lived token that initializes the
// client-side link widget for the given user.
func (c *Client) CreateLinkToken(ctx context.Context, userID, clientName string) (string, error) {
	req := linkTokenRequest{
		User:         linkTokenUser{ClientUserID: userID},
		ClientName:   clientName,
		Products:     []string{"auth"},
		Language:     "en",
		CountryCodes: []string{"US"},
	}

	var resp linkTokenResponse
	if err := c.post(ctx, linkTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken trades the widget's one-time public token for a
// long-lived access token and the item id of the new bank connection.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	var resp ExchangeResult
	if err := c.post(ctx, exchangePath, exchangeRequest{PublicToken: publicToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts fetches the account list for a linked item
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var resp accountsResponse
	if err := c.post(ctx, accountsPath, accountsRequest{AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// CreateProcessorToken requests a processor token scoped to one account,
// consumable by the named payment processor.
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	req := processorTokenRequest{
		AccessToken: accessToken,
		AccountID:   accountID,
		Processor:   processor,
	}

	var resp processorTokenResponse
	if err := c.post(ctx, processorTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

// GetTransactions fetches transactions for a linked item in [startDate, endDate]
func (c *Client) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]Transaction, error) {
	req := transactionsRequest{
		AccessToken: accessToken,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	var resp transactionsResponse
	if err := c.post(ctx, transactionsPath, req, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

// post sends an authenticated JSON request and decodes the response into out.
// Client credentials ride in the body, per the aggregator's wire format.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	merged, err := mergeJSON(credentials{ClientID: c.clientID, Secret: c.secret}, payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(merged))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			return fmt.Errorf("aggregator request failed with status %d: %s", resp.StatusCode, string(raw))
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// mergeJSON flattens the credential envelope and the endpoint payload into a
// single JSON object.
func mergeJSON(creds, payload any) ([]byte, error) {
	base := map[string]json.RawMessage{}

	cb, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cb, &base); err != nil {
		return nil, err
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(pb, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}

	return json.Marshal(base)
}
