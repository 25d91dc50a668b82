package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPost_MergesCredentialsIntoBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != exchangePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ExchangeResult{AccessToken: "access-1", ItemID: "item_1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-id", "secret-1")
	result, err := client.ExchangePublicToken(context.Background(), "tok_abc")
	if err != nil {
		t.Fatalf("ExchangePublicToken returned error: %v", err)
	}

	if result.AccessToken != "access-1" || result.ItemID != "item_1" {
		t.Errorf("unexpected result %+v", result)
	}
	if received["client_id"] != "client-id" || received["secret"] != "secret-1" {
		t.Errorf("credentials missing from body: %v", received)
	}
	if received["public_token"] != "tok_abc" {
		t.Errorf("payload missing from body: %v", received)
	}
}

func TestCreateLinkToken_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		user, _ := req["user"].(map[string]any)
		if user["client_user_id"] != "u1" {
			t.Errorf("expected client_user_id u1, got %v", user)
		}
		if req["client_name"] != "Horizon" {
			t.Errorf("expected client_name Horizon, got %v", req["client_name"])
		}
		products, _ := req["products"].([]any)
		if len(products) != 1 || products[0] != "auth" {
			t.Errorf("expected products [auth], got %v", products)
		}

		json.NewEncoder(w).Encode(map[string]string{"link_token": "link-token-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "secret")
	token, err := client.CreateLinkToken(context.Background(), "u1", "Horizon")
	if err != nil {
		t.Fatalf("CreateLinkToken returned error: %v", err)
	}
	if token != "link-token-1" {
		t.Errorf("expected link-token-1, got %q", token)
	}
}

func TestGetAccounts_NullBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accounts": [
				{
					"account_id": "acc_1",
					"name": "Credit Card",
					"balances": {"available": null, "current": 410.25, "iso_currency_code": "USD"}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "secret")
	accounts, err := client.GetAccounts(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("GetAccounts returned error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}

	acc := accounts[0]
	if acc.Balances.Available.Valid {
		t.Error("expected null available balance")
	}
	if !acc.Balances.Current.Valid || !acc.Balances.Current.Decimal.Equal(decimal.RequireFromString("410.25")) {
		t.Errorf("unexpected current balance %+v", acc.Balances.Current)
	}
}

func TestPost_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"error_type": "INVALID_INPUT",
			"error_code": "INVALID_PUBLIC_TOKEN",
			"error_message": "provided public token is expired",
			"request_id": "req-1"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id", "secret")
	_, err := client.ExchangePublicToken(context.Background(), "tok_expired")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.ErrorCode != "INVALID_PUBLIC_TOKEN" {
		t.Errorf("unexpected error code %q", apiErr.ErrorCode)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status %d", apiErr.StatusCode)
	}
}
