package plaid

import (
	"context"
)

// API defines the methods required from the aggregator client
type API interface {
	CreateLinkToken(ctx context.Context, userID, clientName string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]Transaction, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)
