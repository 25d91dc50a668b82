package dwolla

import (
	"context"
)

// API defines the methods required from the payment-rail client
type API interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)
