package bankaccount

import (
	"errors"
	"time"
)

// ErrAlreadyLinked is surfaced when a linking attempt targets an aggregator
// account that already has a record. Lookups that find nothing return
// (nil, nil); absence is handled by each caller.
var ErrAlreadyLinked = errors.New("bank account already linked")

// BankAccount is one durable bank link: the output of a completed linking
// workflow. Never updated in place; at most one record per aggregator
// account id (enforced by a unique constraint, not by workflow ordering).
type BankAccount struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BankID           string    `json:"bankId"`    // aggregator item id
	AccountID        string    `json:"accountId"` // aggregator account id
	AccessToken      string    `json:"-"`         // long-lived aggregator secret, server-side only
	FundingSourceURL string    `json:"-"`         // payment-rail resource
	SharableID       string    `json:"sharableId"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CreateParams struct {
	UserID           string
	BankID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	SharableID       string
}
