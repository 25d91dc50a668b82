package dashboard

import (
	"errors"

	"github.com/shopspring/decimal"

	"horizon/internal/infrastructure/plaid"
)

// Domain errors
var (
	ErrBankNotFound = errors.New("linked bank not found")
	ErrForbidden    = errors.New("access forbidden")
)

// AccountView is one linked account as the dashboard shows it: live
// aggregator data joined with the local bank record. The access token never
// appears here.
type AccountView struct {
	BankRecordID     string          `json:"bankRecordId"`
	BankID           string          `json:"bankId"`
	SharableID       string          `json:"sharableId"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"officialName"`
	Mask             string          `json:"mask"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	Currency         string          `json:"currency"`
}

// Overview is the home view: every linked account plus totals
type Overview struct {
	Accounts            []AccountView   `json:"accounts"`
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"totalCurrentBalance"`
}

// AccountDetail is one bank's live account plus recent transactions
type AccountDetail struct {
	Account      AccountView         `json:"account"`
	Transactions []plaid.Transaction `json:"transactions"`
}
