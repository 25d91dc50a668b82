package linking

import "errors"

// One sentinel per workflow step, so callers can tell exactly where the chain
// broke. Failures past step one leave committed external side effects behind
// (see Service.LinkAccount).
var (
	// ErrValidation marks malformed input caught before any external call
	ErrValidation = errors.New("invalid input")
	// ErrAggregatorExchange: the public token was rejected (invalid or expired)
	ErrAggregatorExchange = errors.New("public token exchange failed")
	// ErrNoAccountsFound: the linked institution reported zero accounts
	ErrNoAccountsFound = errors.New("no accounts found for linked institution")
	// ErrProcessorToken: the aggregator refused to issue a processor token
	ErrProcessorToken = errors.New("processor token creation failed")
	// ErrFundingSource: the payment rail refused the funding source
	ErrFundingSource = errors.New("funding source creation failed")
	// ErrPersistence: the bank record could not be stored
	ErrPersistence = errors.New("failed to persist bank account")
	// ErrUpstream is the catch-all for unclassified provider failures
	ErrUpstream = errors.New("upstream provider failure")
)
