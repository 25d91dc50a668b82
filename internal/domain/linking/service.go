package linking

import (
	"context"
	"fmt"
	"log"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/plaid"
)

// The aggregator issues processor tokens per payment processor; ours is fixed.
const processorName = "dwolla"

// CacheInvalidator drops any cached dashboard view for a user once a new
// bank is linked.
type CacheInvalidator interface {
	Invalidate(userID string)
}

// Notifier is the optional post-link hook (push notification)
type Notifier interface {
	NotifyBankLinked(ctx context.Context, userID, bankName string)
}

// Service implements the account-linking workflow: it turns the link
// widget's one-time public token into a durable funding source and a local
// bank record. Steps run in strict order; each consumes the previous step's
// output. There is no compensation: a failure after step 1 leaves the
// exchanged access token (and, after step 4, the funding source) live at the
// providers. Creation calls to the payment rail carry idempotency keys so
// client retries of the whole workflow cannot duplicate rail resources.
type Service struct {
	aggregator plaid.API
	rail       dwolla.API
	codec      *crypto.IDCodec
	banks      bankaccount.Repository
	cache      CacheInvalidator
	notifier   Notifier
	clientName string
}

func NewService(aggregator plaid.API, rail dwolla.API, codec *crypto.IDCodec, banks bankaccount.Repository, cache CacheInvalidator, clientName string) *Service {
	return &Service{
		aggregator: aggregator,
		rail:       rail,
		codec:      codec,
		banks:      banks,
		cache:      cache,
		clientName: clientName,
	}
}

// SetNotifier attaches the post-link push hook (optional, called after construction)
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateLinkToken requests the short-lived token that boots the client-side
// link widget for this user.
func (s *Service) CreateLinkToken(ctx context.Context, usr *user.User) (string, error) {
	if usr == nil {
		return "", fmt.Errorf("%w: user is required", ErrValidation)
	}

	token, err := s.aggregator.CreateLinkToken(ctx, usr.ID, s.clientName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return token, nil
}

// LinkAccount runs the full linking chain for one public token.
func (s *Service) LinkAccount(ctx context.Context, usr *user.User, publicToken string) (*bankaccount.BankAccount, error) {
	if usr == nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if publicToken == "" {
		return nil, fmt.Errorf("%w: public token is required", ErrValidation)
	}
	if usr.DwollaCustomerID == "" {
		return nil, fmt.Errorf("%w: user has no payment-rail customer", ErrValidation)
	}

	// Step 1: trade the one-time public token for a durable access token
	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		log.Printf("Link failed at token exchange for user %s: %v", usr.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrAggregatorExchange, err)
	}

	// Step 2: pick the institution's first account. Zero accounts is a real
	// aggregator outcome and must not panic the chain.
	accounts, err := s.aggregator.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		log.Printf("Link failed at account fetch for user %s: %v", usr.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(accounts) == 0 {
		log.Printf("Link found no accounts for user %s (item %s)", usr.ID, exchange.ItemID)
		return nil, ErrNoAccountsFound
	}
	account := accounts[0]

	// Step 3: processor token scoped to that account
	processorToken, err := s.aggregator.CreateProcessorToken(ctx, exchange.AccessToken, account.AccountID, processorName)
	if err != nil {
		log.Printf("Link failed at processor token for user %s: %v", usr.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrProcessorToken, err)
	}

	// Step 4: funding source on the user's existing rail customer
	fundingSourceURL, err := s.rail.CreateFundingSource(ctx, usr.DwollaCustomerID, processorToken, account.Name)
	if err != nil {
		log.Printf("Link failed at funding source for user %s: %v", usr.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrFundingSource, err)
	}
	if fundingSourceURL == "" {
		log.Printf("Link got empty funding source URL for user %s", usr.ID)
		return nil, ErrFundingSource
	}

	// Step 5: opaque sharable id for the raw account id
	sharableID, err := s.codec.Encode(account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account id: %w", err)
	}

	// Step 6: durable record. The unique constraint on account_id decides
	// races between concurrent links of the same account.
	record, err := s.banks.Create(ctx, bankaccount.CreateParams{
		UserID:           usr.ID,
		BankID:           exchange.ItemID,
		AccountID:        account.AccountID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		SharableID:       sharableID,
	})
	if err != nil {
		log.Printf("Link failed at persistence for user %s: %v", usr.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	// Step 7: the cached dashboard no longer reflects reality
	if s.cache != nil {
		s.cache.Invalidate(usr.ID)
	}

	if s.notifier != nil {
		s.notifier.NotifyBankLinked(ctx, usr.ID, account.Name)
	}

	return record, nil
}
