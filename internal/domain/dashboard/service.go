package dashboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/infrastructure/plaid"
)

const (
	defaultCacheTTL = 5 * time.Minute

	// Window of transactions shown on the account page
	transactionLookback = 30 * 24 * time.Hour
)

// Service assembles the home dashboard from the local bank records and live
// aggregator data. Balances never touch float math.
type Service struct {
	aggregator plaid.API
	banks      bankaccount.Repository
	cache      *overviewCache
}

func NewService(aggregator plaid.API, banks bankaccount.Repository) *Service {
	return &Service{
		aggregator: aggregator,
		banks:      banks,
		cache:      newOverviewCache(defaultCacheTTL),
	}
}

// Invalidate drops the cached home view for a user. The linking workflow
// calls this after a successful link.
func (s *Service) Invalidate(userID string) {
	s.cache.invalidate(userID)
}

// Overview returns the home view for a user, cached between links.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	if cached, ok := s.cache.get(userID); ok {
		return cached, nil
	}

	records, err := s.banks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked banks: %w", err)
	}

	overview := &Overview{
		Accounts:            []AccountView{},
		TotalCurrentBalance: decimal.Zero,
	}

	for _, record := range records {
		view, err := s.accountView(ctx, record)
		if err != nil {
			// One unreachable institution must not blank the whole dashboard
			log.Printf("Skipping bank %s on dashboard for user %s: %v", record.ID, userID, err)
			continue
		}
		overview.Accounts = append(overview.Accounts, *view)
		// Balances are summed as-is: all linked accounts are assumed to share
		// one currency (the aggregator reports USD for every supported rail).
		overview.TotalCurrentBalance = overview.TotalCurrentBalance.Add(view.CurrentBalance)
	}
	overview.TotalBanks = len(overview.Accounts)

	s.cache.set(userID, overview)
	return overview, nil
}

// Account returns one bank's live account data and recent transactions.
func (s *Service) Account(ctx context.Context, userID, bankRecordID string) (*AccountDetail, error) {
	record, err := s.banks.GetByID(ctx, bankRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank record: %w", err)
	}
	if record == nil {
		return nil, ErrBankNotFound
	}
	if record.UserID != userID {
		return nil, ErrForbidden
	}

	view, err := s.accountView(ctx, record)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.Add(-transactionLookback)
	transactions, err := s.aggregator.GetTransactions(ctx, record.AccessToken,
		start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	// Keep only this account's transactions; the item may span several
	filtered := transactions[:0:0]
	for _, tx := range transactions {
		if tx.AccountID == record.AccountID {
			filtered = append(filtered, tx)
		}
	}

	return &AccountDetail{Account: *view, Transactions: filtered}, nil
}

// accountView fetches the record's live account from the aggregator and
// joins it with local fields.
func (s *Service) accountView(ctx context.Context, record *bankaccount.BankAccount) (*AccountView, error) {
	accounts, err := s.aggregator.GetAccounts(ctx, record.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, acc := range accounts {
		if acc.AccountID != record.AccountID {
			continue
		}
		return &AccountView{
			BankRecordID:     record.ID,
			BankID:           record.BankID,
			SharableID:       record.SharableID,
			Name:             acc.Name,
			OfficialName:     acc.OfficialName,
			Mask:             acc.Mask,
			Type:             acc.Type,
			Subtype:          acc.Subtype,
			CurrentBalance:   nullableAmount(acc.Balances.Current),
			AvailableBalance: nullableAmount(acc.Balances.Available),
			Currency:         acc.Balances.IsoCurrencyCode,
		}, nil
	}

	return nil, fmt.Errorf("aggregator no longer reports account %s", record.AccountID)
}

func nullableAmount(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
