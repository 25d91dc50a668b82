package bankaccount

import "context"

// Repository defines the interface for linked-bank-account data access.
// GetByAccountID returns at most one record; Create returns ErrAlreadyLinked
// when the aggregator account id is already present.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*BankAccount, error)
	GetByID(ctx context.Context, id string) (*BankAccount, error)
	GetByAccountID(ctx context.Context, accountID string) (*BankAccount, error)
	ListByUserID(ctx context.Context, userID string) ([]*BankAccount, error)
}
