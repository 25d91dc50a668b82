package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/infrastructure/crypto"
)

const uniqueViolation = pq.ErrorCode("23505")

// BankAccountRepository persists linked bank accounts. Aggregator access
// tokens are encrypted before they hit the table and decrypted on read.
type BankAccountRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

// Ensure BankAccountRepository implements bankaccount.Repository
var _ bankaccount.Repository = (*BankAccountRepository)(nil)

func NewBankAccountRepository(db *DB, encryptor *crypto.Encryptor) *BankAccountRepository {
	return &BankAccountRepository{db: db, encryptor: encryptor}
}

const bankAccountColumns = `id, user_id, bank_id, account_id, access_token, funding_source_url, sharable_id, created_at`

// Create inserts a new linked bank account. The account_id column carries a
// unique constraint; a second link of the same aggregator account surfaces
// as ErrAlreadyLinked no matter how the requests interleave.
func (r *BankAccountRepository) Create(ctx context.Context, params bankaccount.CreateParams) (*bankaccount.BankAccount, error) {
	encrypted, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO bank_accounts (user_id, bank_id, account_id, access_token, funding_source_url, sharable_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bankAccountColumns

	var ba bankaccount.BankAccount
	err = r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.BankID, params.AccountID,
		encrypted, params.FundingSourceURL, params.SharableID,
	).Scan(bankAccountFields(&ba)...)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, bankaccount.ErrAlreadyLinked
		}
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}

	ba.AccessToken = params.AccessToken
	return &ba, nil
}

func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*bankaccount.BankAccount, error) {
	return r.getOne(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1`, id)
}

// GetByAccountID returns the at-most-one record for an aggregator account id.
func (r *BankAccountRepository) GetByAccountID(ctx context.Context, accountID string) (*bankaccount.BankAccount, error) {
	return r.getOne(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE account_id = $1`, accountID)
}

func (r *BankAccountRepository) ListByUserID(ctx context.Context, userID string) ([]*bankaccount.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*bankaccount.BankAccount
	for rows.Next() {
		var ba bankaccount.BankAccount
		if err := rows.Scan(bankAccountFields(&ba)...); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		if err := r.decryptToken(&ba); err != nil {
			return nil, err
		}
		accounts = append(accounts, &ba)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank accounts: %w", err)
	}
	return accounts, nil
}

func (r *BankAccountRepository) getOne(ctx context.Context, query string, arg any) (*bankaccount.BankAccount, error) {
	var ba bankaccount.BankAccount
	err := r.db.QueryRowContext(ctx, query, arg).Scan(bankAccountFields(&ba)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	if err := r.decryptToken(&ba); err != nil {
		return nil, err
	}
	return &ba, nil
}

func (r *BankAccountRepository) decryptToken(ba *bankaccount.BankAccount) error {
	decrypted, err := r.encryptor.Decrypt(ba.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}
	ba.AccessToken = decrypted
	return nil
}

func bankAccountFields(ba *bankaccount.BankAccount) []any {
	return []any{
		&ba.ID, &ba.UserID, &ba.BankID, &ba.AccountID,
		&ba.AccessToken, &ba.FundingSourceURL, &ba.SharableID, &ba.CreatedAt,
	}
}
