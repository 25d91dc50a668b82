package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"horizon/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

// Ensure UserRepository implements user.Repository
var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, identity_id, email, first_name, last_name, address, city, state, postal_code, date_of_birth, ssn, dwolla_customer_id, dwolla_customer_url, created_at`

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (identity_id, email, first_name, last_name, address, city, state, postal_code, date_of_birth, ssn, dwolla_customer_id, dwolla_customer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	var u user.User
	err := r.db.QueryRowContext(
		ctx, query,
		params.IdentityID, params.Email, params.FirstName, params.LastName,
		params.Address, params.City, params.State, params.PostalCode,
		params.DateOfBirth, params.SSN, params.DwollaCustomerID, params.DwollaCustomerURL,
	).Scan(userFields(&u)...)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE identity_id = $1`, identityID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(userFields(&u)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func userFields(u *user.User) []any {
	return []any{
		&u.ID, &u.IdentityID, &u.Email, &u.FirstName, &u.LastName,
		&u.Address, &u.City, &u.State, &u.PostalCode, &u.DateOfBirth,
		&u.SSN, &u.DwollaCustomerID, &u.DwollaCustomerURL, &u.CreatedAt,
	}
}
