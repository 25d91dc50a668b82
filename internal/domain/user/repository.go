package user

import "context"

// Repository defines the interface for user profile data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIdentityID(ctx context.Context, identityID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
