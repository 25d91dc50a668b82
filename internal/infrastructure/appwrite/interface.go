package appwrite

import (
	"context"
	"errors"
)

// Sentinel errors shared by every identity backend implementation.
var (
	// ErrInvalidCredentials is returned when the provider rejects an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession is returned when a session secret is missing, expired or
	// revoked. Callers treat it as "signed out", not as a failure.
	ErrNoSession = errors.New("no active session")
	// ErrAccountExists is returned when an account with the email already exists.
	ErrAccountExists = errors.New("account already exists")
)

// Session is an identity-provider session: the opaque secret that goes into
// the cookie plus the account it authenticates.
type Session struct {
	Secret    string
	AccountID string
}

// Gateway defines the methods required from the identity/session provider.
// Implemented by the hosted client here and by the in-process backend in
// infrastructure/local.
type Gateway interface {
	CreateAccount(ctx context.Context, email, password, name string) (string, error)
	CreateSession(ctx context.Context, email, password string) (*Session, error)
	GetAccount(ctx context.Context, sessionSecret string) (string, error)
	DeleteSession(ctx context.Context, sessionSecret string) error
}
