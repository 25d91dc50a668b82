package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"horizon/internal/infrastructure/appwrite"
	"horizon/internal/shared/auth"
)

// Identity is an in-process identity backend for development and tests.
// Accounts and sessions live in memory; passwords are bcrypt-hashed the same
// way a self-hosted backend would store them. It implements the same Gateway
// as the hosted client, so the rest of the server cannot tell them apart.
type Identity struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by email
	sessions map[string]string   // session secret -> account id
	nextID   int64
}

type account struct {
	id           string
	email        string
	name         string
	passwordHash string
}

// Ensure Identity implements Gateway
var _ appwrite.Gateway = (*Identity)(nil)

func NewIdentity() *Identity {
	return &Identity{
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
	}
}

func (i *Identity) CreateAccount(ctx context.Context, email, password, name string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.accounts[email]; exists {
		return "", appwrite.ErrAccountExists
	}

	i.nextID++
	acc := &account{
		id:           fmt.Sprintf("local-%d", i.nextID),
		email:        email,
		name:         name,
		passwordHash: hash,
	}
	i.accounts[email] = acc
	return acc.id, nil
}

func (i *Identity) CreateSession(ctx context.Context, email, password string) (*appwrite.Session, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	acc, ok := i.accounts[email]
	if !ok {
		return nil, appwrite.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(acc.passwordHash, password); err != nil {
		return nil, appwrite.ErrInvalidCredentials
	}

	secret, err := newSecret()
	if err != nil {
		return nil, err
	}
	i.sessions[secret] = acc.id

	return &appwrite.Session{Secret: secret, AccountID: acc.id}, nil
}

func (i *Identity) GetAccount(ctx context.Context, sessionSecret string) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	accountID, ok := i.sessions[sessionSecret]
	if !ok {
		return "", appwrite.ErrNoSession
	}
	return accountID, nil
}

func (i *Identity) DeleteSession(ctx context.Context, sessionSecret string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.sessions[sessionSecret]; !ok {
		return appwrite.ErrNoSession
	}
	delete(i.sessions, sessionSecret)
	return nil
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
