package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/appwrite"
	"horizon/internal/infrastructure/dwolla"
)

// Re-exported identity sentinels so callers depend on the domain package only.
var (
	ErrInvalidCredentials = appwrite.ErrInvalidCredentials
	ErrAccountExists      = appwrite.ErrAccountExists
)

// ErrValidation marks malformed input caught before any external call
var ErrValidation = errors.New("invalid input")

// CustomerCreator is the slice of the payment-rail gateway sign-up needs
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, params dwolla.CustomerParams) (string, error)
}

// Service implements the sign-up/sign-in/sign-out workflows. Sessions are
// provider-managed: this service never stores them, it only moves the secret
// between the provider and the caller.
type Service struct {
	identity appwrite.Gateway
	users    user.Repository
	rail     CustomerCreator
}

func NewService(identity appwrite.Gateway, users user.Repository, rail CustomerCreator) *Service {
	return &Service{identity: identity, users: users, rail: rail}
}

// Result carries the authenticated user together with the session that
// authenticates them. The session is part of the return value, never a side
// channel: the HTTP layer decides how to transport it (cookie).
type Result struct {
	User    *user.User
	Session *appwrite.Session
}

type RegisterParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	City        string
	State       string
	PostalCode  string
	DateOfBirth string
	SSN         string
}

func (p RegisterParams) validate() error {
	switch {
	case strings.TrimSpace(p.Email) == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case p.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "":
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	case p.DateOfBirth == "":
		return fmt.Errorf("%w: date of birth is required", ErrValidation)
	case p.SSN == "":
		return fmt.Errorf("%w: ssn is required", ErrValidation)
	}
	return nil
}

// Register creates the identity account, the payment-rail customer and the
// local profile, in that order, then opens a session. A later step failing
// leaves the earlier resources in place (no compensation): the identity
// account and the rail customer are external creations with no local undo.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	name := params.FirstName + " " + params.LastName

	identityID, err := s.identity.CreateAccount(ctx, params.Email, params.Password, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity account: %w", err)
	}

	customerURL, err := s.rail.CreateCustomer(ctx, dwolla.CustomerParams{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        "personal",
		Address1:    params.Address,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment-rail customer: %w", err)
	}
	if customerURL == "" {
		return nil, fmt.Errorf("payment-rail customer URL is empty")
	}

	usr, err := s.users.Create(ctx, user.CreateParams{
		IdentityID:        identityID,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address:           params.Address,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       params.DateOfBirth,
		SSN:               params.SSN,
		DwollaCustomerID:  dwolla.ExtractResourceID(customerURL),
		DwollaCustomerURL: customerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	sess, err := s.identity.CreateSession(ctx, params.Email, params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Result{User: usr, Session: sess}, nil
}

// SignIn authenticates the pair with the identity provider and resolves the
// local profile through the identity id embedded in the session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Result, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	sess, err := s.identity.CreateSession(ctx, email, password)
	if err != nil {
		if errors.Is(err, appwrite.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	usr, err := s.users.GetByIdentityID(ctx, sess.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("no profile for identity account %s", sess.AccountID)
	}

	return &Result{User: usr, Session: sess}, nil
}

// CurrentUser resolves the profile behind a session secret. An absent or
// invalid session returns (nil, nil): being signed out is a normal state,
// not a failure.
func (s *Service) CurrentUser(ctx context.Context, sessionSecret string) (*user.User, error) {
	if sessionSecret == "" {
		return nil, nil
	}

	identityID, err := s.identity.GetAccount(ctx, sessionSecret)
	if err != nil {
		if errors.Is(err, appwrite.ErrNoSession) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	usr, err := s.users.GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return usr, nil
}

// SignOut revokes the provider-side session. Best-effort: a provider failure
// is logged and swallowed, the caller clears the cookie either way.
func (s *Service) SignOut(ctx context.Context, sessionSecret string) {
	if sessionSecret == "" {
		return
	}
	if err := s.identity.DeleteSession(ctx, sessionSecret); err != nil && !errors.Is(err, appwrite.ErrNoSession) {
		log.Printf("Failed to delete provider session: %v", err)
	}
}
