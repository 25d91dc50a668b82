package local

import (
	"context"
	"errors"
	"testing"

	"horizon/internal/infrastructure/appwrite"
)

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	identity := NewIdentity()

	id, err := identity.CreateAccount(ctx, "jane@example.com", "hunter22", "Jane Doe")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty account id")
	}

	// Duplicate email
	if _, err := identity.CreateAccount(ctx, "jane@example.com", "other", "Jane Doe"); !errors.Is(err, appwrite.ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}

	// Sign in
	sess, err := identity.CreateSession(ctx, "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if sess.AccountID != id {
		t.Errorf("session belongs to %q, want %q", sess.AccountID, id)
	}
	if sess.Secret == "" {
		t.Fatal("expected a non-empty session secret")
	}

	// Session resolves back to the account
	resolved, err := identity.GetAccount(ctx, sess.Secret)
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if resolved != id {
		t.Errorf("GetAccount returned %q, want %q", resolved, id)
	}

	// Sign out kills the session
	if err := identity.DeleteSession(ctx, sess.Secret); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
	if _, err := identity.GetAccount(ctx, sess.Secret); !errors.Is(err, appwrite.ErrNoSession) {
		t.Errorf("expected ErrNoSession after sign out, got %v", err)
	}
	if err := identity.DeleteSession(ctx, sess.Secret); !errors.Is(err, appwrite.ErrNoSession) {
		t.Errorf("expected ErrNoSession on double sign out, got %v", err)
	}
}

func TestCreateSession_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	identity := NewIdentity()

	if _, err := identity.CreateSession(ctx, "nobody@example.com", "pw"); !errors.Is(err, appwrite.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if _, err := identity.CreateAccount(ctx, "jane@example.com", "hunter22", "Jane Doe"); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if _, err := identity.CreateSession(ctx, "jane@example.com", "wrong"); !errors.Is(err, appwrite.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestGetAccount_UnknownSecret(t *testing.T) {
	identity := NewIdentity()
	if _, err := identity.GetAccount(context.Background(), "no-such-secret"); !errors.Is(err, appwrite.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	identity := NewIdentity()

	if _, err := identity.CreateAccount(ctx, "jane@example.com", "hunter22", "Jane Doe"); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}

	first, err := identity.CreateSession(ctx, "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("first CreateSession returned error: %v", err)
	}
	second, err := identity.CreateSession(ctx, "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("second CreateSession returned error: %v", err)
	}
	if first.Secret == second.Secret {
		t.Error("expected distinct secrets for distinct sessions")
	}

	if err := identity.DeleteSession(ctx, first.Secret); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
	if _, err := identity.GetAccount(ctx, second.Secret); err != nil {
		t.Errorf("second session should survive the first's deletion, got %v", err)
	}
}
