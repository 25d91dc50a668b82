package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash from a plain text password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain text password matches the hash.
// Returns a non-nil error on mismatch.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
