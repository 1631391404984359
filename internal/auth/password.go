package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

// ErrInvalidCredentials means the password does not match the admin hash.
var ErrInvalidCredentials = errors.New("invalid credentials")

// BcryptCost maps a configured cost into the range bcrypt accepts.
func BcryptCost(cost int) int {
	switch {
	case cost <= 0:
		return DefaultBcryptCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword hashes an admin password for AUTH_ADMIN_PASSWORD_HASH.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost(cost))
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword checks plain against the stored admin hash. A mismatch or
// an unset hash yields ErrInvalidCredentials; a malformed hash is returned
// as a plain error.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("admin password hash: %w", err)
	}
}
