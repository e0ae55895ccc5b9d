// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"

	"cycletrack/config"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes; longer secrets are rejected instead.
	maxPasswordLength = 72
	passwordSymbols   = "@$!%*?&"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher builds the hasher with the configured cost, falling back to bcrypt.DefaultCost.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost builds the hasher with an explicit cost, clamped to bcrypt's range.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	cost = max(cost, bcrypt.MinCost)
	cost = min(cost, bcrypt.MaxCost)

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domainerrors.ErrInvalidCredentialFormat.WithDetails("must be at most 72 bytes long")
	}
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the registration policy: at least six characters
// drawn only from ASCII letters, digits and @$!%*?&, with at least one of each class.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if !h.hasOnlyAllowedChars(password) {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("may only contain letters, numbers and " + passwordSymbols)
	}

	if len(password) < minPasswordLength {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("must be at least 6 characters long")
	}

	if len(password) > maxPasswordLength {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("must be at most 72 bytes long")
	}

	if !h.hasLetter(password) {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("must contain at least one letter")
	}

	if !h.hasNumbers(password) {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("must contain at least one number")
	}

	if !h.hasSpecialChars(password) {
		return domainerrors.ErrInvalidCredentialFormat.WithDetails("must contain at least one of " + passwordSymbols)
	}

	return nil
}

func (h *bcryptHasher) hasOnlyAllowedChars(password string) bool {
	for i := 0; i < len(password); i++ {
		c := password[i]
		if !isASCIILetter(c) && !isASCIIDigit(c) && strings.IndexByte(passwordSymbols, c) < 0 {
			return false
		}
	}

	return true
}

func (h *bcryptHasher) hasLetter(password string) bool {
	for i := 0; i < len(password); i++ {
		if isASCIILetter(password[i]) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) hasNumbers(password string) bool {
	for i := 0; i < len(password); i++ {
		if isASCIIDigit(password[i]) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) hasSpecialChars(password string) bool {
	return strings.ContainsAny(password, passwordSymbols)
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
