package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded in a bearer token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	// GenerateToken issues a signed token for the account.
	GenerateToken(accountID, email string) (string, error)

	// ValidateToken verifies signature and expiry and returns the embedded claims.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenTTL returns how long issued tokens stay valid.
	TokenTTL() time.Duration
}
