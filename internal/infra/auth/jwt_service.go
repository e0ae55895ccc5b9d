package auth

import (
	"strings"
	"time"

	"cycletrack/config"
	"cycletrack/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const tokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// The signing secret comes from configuration and must not be empty.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if strings.TrimSpace(cfg.SecretKey.Access) == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return NewJWTServiceWithClock(cfg.SecretKey.Access, time.Now), nil
}

// NewJWTServiceWithClock builds a token service whose issue and expiry checks use now.
func NewJWTServiceWithClock(secret string, now func() time.Time) service.TokenService {
	return &jwtService{
		secret: []byte(secret),
		ttl:    tokenTTL,
		now:    now,
	}
}

// GenerateToken signs {userId, email} with a one hour expiry.
func (s *jwtService) GenerateToken(accountID, email string) (string, error) {
	issuedAt := s.now()
	claims := service.Claims{
		UserID: accountID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// ValidateToken checks signature, algorithm and expiry, returning the embedded claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	if claims.UserID == "" {
		return nil, errors.New("token carries no user id")
	}

	return claims, nil
}

// TokenTTL returns how long issued tokens stay valid.
func (s *jwtService) TokenTTL() time.Duration {
	return s.ttl
}
